package api

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// Version is the release number of this SDK.
	Version = "0.3.0"

	// SecretKeyEnvVar is the environment variable that will be used for the secret key by default.
	SecretKeyEnvVar = "PAYMENTS_SECRET_KEY"

	// DefaultBaseURL is used when no BaseURL option is given.
	DefaultBaseURL = "https://api.payments.dev/v1"
)

var userAgent = buildUserAgent("payments-go-api", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

func buildUserAgent(name string, version string, info ...string) string {
	product := fmt.Sprintf("%s/%s", name, version)
	systemInfo := strings.Join(info, "; ")
	return fmt.Sprintf("%s (%s)", product, systemInfo)
}
