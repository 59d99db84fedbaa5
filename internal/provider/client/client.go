package client

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	paymentsApi "github.com/paymentsio/terraform-provider-payments/api"
)

type ApiClient struct {
	Client *paymentsApi.Client
}

// Config is read from the environment by NewClient.
type Config struct {
	URL               string `env:"PAYMENTS_URL" env-default:"https://api.payments.dev/v1"`
	SecretKey         string `env:"PAYMENTS_SECRET_KEY" env-required:"true"`
	MaxNetworkRetries int    `env:"PAYMENTS_MAX_NETWORK_RETRIES" env-default:"0"`
}

// NewClient creates a new ApiClient using environment variables for configuration.
// This is useful for tests that need to create a client before the provider is configured.
func NewClient() (*ApiClient, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read payments API configuration: %w", err)
	}

	return NewClientFromConfig(cfg)
}

func NewClientFromConfig(cfg Config) (*ApiClient, error) {
	config := []paymentsApi.Option{
		paymentsApi.BaseURL(cfg.URL),
		paymentsApi.Auth(cfg.SecretKey),
	}
	if cfg.MaxNetworkRetries > 0 {
		config = append(config, paymentsApi.MaxNetworkRetries(uint(cfg.MaxNetworkRetries)))
	}

	client, err := paymentsApi.NewClient(config...)
	if err != nil {
		return nil, err
	}

	return &ApiClient{
		Client: client,
	}, nil
}
