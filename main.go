package main

import (
	"flag"
	"log"

	"github.com/hashicorp/terraform-plugin-go/tfprotov5/tf5server"

	"github.com/paymentsio/terraform-provider-payments/internal/provider"
)

var (
	// Provided by goreleaser configuration for each binary
	// Allows goreleaser to pass version details
	version = "dev"
)

func main() {
	var debugMode bool

	flag.BoolVar(&debugMode, "debug", false, "set to true to run the provider with support for debuggers like delve")
	flag.Parse()

	muxServer, err := provider.MuxProviderServerCreator(
		provider.New(version)(),
		provider.NewFrameworkProvider(version)(),
	)
	if err != nil {
		log.Fatal(err)
	}

	var serveOpts []tf5server.ServeOpt

	// Prevent logger from prepending date/time to logs, which breaks log-level parsing/filtering
	log.SetFlags(0)

	if debugMode {
		serveOpts = append(serveOpts, tf5server.WithManagedDebug())
	}

	err = tf5server.Serve("registry.terraform.io/paymentsio/payments", muxServer, serveOpts...)
	if err != nil {
		log.Fatal(err)
	}
}
