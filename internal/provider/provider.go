package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/logging"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/validation"

	paymentsApi "github.com/paymentsio/terraform-provider-payments/api"
	"github.com/paymentsio/terraform-provider-payments/internal/provider/client"
)

const PaymentsUrlEnvVar = "PAYMENTS_URL"

// Shared with the framework provider, mux refuses to serve two providers whose schemas differ.
var (
	urlDescription               = fmt.Sprintf("This is the URL of the payments API and will default to `%s`. This can also be set by the `%s` environment variable.", paymentsApi.DefaultBaseURL, PaymentsUrlEnvVar)
	secretKeyDescription         = fmt.Sprintf("This is the payments API secret key. It must be provided but can also be set by the `%s` environment variable.", paymentsApi.SecretKeyEnvVar)
	maxNetworkRetriesDescription = "How many times a request that failed on the network, or with a 409, 429 or 5xx status, is sent again. Defaults to `0`."
)

func init() {
	schema.DescriptionKind = schema.StringMarkdown
}

func New(version string) func() *schema.Provider {
	return func() *schema.Provider {
		p := &schema.Provider{
			Schema: map[string]*schema.Schema{
				"url": {
					Type:        schema.TypeString,
					Description: urlDescription,
					Optional:    true,
					DefaultFunc: schema.EnvDefaultFunc(PaymentsUrlEnvVar, ""),
				},
				"secret_key": {
					Type:        schema.TypeString,
					Description: secretKeyDescription,
					Optional:    true,
					Sensitive:   true,
				},
				"max_network_retries": {
					Type:             schema.TypeInt,
					Description:      maxNetworkRetriesDescription,
					Optional:         true,
					ValidateDiagFunc: validation.ToDiagFunc(validation.IntBetween(0, 10)),
				},
			},
			DataSourcesMap: map[string]*schema.Resource{
				"payments_payment_methods": dataSourcePaymentsPaymentMethods(),
			},
			ResourcesMap: map[string]*schema.Resource{
				"payments_payment_method": resourcePaymentsPaymentMethod(),
			},
		}

		p.ConfigureContextFunc = configure(version, p)

		return p
	}
}

func configure(version string, p *schema.Provider) func(context.Context, *schema.ResourceData) (interface{}, diag.Diagnostics) {
	return func(_ context.Context, d *schema.ResourceData) (interface{}, diag.Diagnostics) {
		var config []paymentsApi.Option
		config = append(config, paymentsApi.AdditionalUserAgent(p.UserAgent("terraform-provider-payments", version)))

		url := d.Get("url").(string)
		secretKey := d.Get("secret_key").(string)
		retries := d.Get("max_network_retries").(int)

		if url != "" {
			config = append(config, paymentsApi.BaseURL(url))
		}

		if secretKey != "" {
			config = append(config, paymentsApi.Auth(secretKey))
		}

		if retries > 0 {
			config = append(config, paymentsApi.MaxNetworkRetries(uint(retries)))
		}

		if logging.IsDebugOrHigher() {
			config = append(config, paymentsApi.LogRequests(true))
		}

		config = append(config, paymentsApi.Logger(&DebugLogger{}))

		c, err := paymentsApi.NewClient(config...)
		if err != nil {
			return nil, diag.FromErr(err)
		}

		return &client.ApiClient{
			Client: c,
		}, nil
	}
}
