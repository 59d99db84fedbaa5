package provider

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	paymentsApi "github.com/paymentsio/terraform-provider-payments/api"
	"github.com/paymentsio/terraform-provider-payments/internal/provider/client"
	"github.com/paymentsio/terraform-provider-payments/internal/provider/paymentmethod"
)

// Ensure PaymentsProvider satisfies provider interface.
var _ provider.Provider = &PaymentsProvider{}

// PaymentsProvider serves the resources and data sources written with the plugin framework.
type PaymentsProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
}

// PaymentsProviderModel describes the provider data model.
type PaymentsProviderModel struct {
	Url               types.String `tfsdk:"url"`
	SecretKey         types.String `tfsdk:"secret_key"`
	MaxNetworkRetries types.Int64  `tfsdk:"max_network_retries"`
}

func (p *PaymentsProvider) Metadata(_ context.Context, _ provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "payments"
	resp.Version = p.version
}

func (p *PaymentsProvider) Schema(_ context.Context, _ provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Attributes: map[string]schema.Attribute{
			"url": schema.StringAttribute{
				MarkdownDescription: urlDescription,
				Optional:            true,
			},
			"secret_key": schema.StringAttribute{
				MarkdownDescription: secretKeyDescription,
				Optional:            true,
				Sensitive:           true,
			},
			"max_network_retries": schema.Int64Attribute{
				MarkdownDescription: maxNetworkRetriesDescription,
				Optional:            true,
				Validators: []validator.Int64{
					int64validator.Between(0, 10),
				},
			},
		},
	}
}

func (p *PaymentsProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	tflog.Info(ctx, "Configuring payments client")

	var config []paymentsApi.Option
	ua := "Terraform/" + req.TerraformVersion + " (+https://www.terraform.io) Terraform-Plugin-Framework terraform-provider-payments/" + p.version
	config = append(config, paymentsApi.AdditionalUserAgent(ua))

	var data PaymentsProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Both values should be known before any other resource is applied
	if data.Url.IsUnknown() {
		resp.Diagnostics.AddAttributeError(
			path.Root("url"),
			"Unknown payments API url",
			"The provider cannot create the payments API client as there is an unknown configuration value for the payments API url. "+
				"Either target apply the source of the value first, set the value statically in the configuration, or use the "+PaymentsUrlEnvVar+" environment variable.",
		)
	}

	if data.SecretKey.IsUnknown() {
		resp.Diagnostics.AddAttributeError(
			path.Root("secret_key"),
			"Unknown payments API secret key",
			"The provider cannot create the payments API client as there is an unknown configuration value for the payments API secret key. "+
				"Either target apply the source of the value first, set the value statically in the configuration, or use the "+paymentsApi.SecretKeyEnvVar+" environment variable.",
		)
	}

	if resp.Diagnostics.HasError() {
		return
	}

	// Default values to environment variables, but override with Terraform configuration value if set.
	url := os.Getenv(PaymentsUrlEnvVar)
	secretKey := os.Getenv(paymentsApi.SecretKeyEnvVar)

	if !data.Url.IsNull() {
		url = data.Url.ValueString()
	}

	if !data.SecretKey.IsNull() {
		secretKey = data.SecretKey.ValueString()
	}

	if secretKey == "" {
		resp.Diagnostics.AddAttributeError(
			path.Root("secret_key"),
			"Missing payments API secret key",
			"The provider cannot create the payments API client as there is a missing or empty value for the payments API secret key. "+
				"Set the secret_key value in the configuration or use the "+paymentsApi.SecretKeyEnvVar+" environment variable. "+
				"If either is already set, ensure the value is not empty.",
		)
	}

	if resp.Diagnostics.HasError() {
		return
	}

	if url != "" {
		config = append(config, paymentsApi.BaseURL(url))
	}
	config = append(config, paymentsApi.Auth(secretKey))

	if retries := data.MaxNetworkRetries.ValueInt64(); retries > 0 {
		config = append(config, paymentsApi.MaxNetworkRetries(uint(retries)))
	}

	// Analogue for sdkv2's logging.IsDebugOrHigher
	logLevel := strings.ToUpper(os.Getenv("TF_LOG"))
	if logLevel == "DEBUG" || logLevel == "TRACE" {
		config = append(config, paymentsApi.LogRequests(true))
	}

	config = append(config, paymentsApi.Logger(&DebugLogger{}))

	ctx = tflog.SetField(ctx, "payments_url", url)
	ctx = tflog.SetField(ctx, "payments_secret_key", secretKey)
	ctx = tflog.MaskFieldValuesWithFieldKeys(ctx, "payments_secret_key")

	tflog.Debug(ctx, "Creating payments client")

	c, err := paymentsApi.NewClient(config...)
	if err != nil {
		resp.Diagnostics.AddError(
			"Unable to create payments API client",
			"An unexpected error occurred when creating the payments API client: "+err.Error(),
		)
		return
	}

	tflog.Info(ctx, "Configured payments client", map[string]any{"success": true})

	apiClient := &client.ApiClient{Client: c}
	resp.DataSourceData = apiClient
	resp.ResourceData = apiClient
}

func (p *PaymentsProvider) Resources(_ context.Context) []func() resource.Resource {
	return []func() resource.Resource{}
}

func (p *PaymentsProvider) DataSources(_ context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		paymentmethod.NewDataSource,
	}
}

func NewFrameworkProvider(version string) func() provider.Provider {
	return func() provider.Provider {
		return &PaymentsProvider{
			version: version,
		}
	}
}
