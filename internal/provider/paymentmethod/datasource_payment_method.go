package paymentmethod

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/paymentsio/terraform-provider-payments/internal/provider/client"
)

// Ensure the implementation satisfies the expected interfaces.
var (
	_ datasource.DataSource              = &paymentMethodDataSource{}
	_ datasource.DataSourceWithConfigure = &paymentMethodDataSource{}
)

type paymentMethodDataSource struct {
	client *client.ApiClient
}

// NewDataSource returns a new data source instance.
func NewDataSource() datasource.DataSource {
	return &paymentMethodDataSource{}
}

func (d *paymentMethodDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_payment_method"
}

// Configure adds the provider configured client to the data source.
func (d *paymentMethodDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	c, ok := req.ProviderData.(*client.ApiClient)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *client.ApiClient, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return
	}

	d.client = c
}

func (d *paymentMethodDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The Payment Method data source finds a single card payment method, either by its ID or by searching the payment methods of a customer.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "The ID of the payment method",
				Optional:    true,
				Computed:    true,
				Validators: []validator.String{
					stringvalidator.ExactlyOneOf(path.MatchRoot("customer")),
				},
			},
			"customer": schema.StringAttribute{
				Description: "The ID of the customer whose payment methods are searched",
				Optional:    true,
				Computed:    true,
			},
			"type": schema.StringAttribute{
				Description: "The type of the payment method",
				Computed:    true,
			},
			"card_brand": schema.StringAttribute{
				Description: "Brand of card that the payment method should be, such as `visa`",
				Optional:    true,
				Computed:    true,
			},
			"exclude_expired": schema.BoolAttribute{
				Description: "Whether to exclude any expired cards or not. Default is `true`.",
				Optional:    true,
			},
			"last_four_numbers": schema.StringAttribute{
				Description: "Last four numbers of the card of the payment method",
				Optional:    true,
				Computed:    true,
				Validators: []validator.String{
					stringvalidator.RegexMatches(
						regexp.MustCompile(`^\d{4}$`),
						"must contain last four numbers of the card of the payment method",
					),
				},
			},
			"exp_month": schema.Int64Attribute{
				Description: "The expiry month of the card",
				Computed:    true,
			},
			"exp_year": schema.Int64Attribute{
				Description: "The expiry year of the card",
				Computed:    true,
			},
		},
	}
}
