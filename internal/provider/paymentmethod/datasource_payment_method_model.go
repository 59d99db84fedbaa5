package paymentmethod

import (
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// PaymentMethodDataSourceModel describes the data source data model.
type PaymentMethodDataSourceModel struct {
	ID              types.String `tfsdk:"id"`
	Customer        types.String `tfsdk:"customer"`
	Type            types.String `tfsdk:"type"`
	CardBrand       types.String `tfsdk:"card_brand"`
	ExcludeExpired  types.Bool   `tfsdk:"exclude_expired"`
	LastFourNumbers types.String `tfsdk:"last_four_numbers"`
	ExpMonth        types.Int64  `tfsdk:"exp_month"`
	ExpYear         types.Int64  `tfsdk:"exp_year"`
}
