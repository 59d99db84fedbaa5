package provider

import (
	"context"
	"os"
	"testing"

	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSourcePaymentMethodsRead(t *testing.T) {
	mock, meta := newMockApi(t, map[string]string{
		"GET /payment_methods": `{
  "object": "list",
  "has_more": false,
  "data": [
    {"id": "pm_1", "type": "card", "created": 1700000000, "card": {"brand": "visa", "last4": "4242", "exp_month": 12, "exp_year": 2034}},
    {"id": "pm_2", "type": "card", "created": 1700000001, "card": {"brand": "mastercard", "last4": "4444", "exp_month": 1, "exp_year": 2030}}
  ]
}`,
	})

	d := schema.TestResourceDataRaw(t, dataSourcePaymentsPaymentMethods().Schema, map[string]interface{}{
		"customer": "cus_1",
		"type":     "card",
	})

	diags := dataSourcePaymentsPaymentMethodsRead(context.Background(), d, meta)
	require.False(t, diags.HasError(), "%+v", diags)

	assert.Equal(t, []string{"GET /payment_methods"}, mock.calls())
	assert.Equal(t, "cus_1", d.Id())
	assert.Equal(t, 2, d.Get("payment_methods.#"))
	assert.Equal(t, "pm_1", d.Get("payment_methods.0.id"))
	assert.Equal(t, "visa", d.Get("payment_methods.0.card_brand"))
	assert.Equal(t, "4444", d.Get("payment_methods.1.card_last4"))
	assert.Equal(t, 2030, d.Get("payment_methods.1.card_exp_year"))
}

func TestDataSourcePaymentMethodsRead_ReportsApiError(t *testing.T) {
	_, meta := newMockApi(t, map[string]string{})

	d := schema.TestResourceDataRaw(t, dataSourcePaymentsPaymentMethods().Schema, map[string]interface{}{
		"customer": "cus_1",
	})

	diags := dataSourcePaymentsPaymentMethodsRead(context.Background(), d, meta)
	assert.True(t, diags.HasError())
}

func TestAccDataSourcePaymentsPaymentMethods(t *testing.T) {
	customer := os.Getenv("PAYMENTS_TEST_CUSTOMER")

	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t); testAccCustomerPreCheck(t) },
		ProtoV5ProviderFactories: protoV5ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: `
data "payments_payment_methods" "all" {
  customer = "` + customer + `"
  type     = "card"
}
`,
				Check: resource.ComposeTestCheckFunc(
					resource.TestCheckResourceAttr("data.payments_payment_methods.all", "customer", customer),
					resource.TestCheckResourceAttrSet("data.payments_payment_methods.all", "payment_methods.#"),
				),
			},
		},
	})
}
