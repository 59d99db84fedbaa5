package provider

import (
	"context"
	"log"

	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/validation"

	"github.com/paymentsio/terraform-provider-payments/api/payments"
	"github.com/paymentsio/terraform-provider-payments/api/service/payment_methods"
	"github.com/paymentsio/terraform-provider-payments/internal/provider/client"
)

func dataSourcePaymentsPaymentMethods() *schema.Resource {
	return &schema.Resource{
		Description: "Lists the payment methods attached to a customer.",
		ReadContext: dataSourcePaymentsPaymentMethodsRead,

		Schema: map[string]*schema.Schema{
			"customer": {
				Description: "The ID of the customer whose payment methods are listed",
				Type:        schema.TypeString,
				Required:    true,
			},
			"type": {
				Description:      "Only list payment methods of this type",
				Type:             schema.TypeString,
				Optional:         true,
				ValidateDiagFunc: validateDiagFunc(validation.StringInSlice(payment_methods.TypeValues(), false)),
			},
			"payment_methods": {
				Description: "The payment methods attached to the customer",
				Type:        schema.TypeList,
				Computed:    true,
				Elem: &schema.Resource{
					Schema: map[string]*schema.Schema{
						"id": {
							Type:     schema.TypeString,
							Computed: true,
						},
						"type": {
							Type:     schema.TypeString,
							Computed: true,
						},
						"card_brand": {
							Type:     schema.TypeString,
							Computed: true,
						},
						"card_last4": {
							Type:     schema.TypeString,
							Computed: true,
						},
						"card_exp_month": {
							Type:     schema.TypeInt,
							Computed: true,
						},
						"card_exp_year": {
							Type:     schema.TypeInt,
							Computed: true,
						},
						"created": {
							Type:     schema.TypeInt,
							Computed: true,
						},
					},
				},
			},
		},
	}
}

func dataSourcePaymentsPaymentMethodsRead(ctx context.Context, d *schema.ResourceData, meta interface{}) diag.Diagnostics {
	var diags diag.Diagnostics
	api := meta.(*client.ApiClient)

	customer := d.Get("customer").(string)
	params := payment_methods.ListPaymentMethods{
		Customer: payments.String(customer),
	}
	if t, ok := d.GetOk("type"); ok {
		params.Type = payments.String(t.(string))
	}

	methods, err := api.Client.PaymentMethod.List(ctx, params)
	if err != nil {
		return diag.FromErr(err)
	}

	log.Printf("[DEBUG] Found %d payment methods for customer %s", len(methods), customer)

	if err := d.Set("payment_methods", flattenPaymentMethods(methods)); err != nil {
		return diag.FromErr(err)
	}

	d.SetId(customer)

	return diags
}

func flattenPaymentMethods(methods []*payment_methods.PaymentMethod) []map[string]interface{} {
	var tf []map[string]interface{}
	for _, method := range methods {
		if method == nil {
			continue
		}

		m := map[string]interface{}{
			"id":      payments.StringValue(method.ID),
			"type":    payments.StringValue(method.Type),
			"created": int(payments.Int64Value(method.Created)),
		}
		if card := method.Card; card != nil {
			m["card_brand"] = payments.StringValue(card.Brand)
			m["card_last4"] = payments.StringValue(card.Last4)
			m["card_exp_month"] = payments.IntValue(card.ExpMonth)
			m["card_exp_year"] = payments.IntValue(card.ExpYear)
		}

		tf = append(tf, m)
	}
	return tf
}
