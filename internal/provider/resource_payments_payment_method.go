package provider

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/validation"

	"github.com/paymentsio/terraform-provider-payments/api/ids"
	"github.com/paymentsio/terraform-provider-payments/api/payments"
	"github.com/paymentsio/terraform-provider-payments/api/service/payment_methods"
	"github.com/paymentsio/terraform-provider-payments/internal/provider/client"
)

// Attach, detach and update of the same payment method must not interleave.
var paymentMethodLock = newPerIdLock()

func resourcePaymentsPaymentMethod() *schema.Resource {
	return &schema.Resource{
		Description:   "Creates a card payment method and optionally attaches it to a customer.",
		CreateContext: resourcePaymentsPaymentMethodCreate,
		ReadContext:   resourcePaymentsPaymentMethodRead,
		UpdateContext: resourcePaymentsPaymentMethodUpdate,
		DeleteContext: resourcePaymentsPaymentMethodDelete,

		Importer: &schema.ResourceImporter{
			StateContext: schema.ImportStatePassthroughContext,
		},

		Schema: map[string]*schema.Schema{
			"type": {
				Description: "The type of the payment method, always `card`",
				Type:        schema.TypeString,
				Computed:    true,
			},
			"customer": {
				Description: "The ID of the customer the payment method is attached to",
				Type:        schema.TypeString,
				Optional:    true,
			},
			"card_number": {
				Description: "The card number. It is never read back from the API",
				Type:        schema.TypeString,
				Required:    true,
				Sensitive:   true,
			},
			"card_cvc": {
				Description:      "The card security code. It is never read back from the API",
				Type:             schema.TypeInt,
				Required:         true,
				Sensitive:        true,
				ValidateDiagFunc: validation.ToDiagFunc(validation.IntBetween(0, math.MaxUint16)),
			},
			"card_exp_month": {
				Description:      "The expiry month of the card",
				Type:             schema.TypeInt,
				Required:         true,
				ValidateDiagFunc: validation.ToDiagFunc(validation.IntBetween(0, math.MaxUint8)),
			},
			"card_exp_year": {
				Description:      "The expiry year of the card",
				Type:             schema.TypeInt,
				Required:         true,
				ValidateDiagFunc: validation.ToDiagFunc(validation.IntBetween(0, math.MaxUint16)),
			},
			"billing_details": {
				Description: "Billing information associated with the payment method",
				Type:        schema.TypeList,
				Optional:    true,
				MaxItems:    1,
				Elem: &schema.Resource{
					Schema: map[string]*schema.Schema{
						"name": {
							Type:     schema.TypeString,
							Optional: true,
						},
						"email": {
							Type:     schema.TypeString,
							Optional: true,
						},
						"phone": {
							Type:     schema.TypeString,
							Optional: true,
						},
						"address": {
							Type:     schema.TypeList,
							Optional: true,
							MaxItems: 1,
							Elem: &schema.Resource{
								Schema: map[string]*schema.Schema{
									"line1": {
										Type:     schema.TypeString,
										Optional: true,
									},
									"line2": {
										Type:     schema.TypeString,
										Optional: true,
									},
									"city": {
										Type:     schema.TypeString,
										Optional: true,
									},
									"state": {
										Type:     schema.TypeString,
										Optional: true,
									},
									"postal_code": {
										Type:     schema.TypeString,
										Optional: true,
									},
									"country": {
										Description: "Two-letter country code",
										Type:        schema.TypeString,
										Optional:    true,
									},
								},
							},
						},
					},
				},
			},
			"metadata": {
				Description:      "Key-value pairs stored against the payment method",
				Type:             schema.TypeMap,
				Optional:         true,
				Elem:             &schema.Schema{Type: schema.TypeString},
				ValidateDiagFunc: validateMetadataKeys,
			},
			"card_brand": {
				Description: "The brand of the card, such as `visa`",
				Type:        schema.TypeString,
				Computed:    true,
			},
			"card_last4": {
				Description: "The last four digits of the card",
				Type:        schema.TypeString,
				Computed:    true,
			},
			"card_fingerprint": {
				Description: "Uniquely identifies the card number across payment methods",
				Type:        schema.TypeString,
				Computed:    true,
			},
			"card_funding": {
				Type:     schema.TypeString,
				Computed: true,
			},
			"card_country": {
				Type:     schema.TypeString,
				Computed: true,
			},
			"created": {
				Description: "When the payment method was created, in seconds since the Unix epoch",
				Type:        schema.TypeInt,
				Computed:    true,
			},
			"livemode": {
				Type:     schema.TypeBool,
				Computed: true,
			},
		},
	}
}

func buildPaymentCard(d *schema.ResourceData) payment_methods.PaymentCard {
	return payment_methods.PaymentCard{
		ExpYear:  uint16(d.Get("card_exp_year").(int)),
		ExpMonth: uint8(d.Get("card_exp_month").(int)),
		Number:   d.Get("card_number").(string),
		CVC:      uint16(d.Get("card_cvc").(int)),
	}
}

func resourcePaymentsPaymentMethodCreate(ctx context.Context, d *schema.ResourceData, meta interface{}) diag.Diagnostics {
	api := meta.(*client.ApiClient)

	params := payment_methods.CreatePaymentMethodWithCard{
		CreatePaymentMethod: payment_methods.CreatePaymentMethod{
			BillingDetails: buildBillingDetails(d.Get("billing_details").([]interface{})),
			Metadata:       interfaceToStringMap(d.Get("metadata").(map[string]interface{})),
		},
		Card: buildPaymentCard(d),
	}

	method, err := api.Client.PaymentMethod.CreateWithCard(ctx, params)
	if err != nil {
		return diag.FromErr(err)
	}

	id := payments.StringValue(method.ID)
	d.SetId(id)

	if customer := d.Get("customer").(string); customer != "" {
		log.Printf("[DEBUG] Attaching payment method %s to customer %s", id, customer)

		_, err := api.Client.PaymentMethod.Attach(ctx, ids.PaymentMethodID(id), payment_methods.AttachPaymentMethod{
			Customer: ids.CustomerID(customer),
		})
		if err != nil {
			return diag.FromErr(err)
		}
	}

	return resourcePaymentsPaymentMethodRead(ctx, d, meta)
}

func resourcePaymentsPaymentMethodRead(ctx context.Context, d *schema.ResourceData, meta interface{}) diag.Diagnostics {
	api := meta.(*client.ApiClient)

	var diags diag.Diagnostics

	method, err := api.Client.PaymentMethod.Get(ctx, ids.PaymentMethodID(d.Id()))
	if err != nil {
		var notFound *payment_methods.NotFound
		if errors.As(err, &notFound) {
			log.Printf("[WARN] Payment method %s not found, removing from state", d.Id())
			d.SetId("")
			return diags
		}
		return diag.FromErr(err)
	}

	if err := d.Set("type", payments.StringValue(method.Type)); err != nil {
		return diag.FromErr(err)
	}
	if err := d.Set("customer", payments.StringValue(method.Customer)); err != nil {
		return diag.FromErr(err)
	}
	if err := d.Set("billing_details", flattenBillingDetails(method.BillingDetails)); err != nil {
		return diag.FromErr(err)
	}
	if err := d.Set("metadata", method.Metadata); err != nil {
		return diag.FromErr(err)
	}
	if err := d.Set("created", int(payments.Int64Value(method.Created))); err != nil {
		return diag.FromErr(err)
	}
	if err := d.Set("livemode", payments.BoolValue(method.Livemode)); err != nil {
		return diag.FromErr(err)
	}

	if card := method.Card; card != nil {
		if err := d.Set("card_exp_month", payments.IntValue(card.ExpMonth)); err != nil {
			return diag.FromErr(err)
		}
		if err := d.Set("card_exp_year", payments.IntValue(card.ExpYear)); err != nil {
			return diag.FromErr(err)
		}
		if err := d.Set("card_brand", payments.StringValue(card.Brand)); err != nil {
			return diag.FromErr(err)
		}
		if err := d.Set("card_last4", payments.StringValue(card.Last4)); err != nil {
			return diag.FromErr(err)
		}
		if err := d.Set("card_fingerprint", payments.StringValue(card.Fingerprint)); err != nil {
			return diag.FromErr(err)
		}
		if err := d.Set("card_funding", payments.StringValue(card.Funding)); err != nil {
			return diag.FromErr(err)
		}
		if err := d.Set("card_country", payments.StringValue(card.Country)); err != nil {
			return diag.FromErr(err)
		}
	}

	return diags
}

func resourcePaymentsPaymentMethodUpdate(ctx context.Context, d *schema.ResourceData, meta interface{}) diag.Diagnostics {
	api := meta.(*client.ApiClient)
	id := ids.PaymentMethodID(d.Id())

	paymentMethodLock.Lock(d.Id())
	defer paymentMethodLock.Unlock(d.Id())

	if d.HasChanges("card_number", "card_cvc", "card_exp_month", "card_exp_year", "billing_details", "metadata") {
		oldMetadata, newMetadata := d.GetChange("metadata")
		oldBilling, newBilling := d.GetChange("billing_details")

		params := payment_methods.UpdatePaymentMethodWithCard{
			UpdatePaymentMethod: payment_methods.UpdatePaymentMethod{
				BillingDetails: billingDetailsChanges(oldBilling.([]interface{}), newBilling.([]interface{})),
				Metadata:       metadataChanges(oldMetadata.(map[string]interface{}), newMetadata.(map[string]interface{})),
			},
			Card: buildPaymentCard(d),
		}

		if _, err := api.Client.PaymentMethod.UpdateWithCard(ctx, id, params); err != nil {
			return diag.FromErr(err)
		}
	}

	if d.HasChange("customer") {
		oldCustomer, newCustomer := d.GetChange("customer")

		if oldCustomer.(string) != "" {
			log.Printf("[DEBUG] Detaching payment method %s from customer %s", id, oldCustomer)
			if _, err := api.Client.PaymentMethod.Detach(ctx, id); err != nil {
				return diag.FromErr(err)
			}
		}

		if newCustomer.(string) != "" {
			log.Printf("[DEBUG] Attaching payment method %s to customer %s", id, newCustomer)
			_, err := api.Client.PaymentMethod.Attach(ctx, id, payment_methods.AttachPaymentMethod{
				Customer: ids.CustomerID(newCustomer.(string)),
			})
			if err != nil {
				return diag.FromErr(err)
			}
		}
	}

	return resourcePaymentsPaymentMethodRead(ctx, d, meta)
}

func resourcePaymentsPaymentMethodDelete(ctx context.Context, d *schema.ResourceData, meta interface{}) diag.Diagnostics {
	api := meta.(*client.ApiClient)

	var diags diag.Diagnostics

	paymentMethodLock.Lock(d.Id())
	defer paymentMethodLock.Unlock(d.Id())

	// The API has no way to delete a payment method, detaching it is the closest thing.
	if customer := d.Get("customer").(string); customer != "" {
		log.Printf("[DEBUG] Detaching payment method %s from customer %s", d.Id(), customer)
		if _, err := api.Client.PaymentMethod.Detach(ctx, ids.PaymentMethodID(d.Id())); err != nil {
			return diag.FromErr(err)
		}
	}

	d.SetId("")

	return diags
}
