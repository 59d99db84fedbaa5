package payment_methods

import (
	"fmt"

	"github.com/paymentsio/terraform-provider-payments/api/ids"
	"github.com/paymentsio/terraform-provider-payments/api/internal"
)

// PaymentMethod is a stored payment instrument as returned by the API.
type PaymentMethod struct {
	ID             *string           `json:"id,omitempty"`
	Object         *string           `json:"object,omitempty"`
	Type           *string           `json:"type,omitempty"`
	Created        *int64            `json:"created,omitempty"`
	Customer       *string           `json:"customer,omitempty"`
	Livemode       *bool             `json:"livemode,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	BillingDetails *BillingDetails   `json:"billing_details,omitempty"`
	Card           *Card             `json:"card,omitempty"`
}

func (o PaymentMethod) String() string {
	return internal.ToString(o)
}

// Card holds the non-sensitive card details the API reports back.
type Card struct {
	Brand       *string `json:"brand,omitempty"`
	Country     *string `json:"country,omitempty"`
	Funding     *string `json:"funding,omitempty"`
	Fingerprint *string `json:"fingerprint,omitempty"`
	Last4       *string `json:"last4,omitempty"`
	ExpMonth    *int    `json:"exp_month,omitempty"`
	ExpYear     *int    `json:"exp_year,omitempty"`
}

func (o Card) String() string {
	return internal.ToString(o)
}

type BillingDetails struct {
	Name    *string  `json:"name,omitempty" url:"name,omitempty"`
	Email   *string  `json:"email,omitempty" url:"email,omitempty"`
	Phone   *string  `json:"phone,omitempty" url:"phone,omitempty"`
	Address *Address `json:"address,omitempty" url:"address,omitempty"`
}

func (o BillingDetails) String() string {
	return internal.ToString(o)
}

type Address struct {
	Line1      *string `json:"line1,omitempty" url:"line1,omitempty"`
	Line2      *string `json:"line2,omitempty" url:"line2,omitempty"`
	City       *string `json:"city,omitempty" url:"city,omitempty"`
	State      *string `json:"state,omitempty" url:"state,omitempty"`
	PostalCode *string `json:"postal_code,omitempty" url:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty" url:"country,omitempty"`
}

func (o Address) String() string {
	return internal.ToString(o)
}

type listPaymentMethods struct {
	Object  *string          `json:"object,omitempty"`
	Data    []*PaymentMethod `json:"data"`
	HasMore bool             `json:"has_more"`
}

type NotFound struct {
	id ids.PaymentMethodID
}

func (f *NotFound) Error() string {
	return fmt.Sprintf("payment method %s not found", f.id)
}

const (
	// Card value of the `Type` field in `PaymentMethod` and `CreatePaymentMethod`
	TypeCard = "card"
	// SEPA Direct Debit value of the `Type` field
	TypeSepaDebit = "sepa_debit"
	// BECS Direct Debit value of the `Type` field
	TypeAuBecsDebit = "au_becs_debit"
	// Bacs Direct Debit value of the `Type` field
	TypeBacsDebit = "bacs_debit"
	// US bank account value of the `Type` field
	TypeUsBankAccount = "us_bank_account"
	// iDEAL value of the `Type` field
	TypeIdeal = "ideal"
	// FPX value of the `Type` field
	TypeFpx = "fpx"
	// Giropay value of the `Type` field
	TypeGiropay = "giropay"
)

func TypeValues() []string {
	return []string{
		TypeCard,
		TypeSepaDebit,
		TypeAuBecsDebit,
		TypeBacsDebit,
		TypeUsBankAccount,
		TypeIdeal,
		TypeFpx,
		TypeGiropay,
	}
}
