package payment_methods

import (
	"fmt"
	"net/url"

	"github.com/paymentsio/terraform-provider-payments/api/ids"
	"github.com/paymentsio/terraform-provider-payments/api/internal"
)

// AttachPaymentMethod holds the parameters for `API.Attach`.
type AttachPaymentMethod struct {
	Customer ids.CustomerID `url:"customer"`
}

func (o AttachPaymentMethod) Form() (url.Values, error) {
	return internal.EncodeForm(o)
}

func (o AttachPaymentMethod) String() string {
	return internal.ToString(o)
}

// PaymentCard is raw card data. It is only ever encoded into a single outgoing request and must not be logged,
// so String never includes the number or the CVC.
type PaymentCard struct {
	ExpYear  uint16 `url:"exp_year"`
	ExpMonth uint8  `url:"exp_month"`
	Number   string `url:"number"`
	CVC      uint16 `url:"cvc"`
}

func (o PaymentCard) Form() (url.Values, error) {
	return internal.EncodeForm(o)
}

func (o PaymentCard) String() string {
	last4 := o.Number
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return fmt.Sprintf("PaymentCard{exp: %02d/%d, last4: %s}", o.ExpMonth, o.ExpYear, last4)
}

func (o PaymentCard) GoString() string {
	return o.String()
}

// CreatePaymentMethod is the generic set of parameters for creating a payment method of any type.
type CreatePaymentMethod struct {
	Type           *string           `url:"type,omitempty"`
	Customer       *string           `url:"customer,omitempty"`
	PaymentMethod  *string           `url:"payment_method,omitempty"`
	BillingDetails *BillingDetails   `url:"billing_details,omitempty"`
	Metadata       map[string]string `url:"-"`
	Expand         []string          `url:"expand,brackets,omitempty"`
}

func (o CreatePaymentMethod) Form() (url.Values, error) {
	values, err := internal.EncodeForm(o)
	if err != nil {
		return nil, err
	}
	internal.AddMap(values, "metadata", o.Metadata)
	return values, nil
}

func (o CreatePaymentMethod) String() string {
	return internal.ToString(o)
}

// UpdatePaymentMethod is the generic set of parameters for updating a payment method of any type.
type UpdatePaymentMethod struct {
	BillingDetails *BillingDetails   `url:"billing_details,omitempty"`
	Metadata       map[string]string `url:"-"`
	Expand         []string          `url:"expand,brackets,omitempty"`
}

func (o UpdatePaymentMethod) Form() (url.Values, error) {
	values, err := internal.EncodeForm(o)
	if err != nil {
		return nil, err
	}
	internal.AddMap(values, "metadata", o.Metadata)
	return values, nil
}

func (o UpdatePaymentMethod) String() string {
	return internal.ToString(o)
}

// CreatePaymentMethodWithCard is encoded as a single flat form: the card's keys sit alongside the generic keys
// rather than under a `card` scope.
type CreatePaymentMethodWithCard struct {
	CreatePaymentMethod CreatePaymentMethod
	Card                PaymentCard
}

func (o CreatePaymentMethodWithCard) Form() (url.Values, error) {
	generic, err := o.CreatePaymentMethod.Form()
	if err != nil {
		return nil, err
	}
	card, err := o.Card.Form()
	if err != nil {
		return nil, err
	}
	return internal.Flatten(generic, card), nil
}

func (o CreatePaymentMethodWithCard) String() string {
	return fmt.Sprintf("%s %s", o.CreatePaymentMethod, o.Card)
}

// UpdatePaymentMethodWithCard is encoded the same way as CreatePaymentMethodWithCard.
type UpdatePaymentMethodWithCard struct {
	UpdatePaymentMethod UpdatePaymentMethod
	Card                PaymentCard
}

func (o UpdatePaymentMethodWithCard) Form() (url.Values, error) {
	generic, err := o.UpdatePaymentMethod.Form()
	if err != nil {
		return nil, err
	}
	card, err := o.Card.Form()
	if err != nil {
		return nil, err
	}
	return internal.Flatten(generic, card), nil
}

func (o UpdatePaymentMethodWithCard) String() string {
	return fmt.Sprintf("%s %s", o.UpdatePaymentMethod, o.Card)
}

// ListPaymentMethods filters the methods returned by `API.List`. StartingAfter is managed by List while
// paging and only needs setting to resume from a known method.
type ListPaymentMethods struct {
	Customer      *string `url:"customer,omitempty"`
	Type          *string `url:"type,omitempty"`
	Limit         *int    `url:"limit,omitempty"`
	StartingAfter *string `url:"starting_after,omitempty"`
}

func (o ListPaymentMethods) Form() (url.Values, error) {
	return internal.EncodeForm(o)
}

func (o ListPaymentMethods) String() string {
	return internal.ToString(o)
}
