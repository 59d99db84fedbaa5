package payment_methods

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/paymentsio/terraform-provider-payments/api/ids"
	"github.com/paymentsio/terraform-provider-payments/api/internal"
	"github.com/paymentsio/terraform-provider-payments/api/payments"
)

type Log interface {
	Printf(format string, args ...interface{})
}

type HttpClient interface {
	Get(ctx context.Context, name, path string, responseBody interface{}) error
	GetWithQuery(ctx context.Context, name, path string, query url.Values, responseBody interface{}) error
	Post(ctx context.Context, name, path string, responseBody interface{}) error
	PostForm(ctx context.Context, name, path string, form url.Values, responseBody interface{}) error
}

type API struct {
	client HttpClient
	logger Log
}

func NewAPI(client HttpClient, logger Log) *API {
	return &API{client: client, logger: logger}
}

// Attach will attach a payment method to a customer.
func (a *API) Attach(ctx context.Context, id ids.PaymentMethodID, params AttachPaymentMethod) (*PaymentMethod, error) {
	name := fmt.Sprintf("attach payment method %s", id)

	form, err := params.Form()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %s: %w", name, err)
	}

	var response PaymentMethod
	if err := a.client.PostForm(ctx, name, paymentMethodPath(id)+"/attach", form, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Detach will detach a payment method from the customer it is attached to.
func (a *API) Detach(ctx context.Context, id ids.PaymentMethodID) (*PaymentMethod, error) {
	var response PaymentMethod
	if err := a.client.Post(ctx, fmt.Sprintf("detach payment method %s", id), paymentMethodPath(id)+"/detach", &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// CreateWithCard will create a card payment method. Whatever `Type` the caller set is replaced with `card`;
// params is a copy, so the caller's value keeps its own setting.
func (a *API) CreateWithCard(ctx context.Context, params CreatePaymentMethodWithCard) (*PaymentMethod, error) {
	name := "create payment method"

	params.CreatePaymentMethod.Type = payments.String(TypeCard)

	form, err := params.Form()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %s: %w", name, err)
	}

	var response PaymentMethod
	if err := a.client.PostForm(ctx, name, "/payment_methods", form, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// UpdateWithCard will update an existing payment method along with its card details.
func (a *API) UpdateWithCard(ctx context.Context, id ids.PaymentMethodID, params UpdatePaymentMethodWithCard) (*PaymentMethod, error) {
	name := fmt.Sprintf("update payment method %s", id)

	form, err := params.Form()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %s: %w", name, err)
	}

	var response PaymentMethod
	if err := a.client.PostForm(ctx, name, paymentMethodPath(id), form, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Get will retrieve an existing payment method.
func (a *API) Get(ctx context.Context, id ids.PaymentMethodID) (*PaymentMethod, error) {
	var response PaymentMethod
	if err := a.client.Get(ctx, fmt.Sprintf("retrieve payment method %s", id), paymentMethodPath(id), &response); err != nil {
		return nil, wrap404Error(id, err)
	}

	return &response, nil
}

// List will return every payment method matching params, following `has_more` until the last page.
func (a *API) List(ctx context.Context, params ListPaymentMethods) ([]*PaymentMethod, error) {
	var methods []*PaymentMethod
	for {
		query, err := params.Form()
		if err != nil {
			return nil, fmt.Errorf("failed to encode request for list payment methods: %w", err)
		}

		var page listPaymentMethods
		if err := a.client.GetWithQuery(ctx, "list payment methods", "/payment_methods", query, &page); err != nil {
			return nil, err
		}

		methods = append(methods, page.Data...)

		if !page.HasMore || len(page.Data) == 0 {
			return methods, nil
		}

		last := page.Data[len(page.Data)-1]
		a.logger.Printf("Listing payment methods after %s", payments.StringValue(last.ID))
		params.StartingAfter = last.ID
	}
}

func paymentMethodPath(id ids.PaymentMethodID) string {
	return "/payment_methods/" + url.PathEscape(id.String())
}

func wrap404Error(id ids.PaymentMethodID, err error) error {
	var httpErr *internal.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return &NotFound{id: id}
	}
	return err
}
