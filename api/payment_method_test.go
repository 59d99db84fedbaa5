package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paymentsio/terraform-provider-payments/api/payments"
	"github.com/paymentsio/terraform-provider-payments/api/service/payment_methods"
)

const paymentMethodBody = `{
  "id": "pm_1NvkB2LkdIwHu7ix",
  "object": "payment_method",
  "type": "card",
  "created": 1695891234,
  "customer": "cus_OjAq9Gd8Rq3dZb",
  "livemode": false,
  "billing_details": {"name": "Jenny Rosen"},
  "card": {"brand": "visa", "last4": "4242", "exp_month": 8, "exp_year": 2031}
}`

func expectedPaymentMethod() *payment_methods.PaymentMethod {
	return &payment_methods.PaymentMethod{
		ID:             payments.String("pm_1NvkB2LkdIwHu7ix"),
		Object:         payments.String("payment_method"),
		Type:           payments.String("card"),
		Created:        payments.Int64(1695891234),
		Customer:       payments.String("cus_OjAq9Gd8Rq3dZb"),
		Livemode:       payments.Bool(false),
		BillingDetails: &payment_methods.BillingDetails{Name: payments.String("Jenny Rosen")},
		Card: &payment_methods.Card{
			Brand:    payments.String("visa"),
			Last4:    payments.String("4242"),
			ExpMonth: payments.Int(8),
			ExpYear:  payments.Int(2031),
		},
	}
}

func testCard() payment_methods.PaymentCard {
	return payment_methods.PaymentCard{ExpYear: 2031, ExpMonth: 8, Number: "4242424242424242", CVC: 314}
}

func TestPaymentMethod_Attach(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey,
		postRequest(t, "/payment_methods/pm_1NvkB2LkdIwHu7ix/attach", url.Values{"customer": {"cus_OjAq9Gd8Rq3dZb"}}, paymentMethodBody),
	))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey)
	require.NoError(t, err)

	actual, err := subject.PaymentMethod.Attach(context.TODO(), "pm_1NvkB2LkdIwHu7ix", payment_methods.AttachPaymentMethod{
		Customer: "cus_OjAq9Gd8Rq3dZb",
	})
	require.NoError(t, err)

	assert.Equal(t, expectedPaymentMethod(), actual)
}

func TestPaymentMethod_Detach(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey,
		postRequestWithNoBody(t, "/payment_methods/pm_1NvkB2LkdIwHu7ix/detach", paymentMethodBody),
	))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey)
	require.NoError(t, err)

	actual, err := subject.PaymentMethod.Detach(context.TODO(), "pm_1NvkB2LkdIwHu7ix")
	require.NoError(t, err)

	assert.Equal(t, expectedPaymentMethod(), actual)
}

func TestPaymentMethod_CreateWithCard(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey,
		postRequest(t, "/payment_methods", url.Values{
			"type":                  {"card"},
			"billing_details[name]": {"Jenny Rosen"},
			"exp_year":              {"2031"},
			"exp_month":             {"8"},
			"number":                {"4242424242424242"},
			"cvc":                   {"314"},
		}, paymentMethodBody),
	))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey)
	require.NoError(t, err)

	actual, err := subject.PaymentMethod.CreateWithCard(context.TODO(), payment_methods.CreatePaymentMethodWithCard{
		CreatePaymentMethod: payment_methods.CreatePaymentMethod{
			Type:           payments.String(payment_methods.TypeSepaDebit),
			BillingDetails: &payment_methods.BillingDetails{Name: payments.String("Jenny Rosen")},
		},
		Card: testCard(),
	})
	require.NoError(t, err)

	assert.Equal(t, expectedPaymentMethod(), actual)
}

func TestPaymentMethod_UpdateWithCard(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey,
		postRequest(t, "/payment_methods/pm_1NvkB2LkdIwHu7ix", url.Values{
			"metadata[order_id]": {"6735"},
			"exp_year":           {"2031"},
			"exp_month":          {"8"},
			"number":             {"4242424242424242"},
			"cvc":                {"314"},
		}, paymentMethodBody),
	))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey)
	require.NoError(t, err)

	actual, err := subject.PaymentMethod.UpdateWithCard(context.TODO(), "pm_1NvkB2LkdIwHu7ix", payment_methods.UpdatePaymentMethodWithCard{
		UpdatePaymentMethod: payment_methods.UpdatePaymentMethod{Metadata: map[string]string{"order_id": "6735"}},
		Card:                testCard(),
	})
	require.NoError(t, err)

	assert.Equal(t, expectedPaymentMethod(), actual)
}

func TestPaymentMethod_Get(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey,
		getRequest(t, "/payment_methods/pm_1NvkB2LkdIwHu7ix", paymentMethodBody),
	))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey)
	require.NoError(t, err)

	actual, err := subject.PaymentMethod.Get(context.TODO(), "pm_1NvkB2LkdIwHu7ix")
	require.NoError(t, err)

	assert.Equal(t, expectedPaymentMethod(), actual)
}

func TestPaymentMethod_GetNotFound(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such PaymentMethod: 'pm_missing'","param":"payment_method"}}`))
	}))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey)
	require.NoError(t, err)

	_, err = subject.PaymentMethod.Get(context.TODO(), "pm_missing")

	var notFound *payment_methods.NotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestPaymentMethod_ApiErrorReachesCaller(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey,
		postRequestWithStatus(t, "/payment_methods/pm_1/attach", http.StatusBadRequest,
			`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such customer: 'cus_x'","param":"customer"}}`),
	))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey)
	require.NoError(t, err)

	actual, err := subject.PaymentMethod.Attach(context.TODO(), "pm_1", payment_methods.AttachPaymentMethod{Customer: "cus_x"})
	assert.Nil(t, actual)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "attach payment method pm_1", httpErr.Name)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "customer", payments.StringValue(apiErr.Param))
}

func TestPaymentMethod_WrongSecretKey(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey))
	defer s.Close()

	subject, err := clientFromTestServer(s, "sk_test_wrong")
	require.NoError(t, err)

	_, err = subject.PaymentMethod.Detach(context.TODO(), "pm_1")

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestPaymentMethod_List(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_methods", r.URL.Path)
		assert.Equal(t, "cus_OjAq9Gd8Rq3dZb", r.URL.Query().Get("customer"))
		if r.URL.Query().Get("starting_after") == "" {
			_, _ = w.Write([]byte(`{"object":"list","has_more":true,"data":[{"id":"pm_1"}]}`))
			return
		}
		assert.Equal(t, "pm_1", r.URL.Query().Get("starting_after"))
		_, _ = w.Write([]byte(`{"object":"list","has_more":false,"data":[{"id":"pm_2"}]}`))
	}))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey, Logger(&recordingLogger{}))
	require.NoError(t, err)

	actual, err := subject.PaymentMethod.List(context.TODO(), payment_methods.ListPaymentMethods{
		Customer: payments.String("cus_OjAq9Gd8Rq3dZb"),
	})
	require.NoError(t, err)

	require.Len(t, actual, 2)
	assert.Equal(t, "pm_1", payments.StringValue(actual[0].ID))
	assert.Equal(t, "pm_2", payments.StringValue(actual[1].ID))
}

func TestPaymentMethod_LoggedRequestsHideCardData(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey,
		postRequest(t, "/payment_methods", url.Values{
			"type":      {"card"},
			"exp_year":  {"2031"},
			"exp_month": {"8"},
			"number":    {"4242424242424242"},
			"cvc":       {"314"},
		}, paymentMethodBody),
	))
	defer s.Close()

	logger := &recordingLogger{}
	subject, err := clientFromTestServer(s, testSecretKey, LogRequests(true), Logger(logger))
	require.NoError(t, err)

	_, err = subject.PaymentMethod.CreateWithCard(context.TODO(), payment_methods.CreatePaymentMethodWithCard{Card: testCard()})
	require.NoError(t, err)

	logged := logger.String()
	assert.Contains(t, logged, "---[ REQUEST ]---")
	assert.Contains(t, logged, "---[ RESPONSE ]---")
	assert.Contains(t, logged, "number=REDACTED")
	assert.NotContains(t, logged, "4242424242424242")
	assert.NotContains(t, logged, "cvc=314")
	assert.NotContains(t, logged, testSecretKey)
}

func TestPaymentMethod_RetriesServerErrors(t *testing.T) {
	attempts := 0
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(paymentMethodBody))
	}))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey, MaxNetworkRetries(1), Logger(&recordingLogger{}))
	require.NoError(t, err)

	actual, err := subject.PaymentMethod.Detach(context.TODO(), "pm_1NvkB2LkdIwHu7ix")
	require.NoError(t, err)

	assert.Equal(t, expectedPaymentMethod(), actual)
	assert.Equal(t, 2, attempts)
}

func TestPaymentMethod_Metrics(t *testing.T) {
	s := httptest.NewServer(testServer(testSecretKey,
		postRequestWithNoBody(t, "/payment_methods/pm_1/detach", paymentMethodBody),
		getRequest(t, "/payment_methods/pm_1", paymentMethodBody),
	))
	defer s.Close()

	registry := prometheus.NewRegistry()
	subject, err := clientFromTestServer(s, testSecretKey, Metrics(registry))
	require.NoError(t, err)

	_, err = subject.PaymentMethod.Detach(context.TODO(), "pm_1")
	require.NoError(t, err)
	_, err = subject.PaymentMethod.Get(context.TODO(), "pm_1")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(registry, "payments_api_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The same registry can't take a second set of collectors.
	_, err = clientFromTestServer(s, testSecretKey, Metrics(registry))
	assert.Error(t, err)
}

func TestPaymentMethod_IdentifierReachesServerUnchanged(t *testing.T) {
	var (
		gotPath        string
		gotEscapedPath string
	)
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotEscapedPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(paymentMethodBody))
	}))
	defer s.Close()

	subject, err := clientFromTestServer(s, testSecretKey)
	require.NoError(t, err)

	_, err = subject.PaymentMethod.Detach(context.TODO(), "pm a/b")
	require.NoError(t, err)

	assert.Equal(t, "/payment_methods/pm a/b/detach", gotPath)
	assert.Equal(t, "/payment_methods/pm%20a%2Fb/detach", gotEscapedPath)

	_, err = subject.PaymentMethod.Get(context.TODO(), "pm_100%")
	require.NoError(t, err)

	assert.Equal(t, "/payment_methods/pm_100%", gotPath)
	assert.Equal(t, "/payment_methods/pm_100%25", gotEscapedPath)
}
