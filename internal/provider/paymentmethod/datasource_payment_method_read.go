package paymentmethod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/paymentsio/terraform-provider-payments/api/ids"
	"github.com/paymentsio/terraform-provider-payments/api/payments"
	"github.com/paymentsio/terraform-provider-payments/api/service/payment_methods"
)

type filter func(method *payment_methods.PaymentMethod) bool

// Read refreshes the Terraform state with the latest data.
func (d *paymentMethodDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	if d.client == nil {
		resp.Diagnostics.AddError(
			"Provider Not Configured",
			"The provider client is not configured. Please report this issue to the provider developers.",
		)
		return
	}

	var state PaymentMethodDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	var method *payment_methods.PaymentMethod
	if !state.ID.IsNull() && state.ID.ValueString() != "" {
		method = d.readByID(ctx, state.ID.ValueString(), resp)
	} else {
		method = d.search(ctx, state, resp)
	}
	if resp.Diagnostics.HasError() {
		return
	}

	state.ID = types.StringValue(payments.StringValue(method.ID))
	state.Customer = types.StringValue(payments.StringValue(method.Customer))
	state.Type = types.StringValue(payments.StringValue(method.Type))

	var card payment_methods.Card
	if method.Card != nil {
		card = *method.Card
	}
	state.CardBrand = types.StringValue(payments.StringValue(card.Brand))
	state.LastFourNumbers = types.StringValue(payments.StringValue(card.Last4))
	state.ExpMonth = types.Int64Value(int64(payments.IntValue(card.ExpMonth)))
	state.ExpYear = types.Int64Value(int64(payments.IntValue(card.ExpYear)))

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

func (d *paymentMethodDataSource) readByID(ctx context.Context, id string, resp *datasource.ReadResponse) *payment_methods.PaymentMethod {
	tflog.Debug(ctx, "Reading payment method", map[string]any{"id": id})

	method, err := d.client.Client.PaymentMethod.Get(ctx, ids.PaymentMethodID(id))
	if err != nil {
		var notFound *payment_methods.NotFound
		if errors.As(err, &notFound) {
			resp.Diagnostics.AddError(
				"Payment Method Not Found",
				fmt.Sprintf("No payment method exists with ID %s.", id),
			)
			return nil
		}
		resp.Diagnostics.AddError(
			"Unable to Read Payment Method",
			fmt.Sprintf("An error occurred while reading payment method %s: %s", id, err.Error()),
		)
		return nil
	}

	return method
}

func (d *paymentMethodDataSource) search(ctx context.Context, state PaymentMethodDataSourceModel, resp *datasource.ReadResponse) *payment_methods.PaymentMethod {
	customer := state.Customer.ValueString()
	tflog.Debug(ctx, "Searching payment methods", map[string]any{"customer": customer})

	methods, err := d.client.Client.PaymentMethod.List(ctx, payment_methods.ListPaymentMethods{
		Customer: payments.String(customer),
		Type:     payments.String(payment_methods.TypeCard),
	})
	if err != nil {
		resp.Diagnostics.AddError(
			"Unable to Read Payment Methods",
			fmt.Sprintf("An error occurred while reading payment methods: %s", err.Error()),
		)
		return nil
	}

	methods = filterPaymentMethods(methods, buildFilters(state, time.Now()))

	if len(methods) == 0 {
		resp.Diagnostics.AddError(
			"No Payment Methods Found",
			"Your query returned no results. Please change your search criteria and try again.",
		)
		return nil
	}

	if len(methods) > 1 {
		resp.Diagnostics.AddError(
			"Multiple Payment Methods Found",
			"Your query returned more than one result. Please try a more specific search criteria and try again.",
		)
		return nil
	}

	return methods[0]
}

func buildFilters(state PaymentMethodDataSourceModel, now time.Time) []filter {
	var filters []filter

	// exclude_expired defaults to true
	if state.ExcludeExpired.IsNull() || state.ExcludeExpired.ValueBool() {
		filters = append(filters, func(method *payment_methods.PaymentMethod) bool {
			return !expired(method.Card, now)
		})
	}

	if brand := state.CardBrand.ValueString(); brand != "" {
		filters = append(filters, func(method *payment_methods.PaymentMethod) bool {
			return method.Card != nil && payments.StringValue(method.Card.Brand) == brand
		})
	}

	if lastFour := state.LastFourNumbers.ValueString(); lastFour != "" {
		filters = append(filters, func(method *payment_methods.PaymentMethod) bool {
			return method.Card != nil && payments.StringValue(method.Card.Last4) == lastFour
		})
	}

	return filters
}

// expired reports whether the card expired before the month of now. A card is valid until the end of its
// expiry month.
func expired(card *payment_methods.Card, now time.Time) bool {
	if card == nil {
		return false
	}

	year := payments.IntValue(card.ExpYear)
	if year != now.Year() {
		return year < now.Year()
	}

	return payments.IntValue(card.ExpMonth) < int(now.Month())
}

func filterPaymentMethods(methods []*payment_methods.PaymentMethod, filters []filter) []*payment_methods.PaymentMethod {
	var filtered []*payment_methods.PaymentMethod
	for _, method := range methods {
		if method == nil {
			continue
		}
		if matches(method, filters) {
			filtered = append(filtered, method)
		}
	}
	return filtered
}

func matches(method *payment_methods.PaymentMethod, filters []filter) bool {
	for _, f := range filters {
		if !f(method) {
			return false
		}
	}
	return true
}
