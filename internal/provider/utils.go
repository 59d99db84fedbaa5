package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-cty/cty"
	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"

	"github.com/paymentsio/terraform-provider-payments/api/payments"
	"github.com/paymentsio/terraform-provider-payments/api/service/payment_methods"
)

func validateDiagFunc(validateFunc func(interface{}, string) ([]string, []error)) schema.SchemaValidateDiagFunc {
	return func(i interface{}, path cty.Path) diag.Diagnostics {
		warnings, errs := validateFunc(i, fmt.Sprintf("%+v", path))
		var diags diag.Diagnostics
		for _, warning := range warnings {
			diags = append(diags, diag.Diagnostic{
				Severity: diag.Warning,
				Summary:  warning,
			})
		}
		for _, err := range errs {
			diags = append(diags, diag.Diagnostic{
				Severity: diag.Error,
				Summary:  err.Error(),
			})
		}
		return diags
	}
}

// validateMetadataKeys rejects keys that would not survive being encoded as `metadata[key]`.
func validateMetadataKeys(i interface{}, path cty.Path) diag.Diagnostics {
	m, ok := i.(map[string]interface{})
	if !ok {
		return diag.Errorf("expected metadata to be a map, got %T", i)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var diags diag.Diagnostics
	for _, k := range keys {
		var detail string
		switch {
		case k == "":
			detail = "metadata keys must not be empty"
		case strings.ContainsAny(k, "[]"):
			detail = fmt.Sprintf("metadata key %q must not contain `[` or `]`", k)
		default:
			continue
		}
		diags = append(diags, diag.Diagnostic{
			Severity:      diag.Error,
			Summary:       "Invalid metadata key",
			Detail:        detail,
			AttributePath: append(path.Copy(), cty.IndexStep{Key: cty.StringVal(k)}),
		})
	}
	return diags
}

func interfaceToStringMap(m map[string]interface{}) map[string]string {
	ret := make(map[string]string, len(m))
	for k, v := range m {
		ret[k] = v.(string)
	}
	return ret
}

// metadataChanges returns the new metadata plus an empty value for every key that was removed, which is how
// the API is told to unset a key.
func metadataChanges(before, after map[string]interface{}) map[string]string {
	ret := interfaceToStringMap(after)
	for k := range before {
		if _, ok := after[k]; !ok {
			ret[k] = ""
		}
	}
	return ret
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return payments.String(s)
}

func buildBillingDetails(list []interface{}) *payment_methods.BillingDetails {
	if len(list) == 0 || list[0] == nil {
		return nil
	}
	m := list[0].(map[string]interface{})

	details := &payment_methods.BillingDetails{
		Name:  optionalString(m["name"].(string)),
		Email: optionalString(m["email"].(string)),
		Phone: optionalString(m["phone"].(string)),
	}

	if addresses := m["address"].([]interface{}); len(addresses) > 0 && addresses[0] != nil {
		a := addresses[0].(map[string]interface{})
		details.Address = &payment_methods.Address{
			Line1:      optionalString(a["line1"].(string)),
			Line2:      optionalString(a["line2"].(string)),
			City:       optionalString(a["city"].(string)),
			State:      optionalString(a["state"].(string)),
			PostalCode: optionalString(a["postal_code"].(string)),
			Country:    optionalString(a["country"].(string)),
		}
	}

	return details
}

// billingDetailsChanges returns the new billing details with an empty value for every field that was set before
// and is no longer, so the API clears it rather than keeping the old value.
func billingDetailsChanges(before, after []interface{}) *payment_methods.BillingDetails {
	old := buildBillingDetails(before)
	details := buildBillingDetails(after)
	if old == nil {
		return details
	}
	if details == nil {
		details = &payment_methods.BillingDetails{}
	}

	details.Name = unsetRemoved(old.Name, details.Name)
	details.Email = unsetRemoved(old.Email, details.Email)
	details.Phone = unsetRemoved(old.Phone, details.Phone)

	if a := old.Address; a != nil {
		if details.Address == nil {
			details.Address = &payment_methods.Address{}
		}
		details.Address.Line1 = unsetRemoved(a.Line1, details.Address.Line1)
		details.Address.Line2 = unsetRemoved(a.Line2, details.Address.Line2)
		details.Address.City = unsetRemoved(a.City, details.Address.City)
		details.Address.State = unsetRemoved(a.State, details.Address.State)
		details.Address.PostalCode = unsetRemoved(a.PostalCode, details.Address.PostalCode)
		details.Address.Country = unsetRemoved(a.Country, details.Address.Country)
	}

	return details
}

func unsetRemoved(before, after *string) *string {
	if before != nil && after == nil {
		return payments.String("")
	}
	return after
}

func emptyAddress(a *payment_methods.Address) bool {
	return a == nil || (a.Line1 == nil && a.Line2 == nil && a.City == nil && a.State == nil && a.PostalCode == nil && a.Country == nil)
}

func flattenBillingDetails(details *payment_methods.BillingDetails) []map[string]interface{} {
	if details == nil || (details.Name == nil && details.Email == nil && details.Phone == nil && emptyAddress(details.Address)) {
		return nil
	}

	tf := map[string]interface{}{
		"name":  payments.StringValue(details.Name),
		"email": payments.StringValue(details.Email),
		"phone": payments.StringValue(details.Phone),
	}

	if a := details.Address; !emptyAddress(a) {
		tf["address"] = []map[string]interface{}{
			{
				"line1":       payments.StringValue(a.Line1),
				"line2":       payments.StringValue(a.Line2),
				"city":        payments.StringValue(a.City),
				"state":       payments.StringValue(a.State),
				"postal_code": payments.StringValue(a.PostalCode),
				"country":     payments.StringValue(a.Country),
			},
		}
	}

	return []map[string]interface{}{tf}
}

type perIdLock struct {
	lock  sync.Mutex
	store map[string]*sync.Mutex
}

func newPerIdLock() *perIdLock {
	return &perIdLock{
		store: map[string]*sync.Mutex{},
	}
}

func (m *perIdLock) Lock(id string) {
	m.get(id).Lock()
}

func (m *perIdLock) Unlock(id string) {
	m.get(id).Unlock()
}

func (m *perIdLock) get(id string) *sync.Mutex {
	m.lock.Lock()
	defer m.lock.Unlock()

	if v, ok := m.store[id]; ok {
		return v
	}

	mutex := &sync.Mutex{}
	m.store[id] = mutex
	return mutex
}
