// Package ids holds the identifier types used in request paths and parameters. Identifiers are opaque
// strings issued by the API (e.g. `pm_1Nv0...`, `cus_Oq2...`).
package ids

type PaymentMethodID string

func (id PaymentMethodID) String() string {
	return string(id)
}

type CustomerID string

func (id CustomerID) String() string {
	return string(id)
}
