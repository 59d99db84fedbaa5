package internal

import (
	"net/url"
	"sort"

	"github.com/google/go-querystring/query"
)

// EncodeForm turns a parameter struct into form values using its `url` tags. Nested structs are scoped with
// brackets, e.g. `billing_details[address][city]`.
func EncodeForm(params interface{}) (url.Values, error) {
	return query.Values(params)
}

// AddMap adds each entry of m as `scope[key]=value`. Keys are added in sorted order so repeated encodes of the
// same map produce the same form.
func AddMap(values url.Values, scope string, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		values.Set(scope+"["+k+"]", m[k])
	}
}

// Flatten merges several form value sets into a single set with no nesting between them. A key present in more
// than one set takes the values of the last set it appears in.
func Flatten(sets ...url.Values) url.Values {
	merged := url.Values{}
	for _, set := range sets {
		for k, vs := range set {
			merged[k] = append([]string(nil), vs...)
		}
	}
	return merged
}
