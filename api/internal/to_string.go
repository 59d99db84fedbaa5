package internal

import (
	"encoding/json"
	"fmt"
)

// ToString renders a model as JSON for log lines. Falling back to %#v would print every field, including
// card data held by request parameters, so only the type name is used when marshalling fails.
func ToString(o interface{}) string {
	output, err := json.Marshal(o)
	if err != nil {
		return fmt.Sprintf("%T{<unprintable: %s>}", o, err)
	}
	return string(output)
}
