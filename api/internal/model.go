package internal

import (
	"fmt"

	"github.com/paymentsio/terraform-provider-payments/api/payments"
)

type errorResponse struct {
	Error *Error `json:"error,omitempty"`
}

// Error is the structured body the API returns alongside a non-2xx status.
type Error struct {
	Type        *string `json:"type,omitempty"`
	Code        *string `json:"code,omitempty"`
	DeclineCode *string `json:"decline_code,omitempty"`
	Message     *string `json:"message,omitempty"`
	Param       *string `json:"param,omitempty"`
	RequestLog  *string `json:"request_log_url,omitempty"`
}

func (o Error) String() string {
	return ToString(o)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", payments.StringValue(e.Type), payments.StringValue(e.Message))
	if e.Code != nil {
		msg += fmt.Sprintf(" (code %s)", *e.Code)
	}
	if e.Param != nil {
		msg += fmt.Sprintf(" [param %s]", *e.Param)
	}
	return msg
}

var _ error = &Error{}
