// Package envelope builds the uniform response wrapper returned by every gateway route.
package envelope

const (
	CodeSuccess = 0
	CodeFailure = -1

	TypeSuccess = "success"
	TypeError   = "error"

	MessageOK     = "ok"
	MessageFailed = "Request failed"
)

// Envelope is the {code, result, message, type} wrapper. Code 0 always pairs with
// type "success" and code -1 with type "error".
type Envelope struct {
	Code    int    `json:"code"`
	Result  any    `json:"result"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Success wraps result. A nil result is sent as an empty string.
func Success(result any) Envelope {
	if result == nil {
		result = ""
	}
	return Envelope{
		Code:    CodeSuccess,
		Result:  result,
		Message: MessageOK,
		Type:    TypeSuccess,
	}
}

// Failure returns the generic failure envelope. Error details never reach the client.
func Failure() Envelope {
	return Envelope{
		Code:    CodeFailure,
		Result:  "",
		Message: MessageFailed,
		Type:    TypeError,
	}
}

// OK reports whether e is a success envelope.
func (e Envelope) OK() bool {
	return e.Code == CodeSuccess && e.Type == TypeSuccess
}
