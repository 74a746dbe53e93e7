package types

// SuccessEnvelope wraps every 2xx JSON payload under a single data key so
// storefront and back-office clients can share one response decoder.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a failed request. Details carries
// field-level validation context when present.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx JSON payload.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
