package identity

import "errors"

// Sentinel error kinds (stable for errors.Is across the client).
var (
	ErrInvalidInput   = errors.New("invalid_input")
	ErrMalformedToken = errors.New("malformed_token")
)
