package vault

import "errors"

// Public, stable errors for callers.
var (
	ErrPassphraseMissing = errors.New("vault passphrase missing")
	ErrSealedFormat      = errors.New("sealed value malformed")
	ErrDecrypt           = errors.New("sealed value cannot be opened")
	ErrConfig            = errors.New("invalid vault config")
)
