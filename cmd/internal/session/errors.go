package session

import (
	"errors"
	"fmt"
	"strings"

	"tracker/cmd/internal/apiclient"
)

// CredentialError means the server rejected the supplied credentials.
type CredentialError struct {
	Message string
}

func (e *CredentialError) Error() string { return e.Message }

// TransportError means the request never produced a usable server answer.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// SessionExpiredError means the stored refresh credential is no longer
// honored and the user must sign in again.
type SessionExpiredError struct{}

func (e *SessionExpiredError) Error() string {
	return "Your session has expired. Please sign in again."
}

// ValidationError is a local (pre-network) rejection of user input.
// Field names the offending input when a single one can be blamed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// FieldForMessage guesses which form field a server-side message talks
// about so callers can place it next to the right input.
func FieldForMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "email"):
		return "email"
	case strings.Contains(lower, "password"):
		return "password"
	case strings.Contains(lower, "username"):
		return "username"
	default:
		return ""
	}
}

// classify maps a gateway error into the session taxonomy. fallback is
// used when the server gave no message worth surfacing.
func classify(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	if errors.Is(err, apiclient.ErrSessionExpired) {
		return &SessionExpiredError{}
	}
	if errors.Is(err, apiclient.ErrNetwork) {
		return &TransportError{Message: "Network error occurred", Err: err}
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return &CredentialError{Message: msg}
		}
		if apiErr.Field != "" {
			return &ValidationError{Field: apiErr.Field, Message: msg}
		}
		return &CredentialError{Message: msg}
	}
	return &TransportError{Message: fallback, Err: err}
}

// Describe renders any session error for logs and terminal output,
// prefixing the blamed field when one is known or can be guessed from
// the message.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}
	var ce *CredentialError
	if errors.As(err, &ce) {
		if field := FieldForMessage(ce.Message); field != "" {
			return fmt.Sprintf("%s: %s", field, ce.Message)
		}
	}
	return err.Error()
}
