package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Sentinel error kinds (stable for errors.Is across the client).
var (
	// ErrNetwork is returned when no response was received at all
	// (offline, DNS failure, or the fixed client-side timeout).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for a 401 response that was not
	// recovered by the silent refresh.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired is returned when a 401 response could not be
	// recovered because the stored refresh token was rejected. Persisted
	// credentials have already been cleared when this is returned.
	ErrSessionExpired = errors.New("session expired")
)

// Error is the single error shape the gateway exposes.
//
// Message is always human-readable. Status is the HTTP status of the failed
// response, or 0 when none was received. Field names the offending input
// field when the server returned a per-field validation error.
type Error struct {
	Status  int
	Field   string
	Message string

	kind error // optional sentinel for errors.Is
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.kind }

// NewError builds a gateway error outside the response path, for fakes
// standing in for the client. Status 401 carries ErrUnauthorized for
// errors.Is, matching what normalizeError produces.
func NewError(status int, field, message string) *Error {
	e := &Error{Status: status, Field: field, Message: message}
	if status == 401 {
		e.kind = ErrUnauthorized
	}
	return e
}

// reserved keys that are never treated as input field names.
var reservedErrorKeys = map[string]bool{
	"detail":           true,
	"details":          true,
	"non_field_errors": true,
	"message":          true,
	"error":            true,
	"code":             true,
}

// normalizeError turns a non-2xx response body into an *Error.
//
// Priority order: structured per-field validation error (first key, first
// entry when the value is a list) -> non-field error list's first entry ->
// single detail field -> message/error fields -> generic status text.
// JSON object keys carry no order, so "first key" means first in
// lexicographic order.
func normalizeError(status int, body []byte) *Error {
	e := &Error{Status: status}
	if status == 401 {
		e.kind = ErrUnauthorized
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		e.Message = fmt.Sprintf("request failed with status %d", status)
		return e
	}

	// Serializer errors arrive either top-level or nested under "details".
	fields := payload
	if nested, ok := payload["details"].(map[string]any); ok {
		fields = nested
	}

	if field, msg, ok := firstFieldError(fields); ok {
		e.Field = field
		e.Message = msg
		return e
	}

	if msg, ok := firstListEntry(fields["non_field_errors"]); ok {
		e.Message = msg
		return e
	}
	if msg, ok := firstListEntry(payload["non_field_errors"]); ok {
		e.Message = msg
		return e
	}

	for _, key := range []string{"detail", "message", "error"} {
		if s, ok := payload[key].(string); ok && s != "" {
			e.Message = s
			return e
		}
	}

	e.Message = fmt.Sprintf("request failed with status %d", status)
	return e
}

// firstFieldError extracts the lexicographically first per-field validation
// error from a serializer error map.
func firstFieldError(payload map[string]any) (field, msg string, ok bool) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if !reservedErrorKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		if m, found := firstListEntry(payload[k]); found {
			return k, m, true
		}
		if s, isStr := payload[k].(string); isStr && s != "" {
			return k, s, true
		}
	}
	return "", "", false
}

func firstListEntry(v any) (string, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	s, ok := list[0].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// networkError wraps a transport failure where no response was received.
func networkError(err error) *Error {
	msg := "network error"
	if err != nil {
		msg = fmt.Sprintf("network error: %v", err)
	}
	return &Error{Message: msg, kind: ErrNetwork}
}

// sessionExpiredError reports an unrecoverable 401 after the one-shot
// refresh was rejected.
func sessionExpiredError(original *Error) *Error {
	msg := "session expired"
	if original != nil && original.Message != "" {
		msg = original.Message
	}
	status := 401
	if original != nil && original.Status != 0 {
		status = original.Status
	}
	return &Error{Status: status, Message: msg, kind: ErrSessionExpired}
}
