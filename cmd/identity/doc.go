// Package identity implements Tracker's client-side identity foundation.
//
// It contains the domain records the session core exposes (User, Profile),
// the derivation rules applied during registration and hydration (candidate
// username, display name, avatar initials, first/last name split), and
// best-effort access-token expiry inspection.
//
// This package is intentionally dependency-light and performs no I/O.
package identity
