package credstore

import (
	"context"

	"tracker/cmd/identity"
)

// TokenPair is the persisted credential pair: a short-lived access token and
// the long-lived refresh token used solely to mint a new access token.
type TokenPair struct {
	Access  string
	Refresh string
}

// Empty reports whether no credentials are stored.
func (p TokenPair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// Store abstracts credential persistence.
//
// Implementations must write and clear the token pair atomically: a reader
// never observes an access token from one login paired with a refresh token
// from another.
type Store interface {
	// Tokens returns the stored pair; zero-value fields when absent.
	Tokens(ctx context.Context) (TokenPair, error)

	// SetTokens stores both credentials atomically.
	SetTokens(ctx context.Context, pair TokenPair) error

	// SetAccess replaces only the access token (silent refresh path).
	SetAccess(ctx context.Context, access string) error

	// Clear removes both credentials and all cached records atomically.
	Clear(ctx context.Context) error

	// CachedUser returns the last persisted user record, or nil.
	CachedUser(ctx context.Context) (*identity.User, error)

	// SetCachedUser persists a copy of the user record for hydration.
	SetCachedUser(ctx context.Context, u *identity.User) error

	// CachedProfile returns the last persisted profile record, or nil.
	CachedProfile(ctx context.Context) (*identity.Profile, error)

	// SetCachedProfile persists a copy of the profile record for hydration.
	SetCachedProfile(ctx context.Context, p *identity.Profile) error
}

// Storage keys. Stable: renaming one silently discards existing state.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
	keyProfile      = "profile"
	keyVaultSalt    = "vault_salt"
)
