package credstore

import (
	"context"

	"tracker/cmd/identity"
	"tracker/cmd/security/vault"
)

// SealedStore decorates a Store so token values are encrypted at rest.
// Cached user/profile records are not sealed; they carry no credentials.
//
// Plaintext entries written before sealing was enabled are passed through
// unchanged on read, so enabling a passphrase does not strand an existing
// login.
type SealedStore struct {
	inner Store
	vault *vault.Vault
}

// NewSealed wraps inner with at-rest sealing.
func NewSealed(inner Store, v *vault.Vault) *SealedStore {
	return &SealedStore{inner: inner, vault: v}
}

func (s *SealedStore) seal(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return s.vault.Seal(value)
}

func (s *SealedStore) open(value string) (string, error) {
	if value == "" || !vault.IsSealed(value) {
		return value, nil
	}
	return s.vault.Open(value)
}

// Tokens returns the unsealed credential pair.
func (s *SealedStore) Tokens(ctx context.Context) (TokenPair, error) {
	pair, err := s.inner.Tokens(ctx)
	if err != nil {
		return TokenPair{}, err
	}
	if pair.Access, err = s.open(pair.Access); err != nil {
		return TokenPair{}, err
	}
	if pair.Refresh, err = s.open(pair.Refresh); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// SetTokens seals and stores both credentials atomically.
func (s *SealedStore) SetTokens(ctx context.Context, pair TokenPair) error {
	sealed := pair
	var err error
	if sealed.Access, err = s.seal(pair.Access); err != nil {
		return err
	}
	if sealed.Refresh, err = s.seal(pair.Refresh); err != nil {
		return err
	}
	return s.inner.SetTokens(ctx, sealed)
}

// SetAccess seals and replaces only the access token.
func (s *SealedStore) SetAccess(ctx context.Context, access string) error {
	sealed, err := s.seal(access)
	if err != nil {
		return err
	}
	return s.inner.SetAccess(ctx, sealed)
}

// Clear removes credentials and cached records.
func (s *SealedStore) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

// CachedUser returns the cached user record, or nil.
func (s *SealedStore) CachedUser(ctx context.Context) (*identity.User, error) {
	return s.inner.CachedUser(ctx)
}

// SetCachedUser persists a copy of the user record.
func (s *SealedStore) SetCachedUser(ctx context.Context, u *identity.User) error {
	return s.inner.SetCachedUser(ctx, u)
}

// CachedProfile returns the cached profile record, or nil.
func (s *SealedStore) CachedProfile(ctx context.Context) (*identity.Profile, error) {
	return s.inner.CachedProfile(ctx)
}

// SetCachedProfile persists a copy of the profile record.
func (s *SealedStore) SetCachedProfile(ctx context.Context, p *identity.Profile) error {
	return s.inner.SetCachedProfile(ctx, p)
}
