package credstore

import (
	"context"
	"sync"

	"tracker/cmd/identity"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.Mutex
	pair    TokenPair
	user    *identity.User
	profile *identity.Profile
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Tokens returns the stored credential pair.
func (s *MemoryStore) Tokens(_ context.Context) (TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, nil
}

// SetTokens stores both credentials.
func (s *MemoryStore) SetTokens(_ context.Context, pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

// SetAccess replaces only the access token.
func (s *MemoryStore) SetAccess(_ context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair.Access = access
	return nil
}

// Clear removes credentials and cached records.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = TokenPair{}
	s.user = nil
	s.profile = nil
	return nil
}

// CachedUser returns the cached user record, or nil.
func (s *MemoryStore) CachedUser(_ context.Context) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	u := *s.user
	return &u, nil
}

// SetCachedUser stores a copy of the user record.
func (s *MemoryStore) SetCachedUser(_ context.Context, u *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		return nil
	}
	cp := *u
	s.user = &cp
	return nil
}

// CachedProfile returns the cached profile record, or nil.
func (s *MemoryStore) CachedProfile(_ context.Context) (*identity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

// SetCachedProfile stores a copy of the profile record.
func (s *MemoryStore) SetCachedProfile(_ context.Context, p *identity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		return nil
	}
	cp := *p
	s.profile = &cp
	return nil
}
