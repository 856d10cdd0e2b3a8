package credstore

import (
	"context"
	"path/filepath"
	"testing"

	"tracker/cmd/identity"
)

// storeUnderTest runs the Store contract against each implementation.
func storeUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]Store{
		"sqlite": sq,
		"memory": NewMemory(),
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			pair, err := st.Tokens(ctx)
			if err != nil {
				t.Fatalf("Tokens on empty store: %v", err)
			}
			if !pair.Empty() {
				t.Fatalf("empty store returned %+v", pair)
			}

			want := TokenPair{Access: "acc-1", Refresh: "ref-1"}
			if err := st.SetTokens(ctx, want); err != nil {
				t.Fatalf("SetTokens: %v", err)
			}

			got, err := st.Tokens(ctx)
			if err != nil {
				t.Fatalf("Tokens: %v", err)
			}
			if got != want {
				t.Fatalf("Tokens = %+v, want %+v", got, want)
			}
		})
	}
}

func TestSetAccessKeepsRefresh(t *testing.T) {
	ctx := context.Background()

	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.SetTokens(ctx, TokenPair{Access: "old", Refresh: "keep"}); err != nil {
				t.Fatalf("SetTokens: %v", err)
			}
			if err := st.SetAccess(ctx, "new"); err != nil {
				t.Fatalf("SetAccess: %v", err)
			}

			got, err := st.Tokens(ctx)
			if err != nil {
				t.Fatalf("Tokens: %v", err)
			}
			if got.Access != "new" || got.Refresh != "keep" {
				t.Fatalf("after SetAccess: %+v", got)
			}
		})
	}
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()

	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.SetTokens(ctx, TokenPair{Access: "a", Refresh: "r"}); err != nil {
				t.Fatalf("SetTokens: %v", err)
			}
			if err := st.SetCachedUser(ctx, &identity.User{ID: 1, Username: "ada"}); err != nil {
				t.Fatalf("SetCachedUser: %v", err)
			}

			for i := 0; i < 2; i++ {
				if err := st.Clear(ctx); err != nil {
					t.Fatalf("Clear #%d: %v", i+1, err)
				}

				pair, err := st.Tokens(ctx)
				if err != nil {
					t.Fatalf("Tokens after Clear: %v", err)
				}
				if !pair.Empty() {
					t.Fatalf("Clear #%d left %+v", i+1, pair)
				}

				u, err := st.CachedUser(ctx)
				if err != nil {
					t.Fatalf("CachedUser after Clear: %v", err)
				}
				if u != nil {
					t.Fatalf("Clear #%d left cached user %+v", i+1, u)
				}
			}
		})
	}
}

func TestCachedRecords(t *testing.T) {
	ctx := context.Background()

	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			u := &identity.User{ID: 7, Username: "ada", Email: "ada@x.com", FirstName: "Ada", LastName: "Lovelace"}
			if err := st.SetCachedUser(ctx, u); err != nil {
				t.Fatalf("SetCachedUser: %v", err)
			}

			got, err := st.CachedUser(ctx)
			if err != nil {
				t.Fatalf("CachedUser: %v", err)
			}
			if got == nil || got.ID != 7 || got.Username != "ada" {
				t.Fatalf("CachedUser = %+v", got)
			}

			p := &identity.Profile{Bio: "mathematician", PreferredTone: "technical"}
			if err := st.SetCachedProfile(ctx, p); err != nil {
				t.Fatalf("SetCachedProfile: %v", err)
			}
			gotP, err := st.CachedProfile(ctx)
			if err != nil {
				t.Fatalf("CachedProfile: %v", err)
			}
			if gotP == nil || gotP.Bio != "mathematician" {
				t.Fatalf("CachedProfile = %+v", gotP)
			}
		})
	}
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	st, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.SetTokens(ctx, TokenPair{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = st2.Close() }()

	got, err := st2.Tokens(ctx)
	if err != nil {
		t.Fatalf("Tokens after reopen: %v", err)
	}
	if got.Access != "a" || got.Refresh != "r" {
		t.Fatalf("Tokens after reopen = %+v", got)
	}
}

func TestSQLite_VaultSalt(t *testing.T) {
	ctx := context.Background()

	st, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = st.Close() }()

	salt, err := st.VaultSalt(ctx)
	if err != nil {
		t.Fatalf("VaultSalt on empty store: %v", err)
	}
	if salt != nil {
		t.Fatalf("expected nil salt, got %v", salt)
	}

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := st.SetVaultSalt(ctx, want); err != nil {
		t.Fatalf("SetVaultSalt: %v", err)
	}

	got, err := st.VaultSalt(ctx)
	if err != nil {
		t.Fatalf("VaultSalt: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("VaultSalt = %v, want %v", got, want)
	}

	// Clear keeps the salt so re-login can reuse the sealing key.
	if err := st.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err = st.VaultSalt(ctx)
	if err != nil || string(got) != string(want) {
		t.Fatalf("VaultSalt after Clear = %v, %v", got, err)
	}
}
