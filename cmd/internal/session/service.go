package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tracker/cmd/identity"
	"tracker/cmd/internal/apiclient"
	"tracker/cmd/internal/credstore"
)

// Gateway is the slice of the API surface the session service needs.
// *apiclient.Client satisfies it.
type Gateway interface {
	Login(ctx context.Context, identifier, password string) (apiclient.AuthResult, error)
	Register(ctx context.Context, params apiclient.RegisterParams) (apiclient.AuthResult, error)
	VerifyToken(ctx context.Context, token string) error
	CurrentUser(ctx context.Context) (identity.User, error)
	RevokeRefresh(ctx context.Context, refresh string) error
}

// RegisterOutcome distinguishes the two success shapes of sign-up.
type RegisterOutcome int

const (
	// OutcomeAuthenticated means the server issued tokens immediately.
	OutcomeAuthenticated RegisterOutcome = iota
	// OutcomePendingVerification means the account exists but the user
	// must confirm it (usually by email) before signing in.
	OutcomePendingVerification
)

// Service owns the session state machine and coordinates the gateway
// and the credential store. All methods are safe for concurrent use;
// overlapping auth operations resolve last-write-wins.
type Service struct {
	gw    Gateway
	creds credstore.Store
	log   *slog.Logger

	mu       sync.Mutex
	state    State
	verified bool
}

// NewService wires a session service. The logger may be nil.
func NewService(gw Gateway, creds credstore.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{gw: gw, creds: creds, log: log}
}

// State returns a snapshot of the current session.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) apply(ev event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.Phase
	s.state = transition(s.state, ev)
	if s.state.Phase != prev {
		s.log.Debug("session transition",
			slog.String("from", prev.String()),
			slog.String("to", s.state.Phase.String()))
	}
	return s.state
}

// Login signs the user in with a username-or-email identifier. Input is
// validated locally first; an invalid form costs zero round-trips.
func (s *Service) Login(ctx context.Context, c Credentials) error {
	if err := ValidateCredentials(c); err != nil {
		return err
	}
	s.apply(authStarted{})

	res, err := s.gw.Login(ctx, c.Identifier, c.Password)
	if err != nil {
		s.apply(authFailed{})
		serr := classify(err, "Login failed")
		s.log.Warn("login failed", slog.String("error", Describe(serr)))
		return serr
	}
	return s.finishAuth(ctx, res, "Login failed")
}

// Register signs a new user up. FullName is split into first and last
// name for the server; when the form leaves Username blank one is
// derived from the email address.
func (s *Service) Register(ctx context.Context, f RegistrationForm) (RegisterOutcome, error) {
	if f.Username == "" {
		if derived, err := identity.DeriveUsername(f.Email); err == nil {
			f.Username = derived
		}
	}
	if err := ValidateRegistration(f); err != nil {
		return 0, err
	}
	first, last := identity.SplitFullName(f.FullName)
	s.apply(authStarted{})

	res, err := s.gw.Register(ctx, apiclient.RegisterParams{
		Username:  f.Username,
		Email:     f.Email,
		Password:  f.Password,
		Confirm:   f.ConfirmPassword,
		FirstName: first,
		LastName:  last,
	})
	if err != nil {
		s.apply(authFailed{})
		serr := classify(err, "Registration failed")
		s.log.Warn("registration failed", slog.String("error", Describe(serr)))
		return 0, serr
	}
	if res.Tokens == nil || res.Tokens.Access == "" {
		// Account created but not yet usable. Not an error.
		s.apply(authFailed{})
		s.log.Info("registration pending verification",
			slog.String("username", res.User.Username))
		return OutcomePendingVerification, nil
	}
	if err := s.finishAuth(ctx, res, "Registration failed"); err != nil {
		return 0, err
	}
	return OutcomeAuthenticated, nil
}

// finishAuth persists the issued token pair and the user record, then
// moves the machine to Authenticated.
func (s *Service) finishAuth(ctx context.Context, res apiclient.AuthResult, fallback string) error {
	if res.Tokens == nil || res.Tokens.Access == "" {
		s.apply(authFailed{})
		return &CredentialError{Message: fallback}
	}
	if err := s.creds.SetTokens(ctx, *res.Tokens); err != nil {
		s.apply(authFailed{})
		s.log.Error("persisting tokens failed", slog.String("error", err.Error()))
		return classify(err, fallback)
	}
	if err := s.creds.SetCachedUser(ctx, &res.User); err != nil {
		s.log.Warn("caching user failed", slog.String("error", err.Error()))
	}
	s.apply(authSucceeded{user: res.User, token: res.Tokens.Access})
	s.log.Info("signed in", slog.String("username", res.User.Username))
	return nil
}

// VerifyOnStartup restores a previous session from the credential store,
// confirming the stored access token with the server. It runs the check
// at most once per process; later calls return the current state. All
// failures resolve to Anonymous, never to an error: a stale session is
// an ordinary condition, not a fault.
func (s *Service) VerifyOnStartup(ctx context.Context) State {
	s.mu.Lock()
	if s.verified {
		st := s.state
		s.mu.Unlock()
		return st
	}
	s.verified = true
	s.mu.Unlock()

	s.apply(checkStarted{})

	pair, err := s.creds.Tokens(ctx)
	if err != nil || pair.Access == "" {
		// Nothing stored, nothing to ask the server about.
		return s.apply(authFailed{})
	}
	if identity.LooksExpired(pair.Access, time.Now()) && pair.Refresh == "" {
		s.clearCredentials(ctx)
		return s.apply(authFailed{})
	}
	if err := s.gw.VerifyToken(ctx, pair.Access); err != nil {
		// An unauthorized verdict after the gateway ran its refresh can
		// still mean a live session: the replay re-sends the stale token
		// in the body while the store already holds a rotated one. Fall
		// through to the user fetch, which uses the fresh bearer. Every
		// other failure, network included, ends the restore attempt and
		// drops the stored pair.
		if !errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrSessionExpired) {
			s.log.Info("stored session rejected", slog.String("error", err.Error()))
			s.clearCredentials(ctx)
			return s.apply(authFailed{})
		}
	}
	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		s.log.Info("restoring user failed", slog.String("error", err.Error()))
		s.clearCredentials(ctx)
		return s.apply(authFailed{})
	}
	if err := s.creds.SetCachedUser(ctx, &user); err != nil {
		s.log.Warn("caching user failed", slog.String("error", err.Error()))
	}
	// The gateway may have rotated the access token while we talked to it.
	pair, err = s.creds.Tokens(ctx)
	if err != nil || pair.Access == "" {
		s.clearCredentials(ctx)
		return s.apply(authFailed{})
	}
	s.log.Info("session restored", slog.String("username", user.Username))
	return s.apply(authSucceeded{user: user, token: pair.Access})
}

// Logout ends the session. Local credentials are always cleared and the
// machine always lands in Anonymous; revoking the refresh token on the
// server is best effort. The revoke goes out first, while the access token
// is still stored, so it carries the bearer header. Safe to call in any
// state, any number of times.
func (s *Service) Logout(ctx context.Context) {
	pair, err := s.creds.Tokens(ctx)
	if err != nil {
		s.log.Warn("reading credentials failed", slog.String("error", err.Error()))
	}
	if pair.Refresh != "" {
		if err := s.gw.RevokeRefresh(ctx, pair.Refresh); err != nil {
			s.log.Debug("revoking refresh token failed", slog.String("error", err.Error()))
		}
	}
	s.clearCredentials(ctx)
	s.apply(loggedOut{})
	s.log.Info("signed out")
}

func (s *Service) clearCredentials(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Warn("clearing credentials failed", slog.String("error", err.Error()))
	}
}

// CurrentUser returns the signed-in user, or nil when anonymous.
func (s *Service) CurrentUser() *identity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}
