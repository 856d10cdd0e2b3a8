package session

import "tracker/cmd/identity"

// Phase enumerates the session lifecycle states.
type Phase int

const (
	// PhaseUnknown is the initial state before startup verification ran.
	PhaseUnknown Phase = iota
	// PhaseChecking means startup verification is in flight.
	PhaseChecking
	// PhaseAuthenticating means a login or registration is in flight.
	PhaseAuthenticating
	// PhaseAuthenticated means a verified user is present.
	PhaseAuthenticated
	// PhaseAnonymous means no user is present.
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseUnknown:
		return "unknown"
	case PhaseChecking:
		return "checking"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// State is an immutable snapshot of the session. User and AccessToken are
// set exactly in the Authenticated phase.
type State struct {
	Phase       Phase
	User        *identity.User
	AccessToken string
}

// Authenticated is the guard predicate route protection consumes.
// It holds iff a user record and an access token are both present.
func (s State) Authenticated() bool {
	return s.User != nil && s.AccessToken != ""
}

// Loading reports whether an auth operation is in flight (or startup
// verification has not run yet). Never true at rest.
func (s State) Loading() bool {
	switch s.Phase {
	case PhaseUnknown, PhaseChecking, PhaseAuthenticating:
		return true
	case PhaseAuthenticated, PhaseAnonymous:
		return false
	default:
		return false
	}
}

// event is the sealed set of state machine inputs.
type event interface{ isEvent() }

type checkStarted struct{}

type authStarted struct{}

type authSucceeded struct {
	user  identity.User
	token string
}

type authFailed struct{}

type loggedOut struct{}

func (checkStarted) isEvent()  {}
func (authStarted) isEvent()   {}
func (authSucceeded) isEvent() {}
func (authFailed) isEvent()    {}
func (loggedOut) isEvent()     {}

// transition is the deterministic transition table. The event set is sealed
// within this package; an unhandled event is a programming error.
func transition(s State, ev event) State {
	switch ev := ev.(type) {
	case checkStarted:
		return State{Phase: PhaseChecking}
	case authStarted:
		return State{Phase: PhaseAuthenticating}
	case authSucceeded:
		u := ev.user
		return State{Phase: PhaseAuthenticated, User: &u, AccessToken: ev.token}
	case authFailed:
		return State{Phase: PhaseAnonymous}
	case loggedOut:
		return State{Phase: PhaseAnonymous}
	default:
		panic("session: unhandled event")
	}
}
