package session

import (
	"testing"

	"tracker/cmd/identity"
)

func TestTransitionTable(t *testing.T) {
	user := identity.User{ID: 7, Username: "ada"}

	cases := []struct {
		name string
		from State
		ev   event
		want Phase
	}{
		{"unknown check", State{Phase: PhaseUnknown}, checkStarted{}, PhaseChecking},
		{"check fails", State{Phase: PhaseChecking}, authFailed{}, PhaseAnonymous},
		{"anonymous login", State{Phase: PhaseAnonymous}, authStarted{}, PhaseAuthenticating},
		{"login succeeds", State{Phase: PhaseAuthenticating}, authSucceeded{user: user, token: "tok"}, PhaseAuthenticated},
		{"login fails", State{Phase: PhaseAuthenticating}, authFailed{}, PhaseAnonymous},
		{"logout", State{Phase: PhaseAuthenticated, User: &user, AccessToken: "tok"}, loggedOut{}, PhaseAnonymous},
		{"logout while anonymous", State{Phase: PhaseAnonymous}, loggedOut{}, PhaseAnonymous},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := transition(tc.from, tc.ev)
			if got.Phase != tc.want {
				t.Fatalf("phase = %s, want %s", got.Phase, tc.want)
			}
		})
	}
}

func TestStateAuthenticatedRequiresUserAndToken(t *testing.T) {
	user := identity.User{ID: 1, Username: "ada"}

	if (State{Phase: PhaseAuthenticated, User: &user, AccessToken: "tok"}).Authenticated() != true {
		t.Fatal("full state should be authenticated")
	}
	if (State{Phase: PhaseAuthenticated, User: &user}).Authenticated() {
		t.Fatal("missing token must not count as authenticated")
	}
	if (State{Phase: PhaseAuthenticated, AccessToken: "tok"}).Authenticated() {
		t.Fatal("missing user must not count as authenticated")
	}
	if (State{Phase: PhaseAnonymous}).Authenticated() {
		t.Fatal("anonymous state must not count as authenticated")
	}
}

func TestSuccessClearsStaleFields(t *testing.T) {
	old := identity.User{ID: 1, Username: "old"}
	fresh := identity.User{ID: 2, Username: "fresh"}

	st := State{Phase: PhaseAuthenticated, User: &old, AccessToken: "stale"}
	st = transition(st, authStarted{})
	if st.User != nil || st.AccessToken != "" {
		t.Fatalf("authenticating state kept stale identity: %+v", st)
	}
	st = transition(st, authSucceeded{user: fresh, token: "new"})
	if st.User.Username != "fresh" || st.AccessToken != "new" {
		t.Fatalf("got %+v", st)
	}
}

func TestFailureClearsIdentity(t *testing.T) {
	user := identity.User{ID: 1, Username: "ada"}
	st := State{Phase: PhaseAuthenticated, User: &user, AccessToken: "tok"}

	st = transition(st, authFailed{})
	if st.User != nil || st.AccessToken != "" {
		t.Fatalf("failed state kept identity: %+v", st)
	}
	if st.Authenticated() {
		t.Fatal("failed state must not be authenticated")
	}
}

func TestLoadingPhases(t *testing.T) {
	loading := []Phase{PhaseUnknown, PhaseChecking, PhaseAuthenticating}
	settled := []Phase{PhaseAuthenticated, PhaseAnonymous}

	for _, p := range loading {
		if !(State{Phase: p}).Loading() {
			t.Errorf("%s should be loading", p)
		}
	}
	for _, p := range settled {
		if (State{Phase: p}).Loading() {
			t.Errorf("%s should not be loading", p)
		}
	}
}
