package apiclient

import (
	"tracker/cmd/identity"
	"tracker/cmd/internal/credstore"
)

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// RegisterParams carries the derived registration payload. PasswordConfirm
// always mirrors Password; the server insists on receiving both.
type RegisterParams struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Confirm   string `json:"password_confirm"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type revokeRequest struct {
	Refresh string `json:"refresh"`
}

// ChangePasswordParams carries the password-change payload.
type ChangePasswordParams struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
	Confirm     string `json:"new_password_confirm"`
}

type tokenPairBody struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// authResponse is the success body of login and register. Tokens arrive
// either nested under "tokens" or flat at the top level depending on server
// version; both are accepted.
type authResponse struct {
	Message string         `json:"message"`
	User    identity.User  `json:"user"`
	Tokens  *tokenPairBody `json:"tokens"`

	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResult is the normalized outcome of login and register calls.
// Tokens is nil when the server acknowledged success without issuing
// credentials (registration pending email verification).
type AuthResult struct {
	Message string
	User    identity.User
	Tokens  *credstore.TokenPair
}

func (r authResponse) result() AuthResult {
	out := AuthResult{Message: r.Message, User: r.User}

	access, refresh := r.Access, r.Refresh
	if r.Tokens != nil {
		access, refresh = r.Tokens.Access, r.Tokens.Refresh
	}
	if access != "" && refresh != "" {
		out.Tokens = &credstore.TokenPair{Access: access, Refresh: refresh}
	}
	return out
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// profileUserBody is the user record as the profile endpoint nests it:
// the account fields with the extended profile attached.
type profileUserBody struct {
	identity.User
	Profile *identity.Profile `json:"profile"`
}

type profileEnvelope struct {
	Message string          `json:"message"`
	User    profileUserBody `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
