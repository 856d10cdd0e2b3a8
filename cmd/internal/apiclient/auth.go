package apiclient

import (
	"context"
	"net/http"

	"tracker/cmd/identity"
)

// Login authenticates with a username or email plus password.
// On success the caller receives the user record and, always for this
// endpoint, a fresh credential pair. The gateway does not persist the pair;
// that is the session store's call to make.
func (c *Client) Login(ctx context.Context, identifier, password string) (AuthResult, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login/", loginRequest{
		UsernameOrEmail: identifier,
		Password:        password,
	}, &resp)
	if err != nil {
		return AuthResult{}, err
	}
	return resp.result(), nil
}

// Register creates an account. Tokens in the result are nil when the server
// acknowledged the registration without auto-login (pending verification).
func (c *Client) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register/", params, &resp); err != nil {
		return AuthResult{}, err
	}
	return resp.result(), nil
}

// VerifyToken asks the server whether the access token is still valid.
// The token travels both as the bearer header (attached from the store) and
// in the body, matching the server's verify contract.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/token/verify/", verifyRequest{Token: token}, nil)
}

// CurrentUser fetches the authenticated account's detail record.
func (c *Client) CurrentUser(ctx context.Context) (identity.User, error) {
	var user identity.User
	if err := c.do(ctx, http.MethodGet, "/auth/user/", nil, &user); err != nil {
		return identity.User{}, err
	}
	return user, nil
}

// RevokeRefresh asks the server to blacklist a refresh token. Logout treats
// this as best-effort; callers ignore the error beyond logging.
func (c *Client) RevokeRefresh(ctx context.Context, refresh string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout/", revokeRequest{Refresh: refresh}, nil)
}
