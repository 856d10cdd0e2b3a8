package apiclient

import (
	"context"
	"net/http"

	"tracker/cmd/identity"
)

// GetProfile fetches the account's extended profile record alongside the
// user fields it nests.
func (c *Client) GetProfile(ctx context.Context) (identity.User, *identity.Profile, error) {
	var resp profileEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/profile/", nil, &resp); err != nil {
		return identity.User{}, nil, err
	}
	return resp.User.User, resp.User.Profile, nil
}

// UpdateProfile submits a partial profile update and returns the record the
// server settled on.
func (c *Client) UpdateProfile(ctx context.Context, p identity.Profile) (*identity.Profile, error) {
	var resp profileEnvelope
	if err := c.do(ctx, http.MethodPut, "/auth/profile/", p, &resp); err != nil {
		return nil, err
	}
	return resp.User.Profile, nil
}

// ChangePassword submits a password change for the authenticated account.
func (c *Client) ChangePassword(ctx context.Context, params ChangePasswordParams) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/change-password/", params, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Health probes the authentication service.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var resp HealthStatus
	if err := c.do(ctx, http.MethodGet, "/auth/health/", nil, &resp); err != nil {
		return HealthStatus{}, err
	}
	return resp, nil
}
