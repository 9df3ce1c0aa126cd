package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/inkwell-press/console/pkg/identity"
)

// Backend auth endpoints. All of them rely on the shared cookie jar for
// refresh-cookie transport; none of them go through the bearer/401-retry
// path in do().
const (
	loginPath   = "/api/v1/auth/login"
	signupPath  = "/api/v1/auth/signup"
	refreshPath = "/api/v1/auth/refresh"
	mePath      = "/api/v1/auth/me"
	logoutPath  = "/api/v1/auth/logout"
)

// Login exchanges credentials for an access token and identity snapshot.
// The backend also sets the HTTP-only refresh cookie on this response.
func (c *Client) Login(ctx context.Context, email, password string) (string, *identity.User, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authRequest(ctx, loginPath, body)
}

// Signup registers a new account; the response shape matches Login.
func (c *Client) Signup(ctx context.Context, name, email, password string) (string, *identity.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.authRequest(ctx, signupPath, body)
}

func (c *Client) authRequest(ctx context.Context, path string, body map[string]string) (string, *identity.User, error) {
	status, respBody, err := c.postRaw(ctx, path, body)
	if err != nil {
		return "", nil, err
	}
	if status < 200 || status > 299 {
		return "", nil, newAPIError(status, respBody)
	}

	var envelope AuthResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := envelope.Validate(); err != nil {
		return "", nil, err
	}
	return envelope.AccessToken, envelope.User, nil
}

// RefreshToken mints a new access token from the refresh cookie. The caller
// (the session coordinator) owns failure semantics; this method just reports
// them.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	status, respBody, err := c.postRaw(ctx, refreshPath, nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", newAPIError(status, respBody)
	}

	var envelope RefreshResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := envelope.Validate(); err != nil {
		return "", err
	}
	return envelope.AccessToken, nil
}

// Me fetches the identity snapshot for an explicit bearer token.
func (c *Client) Me(ctx context.Context, token string) (*identity.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mePath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", genericFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	var envelope UserResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := envelope.Validate(); err != nil {
		return nil, err
	}
	return envelope.User, nil
}

// Logout asks the backend to clear the refresh cookie. Best-effort: the
// session manager swallows failures and clears local state regardless.
func (c *Client) Logout(ctx context.Context) error {
	status, respBody, err := c.postRaw(ctx, logoutPath, nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return newAPIError(status, respBody)
	}
	return nil
}

// UpdateUserRole performs the explicit role-update round trip. The returned
// snapshot carries the server-confirmed fields.
func (c *Client) UpdateUserRole(ctx context.Context, userID int64, role identity.Role) (*identity.User, error) {
	raw, err := c.Put(ctx, fmt.Sprintf("/api/v1/users/%d", userID), map[string]string{"role": string(role)})
	if err != nil {
		return nil, err
	}

	var envelope UserResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := envelope.Validate(); err != nil {
		return nil, err
	}
	return envelope.User, nil
}

// postRaw posts an optional JSON body without a bearer token.
func (c *Client) postRaw(ctx context.Context, path string, body map[string]string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", genericFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
