package apiclient

import (
	"fmt"

	"github.com/inkwell-press/console/pkg/identity"
)

// AuthResponse is the login/signup wire envelope.
type AuthResponse struct {
	OK          bool           `json:"ok"`
	AccessToken string         `json:"accessToken"`
	User        *identity.User `json:"user"`
}

// Validate rejects auth envelopes that would leave the session half
// populated.
func (r *AuthResponse) Validate() error {
	if r.AccessToken == "" {
		return fmt.Errorf("%w: missing accessToken", ErrMalformedResponse)
	}
	if err := r.User.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// RefreshResponse is the refresh endpoint envelope.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Validate rejects refresh envelopes without a token.
func (r *RefreshResponse) Validate() error {
	if r.AccessToken == "" {
		return fmt.Errorf("%w: missing accessToken", ErrMalformedResponse)
	}
	return nil
}

// UserResponse is the profile envelope returned by /auth/me and user
// mutations.
type UserResponse struct {
	OK   bool           `json:"ok"`
	User *identity.User `json:"user"`
}

// Validate rejects profile envelopes with a missing or malformed user.
func (r *UserResponse) Validate() error {
	if err := r.User.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
