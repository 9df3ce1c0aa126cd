package identity

import (
	"errors"
	"fmt"
)

// Role represents console-level roles assigned by the backend.
type Role string

const (
	RoleAdmin   Role = "admin"   // Full access, including settings and user management
	RoleEditor  Role = "editor"  // Can manage content (products, stories, authors)
	RoleSupport Role = "support" // Read/respond access for support workflows
)

// ParseRole validates a role string received from the backend.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleSupport:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the known console roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User is an immutable identity snapshot fetched from the backend.
// Consumers must never mutate fields in place; a role change goes through an
// explicit update round trip that re-fetches the profile.
type User struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	// Timestamps are kept as opaque backend strings; the console never
	// interprets them beyond display.
	CreatedAt string `json:"created_at,omitempty"`
	LastLogin string `json:"last_login,omitempty"`
}

// Validate rejects malformed identity payloads at the wire boundary.
func (u *User) Validate() error {
	if u == nil {
		return errors.New("user payload is missing")
	}
	if u.ID == 0 {
		return errors.New("user id is required")
	}
	if u.Email == "" {
		return errors.New("user email is required")
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		return fmt.Errorf("user role: %w", err)
	}
	return nil
}

// Clone returns a copy of the snapshot so callers can hold it without
// sharing memory with session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
