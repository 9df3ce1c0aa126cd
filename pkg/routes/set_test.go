package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/console/pkg/identity"
)

func TestSet_IsPublic(t *testing.T) {
	s := NewSet(DefaultTable())

	tests := []struct {
		path string
		want bool
	}{
		{"/login", true},
		{"/login/", true},
		{"/signup", true},
		{"/forgot-password", true},
		{"/reset-password/abc123", true},
		{"/", false},
		{"/admin", false},
		{"/admin/orders", false},
		{"/api/v1/orders", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsPublic(tt.path))
		})
	}
}

func TestSet_Allow(t *testing.T) {
	s := NewSet(DefaultTable())

	tests := []struct {
		name string
		path string
		role identity.Role
		want bool
	}{
		{"admin on admin-only path", "/admin/settings", identity.RoleAdmin, true},
		{"editor on admin-only path", "/admin/settings", identity.RoleEditor, false},
		{"support on user management", "/admin/users", identity.RoleSupport, false},
		{"editor on regular admin path", "/admin/stories", identity.RoleEditor, true},
		{"support on regular admin path", "/admin/orders", identity.RoleSupport, true},
		{"unknown role denied", "/admin/orders", identity.Role("owner"), false},
		{"empty role denied", "/admin/orders", identity.Role(""), false},
		{"any role on public path", "/login", identity.Role(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Allow(tt.path, tt.role))
		})
	}

	t.Run("cached decision is stable", func(t *testing.T) {
		require.True(t, s.Allow("/admin/stories", identity.RoleEditor))
		assert.True(t, s.Allow("/admin/stories", identity.RoleEditor))
	})
}

func TestSet_Reload(t *testing.T) {
	s := NewSet(DefaultTable())
	require.False(t, s.IsPublic("/docs"))
	require.True(t, s.Allow("/admin/reports", identity.RoleEditor))

	s.Reload(Table{
		Public:    []string{"/docs"},
		AdminOnly: []string{"/admin/reports"},
	})

	assert.True(t, s.IsPublic("/docs"))
	assert.False(t, s.IsPublic("/login"))
	// Cache must not serve the pre-reload decision.
	assert.False(t, s.Allow("/admin/reports", identity.RoleEditor))
}

func TestSet_Snapshot(t *testing.T) {
	s := NewSet(DefaultTable())
	snap := s.Snapshot()
	snap.Public[0] = "/mutated"
	assert.True(t, s.IsPublic("/login"), "snapshot mutation must not leak into the set")
}
