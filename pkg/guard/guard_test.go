package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-press/console/pkg/identity"
	"github.com/inkwell-press/console/pkg/routes"
	"github.com/inkwell-press/console/pkg/session"
)

func snapFor(status session.Status, role identity.Role) session.Snapshot {
	snap := session.Snapshot{Status: status}
	if status == session.StatusAuthenticated {
		snap.User = &identity.User{ID: 1, Name: "Ana", Email: "a@b.com", Role: role}
	}
	return snap
}

func TestEvaluate(t *testing.T) {
	set := routes.NewSet(routes.DefaultTable())

	tests := []struct {
		name     string
		status   session.Status
		role     identity.Role
		path     string
		want     Action
		location string
	}{
		{"public path ignores session state", session.StatusUnauthenticated, "", "/login", ActionAllow, ""},
		{"public path while loading", session.StatusLoading, "", "/forgot-password", ActionAllow, ""},
		{"protected path while loading holds", session.StatusLoading, "", "/admin/orders", ActionLoading, ""},
		{"protected path without session redirects to login", session.StatusUnauthenticated, "", "/admin/orders", ActionRedirect, LoginLocation},
		{"editor on general page", session.StatusAuthenticated, identity.RoleEditor, "/admin/orders", ActionAllow, ""},
		{"support on general page", session.StatusAuthenticated, identity.RoleSupport, "/admin/orders", ActionAllow, ""},
		{"editor on admin-only page redirects home", session.StatusAuthenticated, identity.RoleEditor, "/admin/settings", ActionRedirect, HomeLocation},
		{"support on admin-only page redirects home", session.StatusAuthenticated, identity.RoleSupport, "/admin/users", ActionRedirect, HomeLocation},
		{"admin on admin-only page", session.StatusAuthenticated, identity.RoleAdmin, "/admin/settings", ActionAllow, ""},
		{"admin on nested admin-only page", session.StatusAuthenticated, identity.RoleAdmin, "/admin/users/1", ActionAllow, ""},
		{"unknown role treated as denied", session.StatusAuthenticated, identity.Role("superuser"), "/admin/orders", ActionRedirect, HomeLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(snapFor(tt.status, tt.role), tt.path, set)
			assert.Equal(t, tt.want, got.Action)
			assert.Equal(t, tt.location, got.Location)
		})
	}
}

func TestEvaluate_AuthenticatedWithoutUser(t *testing.T) {
	set := routes.NewSet(routes.DefaultTable())

	// A snapshot claiming authentication with no identity attached must
	// never grant access.
	got := Evaluate(session.Snapshot{Status: session.StatusAuthenticated}, "/admin/orders", set)
	assert.Equal(t, ActionRedirect, got.Action)
	assert.Equal(t, HomeLocation, got.Location)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "allow", ActionAllow.String())
	assert.Equal(t, "loading", ActionLoading.String())
	assert.Equal(t, "redirect", ActionRedirect.String())
	assert.Equal(t, "unknown", Action(99).String())
}
