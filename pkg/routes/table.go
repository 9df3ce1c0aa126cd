package routes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table holds the route prefix lists driving classification and role policy.
type Table struct {
	// Public paths render without a session.
	Public []string `yaml:"public"`
	// AdminOnly paths additionally require identity.RoleAdmin.
	AdminOnly []string `yaml:"admin_only"`
}

// DefaultTable returns the built-in route table matching the backend's
// anonymous surface.
func DefaultTable() Table {
	return Table{
		Public: []string{
			"/login",
			"/signup",
			"/forgot-password",
			"/reset-password",
		},
		AdminOnly: []string{
			"/admin/settings",
			"/admin/users",
		},
	}
}

// LoadTable reads a route table from a YAML file. Missing sections fall back
// to the defaults so a partial override file stays valid.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read route table: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parse route table: %w", err)
	}

	defaults := DefaultTable()
	if len(t.Public) == 0 {
		t.Public = defaults.Public
	}
	if len(t.AdminOnly) == 0 {
		t.AdminOnly = defaults.AdminOnly
	}
	return t, nil
}
