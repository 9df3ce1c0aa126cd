package routes

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/inkwell-press/console/pkg/identity"
)

// decisionCacheSize bounds the (path, role) decision cache. The console's
// route surface is tiny; 256 entries covers it with room for query-less
// detail pages.
const decisionCacheSize = 256

// Set answers classification and role-policy questions for console paths.
// It is safe for concurrent use; Reload swaps the table atomically.
type Set struct {
	mu    sync.RWMutex
	table Table
	cache *lru.Cache[string, bool]
}

// NewSet creates a route set from the given table.
func NewSet(table Table) *Set {
	cache, _ := lru.New[string, bool](decisionCacheSize)
	return &Set{table: table, cache: cache}
}

// IsPublic reports whether the path renders without a session.
func (s *Set) IsPublic(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return hasPrefix(s.table.Public, path)
}

// RequiresAdmin reports whether the path is restricted to admins.
func (s *Set) RequiresAdmin(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return hasPrefix(s.table.AdminOnly, path)
}

// Allow decides whether a role may view a protected path. Public paths are
// always allowed. An empty or unknown role is always denied on protected
// paths.
func (s *Set) Allow(path string, role identity.Role) bool {
	key := path + "|" + string(role)
	if allowed, ok := s.cache.Get(key); ok {
		return allowed
	}

	allowed := s.decide(path, role)
	s.cache.Add(key, allowed)
	return allowed
}

func (s *Set) decide(path string, role identity.Role) bool {
	if s.IsPublic(path) {
		return true
	}
	if !role.Valid() {
		return false
	}
	if s.RequiresAdmin(path) {
		return role == identity.RoleAdmin
	}
	return true
}

// Reload swaps in a new table and drops cached decisions.
func (s *Set) Reload(table Table) {
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	s.cache.Purge()
}

// Snapshot returns a copy of the current table.
func (s *Set) Snapshot() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := Table{
		Public:    append([]string(nil), s.table.Public...),
		AdminOnly: append([]string(nil), s.table.AdminOnly...),
	}
	return t
}

func hasPrefix(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
