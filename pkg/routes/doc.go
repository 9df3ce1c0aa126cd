// Package routes classifies console paths and decides role-based access.
//
// # Classification
//
// A path is either public (reachable without a session) or protected.
// Classification is a pure prefix check against a small allow-list; it is
// used to suppress refresh attempts and error logging on routes that must
// render for anonymous visitors.
//
// # Role policy
//
// Allow maps (path, role) to an allow/deny decision: admin-only prefixes
// require identity.RoleAdmin, every other protected path accepts any known
// role. Decisions are cached in a small LRU since the gateway evaluates the
// same (path, role) pairs on every request.
//
// # Route table
//
// The prefix lists ship with defaults matching the backend and can be
// overridden by a YAML file:
//
//	public:
//	  - /login
//	  - /signup
//	admin_only:
//	  - /admin/settings
//
// Watch reloads the table when the file changes; a file that fails to parse
// keeps the last good table.
package routes
