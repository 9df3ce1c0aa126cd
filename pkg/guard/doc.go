// Package guard decides whether a request may reach a protected page.
//
// Evaluate is a pure function over the current session snapshot and the
// route policy; Middleware adapts it to net/http, bootstrapping the
// session for the requested path before deciding. The guard itself never
// talks to the backend.
package guard
