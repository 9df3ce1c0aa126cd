// Package session manages the console's authentication session.
//
// # Overview
//
// The session is the one piece of real state in the console: an in-memory
// access token, an identity snapshot, and a status that moves through
// Loading into Authenticated or Unauthenticated and never renders a
// protected view in between.
//
// Components:
//
//   - TokenStore: single source of truth for the access token, memory only.
//     A process restart loses the token on purpose; renewal reconstructs it
//     from the HTTP-only refresh cookie.
//   - Coordinator: exchanges the refresh cookie for a new access token.
//     Concurrent callers coalesce on a single in-flight refresh, so a
//     request-triggered refresh and a scheduled renewal can never race each
//     other's writes.
//   - Manager: drives the state machine. Public paths settle without
//     touching the network; protected paths refresh, fetch the profile, and
//     settle on the outcome. Logout is unconditionally terminal.
//   - Renewer: re-runs refresh plus profile fetch on a fixed interval while
//     a token is present so the session survives long editing sessions.
//
// Session-level failures are absorbed into state transitions; nothing in
// this package panics or propagates a fatal error. The worst outcome is an
// Unauthenticated session and a redirect to login.
package session
