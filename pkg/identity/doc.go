// Package identity defines the authenticated user snapshot and the closed
// set of console roles.
//
// A User is fetched from the backend once per session establishment and
// replaced wholesale on every successful profile fetch. Payloads are
// validated at the wire boundary so malformed responses are rejected with a
// typed error instead of propagating zero values into session state.
package identity
