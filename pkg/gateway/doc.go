// Package gateway is the HTTP surface of the operator console. It exposes
// session endpoints (login, logout, signup, session state), proxies
// backend API calls through the authenticated client, and guards console
// pages behind the session and route policy.
package gateway
