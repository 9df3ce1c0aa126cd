// Package httputil provides handler utilities for consistent error
// handling, JSON encoding/decoding, and request parsing in the console
// gateway.
package httputil
