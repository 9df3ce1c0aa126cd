// Package async provides panic-safe goroutine helpers for background
// work that must never take the console down with it.
package async
