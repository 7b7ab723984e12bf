// Package httpserver wraps http.Server with graceful shutdown tied to
// context cancellation and OS signals, env-driven configuration, and a
// health endpoint usable for both liveness and readiness probes.
package httpserver
