// Package realtime exposes the event hub over HTTP: an SSE stream per
// channel for subscribers and a publish endpoint for emitters, both
// authenticated with the caller's bearer token on every operation.
package realtime
