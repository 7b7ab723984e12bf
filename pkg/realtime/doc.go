// Package realtime provides the authenticated realtime channel: a
// non-blocking in-memory hub that verifies an access token on every join
// and emit, and an AuthChannel client helper that re-reads the current
// token at emit time rather than reusing the one captured at connect.
//
// The hub acknowledges every operation. When the acknowledgment carries
// an authentication error, AuthChannel refreshes the session once,
// substitutes the rotated token into any join arguments that embedded
// the old one, and retries exactly once.
package realtime
