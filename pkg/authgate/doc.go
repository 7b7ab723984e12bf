// Package authgate is the edge authorization gate: per-request middleware
// that reads the session cookie exactly once, validates it, derives the
// caller's trust tier, and gates access to the privileged route prefix.
//
// The tier travels two ways: as the X-Auth-Type request header for
// downstream rendering and as a context value for handlers. Invalid
// cookies are expired in the response and the caller continues as an
// unauthenticated guest, except inside the privileged prefix where they
// are redirected to signup. Any panic inside the gate is caught and
// logged, and the request degrades to the unauthenticated path rather
// than failing the navigation.
package authgate
