// Package identity talks to the identity/auth upstream: issuing
// pseudonymous identities, registering them for a bearer token pair, and
// refreshing a token pair given a refresh token.
//
// Client is the seam the session core depends on. HTTPClient implements it
// against a remote upstream; Service is an in-process implementation that
// mints HS256 JWTs and rotates refresh tokens on use, backed by a
// pluggable TokenStore (in-memory or Redis).
//
// Refresh-token rotation is single-winner: the store claims a token
// atomically, so of any concurrent refresh calls with the same token
// exactly one succeeds and the rest receive ErrUnauthorized. Callers must
// treat ErrUnauthorized as terminal for the session and everything else
// as transient.
package identity
