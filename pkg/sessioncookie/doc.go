// Package sessioncookie defines the encrypted session cookie: its payload
// shape, the codec that seals it into an opaque token, the structural
// validator, and the HTTP store that binds it to a named cookie.
//
// The cookie is the single persistent source of truth for a session. The
// payload carries the bearer token pair, the stable user identity and the
// trust tier (guest, user or admin), plus a schema version and standard
// temporal claims. Everything that reads or writes session state goes
// through the Codec, so swapping the cookie for server-side session
// storage later only touches this seam.
//
// Validation is total and ordered: the first failing check produces the
// reason, so a given payload always yields the same deterministic error.
// A version mismatch rejects the cookie outright rather than half-trusting
// a stale shape; the user re-authenticates cleanly instead of crashing
// deeper in the stack.
package sessioncookie
