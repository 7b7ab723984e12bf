// Package refresh keeps an access token alive by refreshing it ahead of
// expiry, without ever issuing duplicate concurrent refresh calls.
//
// The Coordinator owns a single scheduled handle keyed to the token's
// expiry minus a threshold. Overlapping triggers (the timer firing while a
// request-driven refresh is already underway) collapse into one upstream
// round-trip; this matters because the upstream invalidates the old
// refresh token on use, so a duplicate call would race and leave one
// caller holding a rejected token.
//
// Outcome handling follows the credential semantics: an unauthorized
// response means the refresh token itself is dead, so the whole session is
// torn down and scheduling stops; a transient failure is logged and the
// stale token left in place for the next trigger to retry.
package refresh
