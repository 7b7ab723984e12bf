// Package apiclient is the request boundary every outbound call funnels
// through. It detects the three ways the heterogeneous upstream signals
// "unauthorized" (transport 401, a semantic error body under a 2xx status,
// and the same shape nested one level inside a success envelope), folds
// them into a single tagged Result at the point where the transport
// response is first interpreted, and applies the refresh policy: refresh
// proactively when the cached token is close to expiry, and on an
// unauthorized response refresh and retry exactly once.
//
// The one-retry cap is deliberate: unbounded retry-on-401 against a
// permanently invalid credential is an infinite loop. When the retry also
// fails the boundary tears the session down and reports Unauthorized; it
// never pretends success.
//
// UnauthorizedHandler completes that teardown for the user: it expires the
// session cookie, records a notice in its own short-lived cookie, and
// schedules a delayed navigation to the sign-in target.
package apiclient
