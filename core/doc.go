// Package core holds the HTTP response plumbing shared by the session
// module's handlers: a Response interface rendered into the
// ResponseWriter, JSON success/error envelopes, typed HTTP errors, and
// redirect responses.
package core
