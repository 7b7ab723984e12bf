// Package requestid attaches a correlation ID to every HTTP request. A
// client-supplied X-Request-ID is validated and reused; anything missing
// or malformed is replaced with a fresh UUID. The ID is echoed in the
// response header, stored in the request context, and exposed as a slog
// attribute for log correlation.
package requestid
