// Package redis connects the application to Redis: a Connect helper that
// retries until the server is ready, env-driven configuration, and a
// healthcheck usable as a readiness probe. The refresh-token store of the
// identity service rides on the client this package hands out.
package redis
