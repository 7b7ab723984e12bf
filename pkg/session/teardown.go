package session

import (
	"context"
	"log/slog"
)

// NewTeardown returns the hook the request boundary invokes when a
// credential is terminally rejected: the in-memory session and the cookie
// are both cleared, so the next navigation starts unauthenticated instead
// of replaying the dead token.
func NewTeardown(m *Manager, log *slog.Logger) func() {
	if log == nil {
		log = slog.Default()
	}
	return func() {
		m.Clear()
		if err := m.cookies.Clear(context.Background()); err != nil {
			log.Error("failed to clear session cookie on teardown", slog.Any("error", err))
		}
	}
}
