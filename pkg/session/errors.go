package session

import "errors"

var (
	// ErrRegistrationFailed wraps a guest-session creation failure. The
	// manager stays in StateReady, which is retryable, unlike StateCleared.
	ErrRegistrationFailed = errors.New("session.registration_failed")
)
