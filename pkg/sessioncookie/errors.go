package sessioncookie

import "errors"

var (
	// ErrNoToken indicates an absent or empty token was handed to the codec.
	// Callers should treat this as "no session", not as a failure.
	ErrNoToken = errors.New("sessioncookie.no_token")

	// ErrNoSession indicates the request carries no session cookie at all.
	ErrNoSession = errors.New("sessioncookie.no_session")

	// ErrDecryptFailed indicates tampering, a wrong secret or malformed input.
	ErrDecryptFailed = errors.New("sessioncookie.decrypt_failed")
)

// ValidationError carries the first failing structural check of a decoded
// payload. The reason is for server-side logs only and is never shown to
// the user.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "sessioncookie.invalid: " + e.Reason
}
