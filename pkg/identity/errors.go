package identity

import "errors"

var (
	// ErrUnauthorized indicates the upstream rejected the credential
	// (unknown, expired or already-used refresh token). Terminal for the
	// session holding it.
	ErrUnauthorized = errors.New("identity.unauthorized")

	// ErrUnavailable indicates a transient transport or upstream failure.
	ErrUnavailable = errors.New("identity.unavailable")

	// ErrTokenNotFound indicates the refresh token is absent from the store.
	ErrTokenNotFound = errors.New("identity.token_not_found")

	// ErrMissingSecret indicates the service was built without a signing key.
	ErrMissingSecret = errors.New("identity.missing_secret")
)
