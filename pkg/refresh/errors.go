package refresh

import "errors"

var (
	// ErrStopped indicates the coordinator was stopped and will not refresh.
	ErrStopped = errors.New("refresh.stopped")

	// ErrNoRefreshToken indicates there is no refresh token to present.
	ErrNoRefreshToken = errors.New("refresh.no_refresh_token")
)
