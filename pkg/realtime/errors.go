package realtime

import "errors"

var (
	// ErrHubClosed is returned when operating on a closed hub.
	ErrHubClosed = errors.New("realtime.hub_closed")
	// ErrNotJoined is returned when emitting to a channel the subscriber
	// never joined.
	ErrNotJoined = errors.New("realtime.not_joined")
)
