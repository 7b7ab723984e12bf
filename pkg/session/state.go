package session

// State is the session lifecycle state.
type State int

const (
	// StateUninitialized is the boot state before any restore attempt.
	StateUninitialized State = iota
	// StateInitializing means a restore is in flight.
	StateInitializing
	// StateGuest is an active pseudonymous session.
	StateGuest
	// StateAuthenticated is an active logged-in session.
	StateAuthenticated
	// StateReady means restore ran but guest creation failed; unlike
	// StateCleared it can be retried.
	StateReady
	// StateCleared is a torn-down session.
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateGuest:
		return "guest"
	case StateAuthenticated:
		return "authenticated"
	case StateReady:
		return "ready"
	case StateCleared:
		return "cleared"
	}
	return "unknown"
}

// Info identifies the principal behind a live session.
type Info struct {
	UserID   string
	Username string
}
