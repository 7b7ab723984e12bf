package authgate

import (
	"context"

	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

// Header carries the derived trust tier to downstream consumers.
const Header = "X-Auth-Type"

// Identity is what the gate derived from the cookie for this request.
type Identity struct {
	Tier    sessioncookie.AuthType
	UserID  string
	Subject string
}

type contextKey struct{}

func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request identity. Requests that never passed
// the gate read back as guest.
func FromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{Tier: sessioncookie.AuthTypeGuest}
	}
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok {
		return Identity{Tier: sessioncookie.AuthTypeGuest}
	}
	return id
}
