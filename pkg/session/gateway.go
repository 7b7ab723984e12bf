package session

import (
	"context"
	"errors"

	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

// CookieGateway is the cookie-read/write collaborator the manager restores
// from and persists to. In the deployed application it fronts the
// session-cookie HTTP surface; tests use an in-memory implementation.
type CookieGateway interface {
	// Current returns the present, valid session payload, or (nil, nil)
	// when there is none. Invalid cookies are reported as absent; the
	// gateway is expected to have cleared them.
	Current(ctx context.Context) (*sessioncookie.Payload, error)

	// Save persists the payload as the session cookie, replacing any
	// previous value under the same name.
	Save(ctx context.Context, p sessioncookie.Payload) error

	// Clear expires the session cookie.
	Clear(ctx context.Context) error
}

// gatewayAbsent normalizes "no session" gateway results.
func gatewayAbsent(p *sessioncookie.Payload, err error) (bool, error) {
	if err != nil {
		if errors.Is(err, sessioncookie.ErrNoSession) || errors.Is(err, sessioncookie.ErrNoToken) {
			return true, nil
		}
		return false, err
	}
	return p == nil, nil
}
