package identity

import (
	"context"
	"time"
)

// Identity is a pseudonymous or registered principal known to the upstream.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// TokenPair is a bearer access/refresh credential pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Credentials couples a token pair with the access token's expiry, which
// drives proactive refresh scheduling.
type Credentials struct {
	TokenPair
	ExpiresAt time.Time `json:"expiresAt"`
}

// Client is the identity/auth upstream seam the session core depends on.
type Client interface {
	// IssueIdentity mints a new pseudonymous identity.
	IssueIdentity(ctx context.Context) (Identity, error)

	// Register exchanges an identity for its first token pair.
	Register(ctx context.Context, id Identity) (Credentials, error)

	// Refresh rotates a token pair given the refresh token. Returns
	// ErrUnauthorized when the refresh token is rejected; any other error
	// is transient.
	Refresh(ctx context.Context, refreshToken string) (Credentials, error)
}
