package identity

import (
	"context"
	"time"
)

// RefreshRecord is what a live refresh token resolves to.
type RefreshRecord struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// TokenStore holds live refresh tokens. Take must claim atomically: of any
// concurrent Take calls for the same token exactly one receives the record
// and the rest get ErrTokenNotFound. That single-winner property is what
// makes refresh rotation safe under concurrent callers.
type TokenStore interface {
	Put(ctx context.Context, token string, rec RefreshRecord, ttl time.Duration) error
	Take(ctx context.Context, token string) (RefreshRecord, error)
	Revoke(ctx context.Context, token string) error
}
