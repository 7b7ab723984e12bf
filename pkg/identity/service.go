package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nextspace/sessionkit/pkg/randomname"
)

// AccessClaims are the claims minted into access tokens.
type AccessClaims struct {
	Username string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Service is an in-process identity provider. It mints HS256 access tokens
// and opaque refresh tokens, rotating the refresh token on every use.
type Service struct {
	secret     []byte
	store      TokenStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceClock overrides the time source, used by tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(cfg Config, store TokenStore, opts ...ServiceOption) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = DefaultConfig().AccessTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = DefaultConfig().RefreshTTL
	}

	s := &Service{
		secret:     []byte(cfg.Secret),
		store:      store,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IssueIdentity mints a pseudonymous identity: a fresh user ID paired with
// a generated display name.
func (s *Service) IssueIdentity(_ context.Context) (Identity, error) {
	return Identity{
		UserID:   uuid.NewString(),
		Username: randomname.Generate(),
	}, nil
}

// Register exchanges an identity for its first token pair.
func (s *Service) Register(ctx context.Context, id Identity) (Credentials, error) {
	return s.issue(ctx, RefreshRecord{UserID: id.UserID, Username: id.Username})
}

// Refresh rotates a token pair. The store claims the presented refresh
// token atomically, so a reused or concurrent duplicate gets
// ErrUnauthorized instead of a second live pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Credentials, error) {
	rec, err := s.store.Take(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Credentials{}, ErrUnauthorized
		}
		return Credentials{}, errors.Join(ErrUnavailable, err)
	}

	return s.issue(ctx, rec)
}

// Revoke invalidates a refresh token, e.g. on logout.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	return s.store.Revoke(ctx, refreshToken)
}

// VerifyAccess parses and verifies an access token minted by this service.
func (s *Service) VerifyAccess(token string) (Identity, error) {
	var claims AccessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrUnauthorized
	}

	return Identity{UserID: claims.Subject, Username: claims.Username}, nil
}

func (s *Service) issue(ctx context.Context, rec RefreshRecord) (Credentials, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)

	claims := AccessClaims{
		Username: rec.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Credentials{}, err
	}

	refresh, err := generateRefreshToken()
	if err != nil {
		return Credentials{}, err
	}

	if err := s.store.Put(ctx, refresh, rec, s.refreshTTL); err != nil {
		return Credentials{}, errors.Join(ErrUnavailable, err)
	}

	return Credentials{
		TokenPair: TokenPair{Access: access, Refresh: refresh},
		ExpiresAt: expiresAt,
	}, nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
