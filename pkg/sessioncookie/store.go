package sessioncookie

import (
	"net/http"
	"time"

	"github.com/nextspace/sessionkit/pkg/cookie"
)

// Store binds the codec to a named HTTP cookie. All reads and writes of
// the session cookie in this module go through it.
type Store struct {
	codec   *Codec
	cookies *cookie.Manager
	name    string
	secure  bool
}

func NewStore(codec *Codec, cookies *cookie.Manager, cfg Config) *Store {
	name := cfg.Name
	if name == "" {
		name = DefaultConfig().Name
	}
	return &Store{
		codec:   codec,
		cookies: cookies,
		name:    name,
		secure:  cfg.Secure,
	}
}

// Name returns the cookie name the store operates on.
func (s *Store) Name() string {
	return s.name
}

// Read performs a single read-decrypt-validate of the request's session
// cookie. The cookie value is read exactly once per call, so one gate
// decision can never mix two concurrent cookie states.
//
// Returns ErrNoSession when no cookie is present, ErrDecryptFailed on a
// tampered or stale-key cookie, and ValidationError when the decrypted
// payload fails a structural check.
func (s *Store) Read(r *http.Request) (*Payload, error) {
	token, err := s.cookies.Get(r, s.name)
	if err != nil {
		return nil, ErrNoSession
	}

	payload, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	if result := Validate(payload); !result.Valid {
		return nil, ValidationError{Reason: result.Reason}
	}

	return payload, nil
}

// Write seals the payload and sets the cookie. Max-Age tracks the ttl the
// claims were stamped with, so the browser drops the cookie together with
// the payload's own expiry.
func (s *Store) Write(w http.ResponseWriter, p Payload, ttl time.Duration) error {
	token, err := s.codec.Encode(p, ttl)
	if err != nil {
		return err
	}

	// The codec already sealed the token, so it is written as a plain value.
	s.cookies.Set(w, s.name, token,
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithSecure(s.secure),
		cookie.WithMaxAge(int(ttl.Seconds())),
	)
	return nil
}

// Clear expires the cookie immediately in the response.
func (s *Store) Clear(w http.ResponseWriter) {
	s.cookies.Delete(w, s.name)
}
