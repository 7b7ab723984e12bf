package sessioncookie

import (
	"encoding/json"
	"errors"
	"time"
)

// Sealer is the symmetric authenticated-encryption seam the codec rides on.
// cookie.Manager satisfies it.
type Sealer interface {
	Encrypt(value string) (string, error)
	Decrypt(encrypted string) (string, error)
}

// Codec turns a Payload into an opaque encrypted token and back.
type Codec struct {
	sealer Sealer
	now    func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock overrides the codec's time source, used by tests to pin claim
// timestamps.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCodec(sealer Sealer, opts ...CodecOption) *Codec {
	c := &Codec{
		sealer: sealer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode stamps the temporal claims from ttl, fills in the schema version
// and subject, and seals the payload into an opaque token.
func (c *Codec) Encode(p Payload, ttl time.Duration) (string, error) {
	now := c.now()

	if p.Version == "" {
		p.Version = Version
	}
	if p.Subject == "" {
		p.Subject = p.UserID
	}
	p.IssuedAt = now.Unix()
	p.ExpiresAt = now.Add(ttl).Unix()

	claims, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	return c.sealer.Encrypt(string(claims))
}

// Decode opens a token and unmarshals the payload. An empty token
// short-circuits with ErrNoToken before touching the cipher; tampering,
// a wrong secret or malformed claims all collapse into ErrDecryptFailed.
func (c *Codec) Decode(token string) (*Payload, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	claims, err := c.sealer.Decrypt(token)
	if err != nil {
		return nil, errors.Join(ErrDecryptFailed, err)
	}

	var p Payload
	if err := json.Unmarshal([]byte(claims), &p); err != nil {
		return nil, errors.Join(ErrDecryptFailed, err)
	}

	return &p, nil
}
