package apiclient

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nextspace/sessionkit/pkg/identity"
)

// DefaultExpiryBuffer is how close to expiry the cached token may get
// before a request proactively refreshes instead of racing the deadline.
const DefaultExpiryBuffer = time.Minute

// maxBodySize caps how much of a response the boundary buffers.
const maxBodySize = 4 << 20

// Session is the slice of the session manager the boundary needs.
type Session interface {
	Tokens() identity.TokenPair
	ExpiresAt() time.Time
	RefreshNow(ctx context.Context) (identity.Credentials, error)
}

// Client is the auto-authenticating request wrapper. Every outbound call
// gets a fresh bearer token, a proactive refresh when that token is near
// expiry, and exactly one refresh-and-retry on an unauthorized response.
type Client struct {
	http         *http.Client
	session      Session
	onTeardown   func()
	expiryBuffer time.Duration
	log          *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithExpiryBuffer overrides the proactive-refresh window.
func WithExpiryBuffer(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.expiryBuffer = d
		}
	}
}

// WithTeardown sets the hook invoked when the credential is terminally
// rejected; the composition root wires session clearing and redirect here.
func WithTeardown(fn func()) Option {
	return func(c *Client) { c.onTeardown = fn }
}

func New(session Session, log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		http:         &http.Client{Timeout: 30 * time.Second},
		session:      session,
		expiryBuffer: DefaultExpiryBuffer,
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes the request through the auth boundary and returns a tagged
// Result. The request body, if any, must be rewindable via GetBody for
// the single retry to work.
func (c *Client) Do(ctx context.Context, req *http.Request) Result {
	// Refresh ahead of a deadline we already know we'd miss. A transient
	// failure here is tolerable; the request may still succeed on the
	// stale token, and the 401 path below covers the rest.
	if expiresAt := c.session.ExpiresAt(); !expiresAt.IsZero() && time.Until(expiresAt) <= c.expiryBuffer {
		if _, err := c.session.RefreshNow(ctx); err != nil {
			c.log.Debug("proactive refresh before request failed", slog.Any("error", err))
		}
	}

	status, body, err := c.issue(ctx, req)
	if err != nil {
		return Fail(err)
	}

	if !IsUnauthorized(status, body) {
		return Ok(status, body)
	}

	// Exactly one refresh-and-retry; a permanently invalid credential
	// must not loop.
	if _, err := c.session.RefreshNow(ctx); err != nil {
		c.teardown()
		return Unauthorized()
	}

	status, body, err = c.issue(ctx, req)
	if err != nil {
		return Fail(err)
	}
	if IsUnauthorized(status, body) {
		c.teardown()
		return Unauthorized()
	}

	return Ok(status, body)
}

func (c *Client) issue(ctx context.Context, req *http.Request) (int, []byte, error) {
	attempt := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return 0, nil, err
		}
		attempt.Body = body
	}

	// Token is re-read per attempt so a retry carries the rotated token,
	// not the one captured before the refresh.
	if access := c.session.Tokens().Access; access != "" {
		attempt.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(attempt)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}

func (c *Client) teardown() {
	if c.onTeardown != nil {
		c.onTeardown()
	}
}

// NewJSONRequest builds a request whose body can be replayed on retry.
func NewJSONRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
