package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nextspace/sessionkit/pkg/identity"
)

// DefaultThreshold is how long before expiry a proactive refresh fires.
const DefaultThreshold = 5 * time.Minute

// Func performs one upstream refresh round-trip.
type Func func(ctx context.Context) (identity.Credentials, error)

// Hooks receive refresh outcomes. OnSuccess gets the rotated credentials;
// OnUnauthorized fires when the refresh token itself was rejected and the
// session must be torn down.
type Hooks struct {
	OnSuccess      func(identity.Credentials)
	OnUnauthorized func()
}

// Coordinator schedules proactive refreshes and deduplicates concurrent
// refresh attempts into a single upstream call.
type Coordinator struct {
	refresh   Func
	hooks     Hooks
	threshold time.Duration
	log       *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithThreshold overrides how long before expiry the proactive refresh fires.
func WithThreshold(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.threshold = d
		}
	}
}

func NewCoordinator(refresh Func, hooks Hooks, log *slog.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	c := &Coordinator{
		refresh:   refresh,
		hooks:     hooks,
		threshold: DefaultThreshold,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule cancels any pending timer and arms a new one keyed to
// expiresAt minus the threshold. A delay at or below zero refreshes
// immediately instead of scheduling.
func (c *Coordinator) Schedule(expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	c.cancelTimerLocked()

	delay := time.Until(expiresAt.Add(-c.threshold))
	if delay <= 0 {
		// Already within the threshold; don't wait for a timer tick.
		go c.fire()
		return
	}

	c.timer = time.AfterFunc(delay, c.fire)
}

// Trigger requests a refresh now. Concurrent callers collapse into one
// upstream call and all receive its result, so no two refresh calls for
// the same token pair are ever outstanding simultaneously.
func (c *Coordinator) Trigger(ctx context.Context) (identity.Credentials, error) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return identity.Credentials{}, ErrStopped
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("refresh", func() (any, error) {
		creds, err := c.refresh(ctx)
		if err != nil {
			return identity.Credentials{}, err
		}
		return creds, nil
	})
	if err != nil {
		c.handleFailure(err)
		return identity.Credentials{}, err
	}

	creds := v.(identity.Credentials)
	c.handleSuccess(creds)
	return creds, nil
}

// Stop cancels the pending timer. A timer that already fired becomes a
// no-op. The coordinator cannot be rearmed afterwards; session clear and
// tab teardown both end scheduling for good.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.cancelTimerLocked()
}

// Stopped reports whether the coordinator has been stopped.
func (c *Coordinator) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Trigger routes both success and failure through the hooks.
	_, _ = c.Trigger(context.Background())
}

func (c *Coordinator) handleSuccess(creds identity.Credentials) {
	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()

	// A late response landing after Stop must not resurrect the session.
	if stopped {
		return
	}

	if c.hooks.OnSuccess != nil {
		c.hooks.OnSuccess(creds)
	}
	c.Schedule(creds.ExpiresAt)
}

func (c *Coordinator) handleFailure(err error) {
	if errors.Is(err, identity.ErrUnauthorized) {
		c.log.Warn("refresh token rejected, tearing down session", slog.Any("error", err))
		c.Stop()
		if c.hooks.OnUnauthorized != nil {
			c.hooks.OnUnauthorized()
		}
		return
	}

	// Transient: keep the stale token, the next trigger retries.
	c.log.Error("token refresh failed", slog.Any("error", err))
}

func (c *Coordinator) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
