package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// VerifyFunc checks an access token and returns an error if it is
// invalid. The hub calls it on every join and every emit so a token that
// expired mid-connection is caught at the next operation, not at the
// next reconnect.
type VerifyFunc func(token string) error

// Event is a message delivered on a channel.
type Event struct {
	Channel string
	Name    string
	Payload any
}

// Subscriber receives events for the channels it joined. Sends are
// non-blocking; a subscriber that stops draining loses messages rather
// than stalling the hub.
type Subscriber struct {
	ID uuid.UUID

	ch     chan Event
	mu     sync.RWMutex
	closed bool
}

// Receive returns the subscriber's event channel. It is closed when the
// subscriber leaves or the hub shuts down.
func (s *Subscriber) Receive() <-chan Event {
	return s.ch
}

// Close is idempotent.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *Subscriber) send(ev Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// Hub is a token-gated in-memory broadcaster. All methods are safe for
// concurrent use.
type Hub struct {
	verify     VerifyFunc
	bufferSize int
	log        *slog.Logger

	mu       sync.RWMutex
	channels map[string]map[*Subscriber]struct{}
	closed   bool
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithBufferSize sets the per-subscriber event buffer. Minimum of 1 is
// enforced so sends stay non-blocking.
func WithBufferSize(n int) HubOption {
	return func(h *Hub) { h.bufferSize = max(n, 1) }
}

// NewHub panics on a nil verify func: an unverified hub would silently
// serve every caller, which is never what the perimeter wants.
func NewHub(verify VerifyFunc, log *slog.Logger, opts ...HubOption) *Hub {
	if verify == nil {
		panic("realtime: nil verify func")
	}
	if log == nil {
		log = slog.Default()
	}
	h := &Hub{
		verify:     verify,
		bufferSize: 16,
		log:        log,
		channels:   make(map[string]map[*Subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Join verifies the token and attaches a new subscriber to the channel.
// If the join arguments embed a token of their own it is verified too, so
// a caller that refreshed its bearer token but forgot to substitute the
// new value into the arguments is rejected instead of half-authenticated.
// The subscription is cleaned up when ctx is cancelled.
func (h *Hub) Join(ctx context.Context, channel, token string, args map[string]any) (*Subscriber, Ack) {
	if err := h.verify(token); err != nil {
		h.log.DebugContext(ctx, "join rejected",
			slog.String("channel", channel), slog.Any("error", err))
		return nil, ackUnauthorized()
	}
	if embedded, ok := args["token"].(string); ok {
		if err := h.verify(embedded); err != nil {
			h.log.DebugContext(ctx, "join rejected: stale token in args",
				slog.String("channel", channel))
			return nil, ackUnauthorized()
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ackErr(ErrHubClosed.Error())
	}

	sub := &Subscriber{
		ID: uuid.New(),
		ch: make(chan Event, h.bufferSize),
	}
	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*Subscriber]struct{})
	}
	h.channels[channel][sub] = struct{}{}

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			h.leave(channel, sub)
		}()
	}

	return sub, ackOK()
}

// Emit verifies the token and delivers the event to every subscriber of
// its channel. Slow subscribers are dropped from the channel.
func (h *Hub) Emit(ctx context.Context, token string, ev Event) Ack {
	if err := h.verify(token); err != nil {
		h.log.DebugContext(ctx, "emit rejected",
			slog.String("channel", ev.Channel), slog.Any("error", err))
		return ackUnauthorized()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ackErr(ErrHubClosed.Error())
	}

	for sub := range h.channels[ev.Channel] {
		if !sub.send(ev) {
			go h.leave(ev.Channel, sub)
		}
	}

	return ackOK()
}

// Close shuts down the hub and closes every subscriber.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	for _, subs := range h.channels {
		for sub := range subs {
			_ = sub.Close()
		}
	}
	clear(h.channels)

	return nil
}

func (h *Hub) leave(channel string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.channels[channel]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.channels, channel)
		}
	}
	_ = sub.Close()
}
