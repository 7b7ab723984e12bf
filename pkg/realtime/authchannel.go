package realtime

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/nextspace/sessionkit/pkg/identity"
)

// Session is the slice of the session manager the channel client needs.
type Session interface {
	Tokens() identity.TokenPair
	RefreshNow(ctx context.Context) (identity.Credentials, error)
}

// Channel is the transport the AuthChannel speaks to. *Hub satisfies it
// directly for in-process use.
type Channel interface {
	Join(ctx context.Context, channel, token string, args map[string]any) (*Subscriber, Ack)
	Emit(ctx context.Context, token string, ev Event) Ack
}

// AuthChannel wraps a Channel with the session's credentials. The access
// token is re-read from the session immediately before every operation
// rather than captured once at connect time, so a token rotated by an
// HTTP-side refresh is picked up without reconnecting. When the hub acks
// with an authentication error, the session is refreshed and the
// operation retried exactly once, with the rotated token substituted
// into any join arguments that embedded the old one.
type AuthChannel struct {
	channel Channel
	session Session
	log     *slog.Logger
}

func NewAuthChannel(channel Channel, session Session, log *slog.Logger) *AuthChannel {
	if log == nil {
		log = slog.Default()
	}
	return &AuthChannel{channel: channel, session: session, log: log}
}

// Join joins the named channel with a freshly read token. If args carries
// a "token" entry it is overwritten with the same fresh value.
func (c *AuthChannel) Join(ctx context.Context, channel string, args map[string]any) (*Subscriber, Ack) {
	sub, ack := c.channel.Join(ctx, channel, c.freshToken(), c.stampArgs(args))
	if !ack.AuthFailed() {
		return sub, ack
	}

	if !c.refresh(ctx, channel) {
		return nil, ack
	}

	return c.channel.Join(ctx, channel, c.freshToken(), c.stampArgs(args))
}

// Emit publishes an event with a freshly read token, refreshing and
// retrying once on an auth-failure ack.
func (c *AuthChannel) Emit(ctx context.Context, ev Event) Ack {
	ack := c.channel.Emit(ctx, c.freshToken(), ev)
	if !ack.AuthFailed() {
		return ack
	}

	if !c.refresh(ctx, ev.Channel) {
		return ack
	}

	return c.channel.Emit(ctx, c.freshToken(), ev)
}

func (c *AuthChannel) refresh(ctx context.Context, channel string) bool {
	start := time.Now()
	if _, err := c.session.RefreshNow(ctx); err != nil {
		c.log.WarnContext(ctx, "channel auth refresh failed",
			slog.String("channel", channel), slog.Any("error", err))
		return false
	}
	c.log.DebugContext(ctx, "channel auth refreshed",
		slog.String("channel", channel),
		slog.Duration("took", time.Since(start)))
	return true
}

func (c *AuthChannel) freshToken() string {
	return c.session.Tokens().Access
}

// stampArgs returns a copy of args with the token entry, if any, replaced
// by the current one. The caller's map is never mutated.
func (c *AuthChannel) stampArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := maps.Clone(args)
	if _, ok := out["token"]; ok {
		out["token"] = c.freshToken()
	}
	return out
}
