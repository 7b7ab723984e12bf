package realtime_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextspace/sessionkit/pkg/identity"
	"github.com/nextspace/sessionkit/pkg/realtime"
)

type channelSession struct {
	access    atomic.Value
	rotateTo  string
	refreshes atomic.Int32
	refreshFn func() error
}

func newChannelSession(access string) *channelSession {
	s := &channelSession{}
	s.access.Store(access)
	return s
}

func (s *channelSession) Tokens() identity.TokenPair {
	return identity.TokenPair{Access: s.access.Load().(string), Refresh: "refresh-token"}
}

func (s *channelSession) RefreshNow(ctx context.Context) (identity.Credentials, error) {
	s.refreshes.Add(1)
	if s.refreshFn != nil {
		if err := s.refreshFn(); err != nil {
			return identity.Credentials{}, err
		}
	}
	if s.rotateTo != "" {
		s.access.Store(s.rotateTo)
	}
	return identity.Credentials{
		TokenPair: identity.TokenPair{Access: s.access.Load().(string)},
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

// recordingChannel acks per its valid token and records every attempt.
type recordingChannel struct {
	valid      string
	joinTokens []string
	joinArgs   []map[string]any
	emitTokens []string
}

func (c *recordingChannel) Join(ctx context.Context, channel, token string, args map[string]any) (*realtime.Subscriber, realtime.Ack) {
	c.joinTokens = append(c.joinTokens, token)
	c.joinArgs = append(c.joinArgs, args)
	if token != c.valid {
		return nil, realtime.Ack{Error: "token expired"}
	}
	return &realtime.Subscriber{}, realtime.Ack{OK: true}
}

func (c *recordingChannel) Emit(ctx context.Context, token string, ev realtime.Event) realtime.Ack {
	c.emitTokens = append(c.emitTokens, token)
	if token != c.valid {
		return realtime.Ack{Error: "unauthorized"}
	}
	return realtime.Ack{OK: true}
}

func TestAuthChannel_EmitReadsTokenFreshly(t *testing.T) {
	t.Parallel()

	sess := newChannelSession("first")
	ch := &recordingChannel{valid: "second"}
	ac := realtime.NewAuthChannel(ch, sess, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// The token rotates between construction and emit; the emit must
	// carry the rotated value, not the one present at connect time.
	sess.access.Store("second")

	ack := ac.Emit(context.Background(), realtime.Event{Channel: "event:1", Name: "ping"})
	require.True(t, ack.OK)
	require.Equal(t, []string{"second"}, ch.emitTokens)
	assert.Equal(t, int32(0), sess.refreshes.Load())
}

func TestAuthChannel_EmitRefreshesAndRetriesOnce(t *testing.T) {
	t.Parallel()

	sess := newChannelSession("stale")
	sess.rotateTo = "fresh"
	ch := &recordingChannel{valid: "fresh"}
	ac := realtime.NewAuthChannel(ch, sess, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ack := ac.Emit(context.Background(), realtime.Event{Channel: "event:1", Name: "ping"})
	require.True(t, ack.OK)
	require.Equal(t, []string{"stale", "fresh"}, ch.emitTokens)
	assert.Equal(t, int32(1), sess.refreshes.Load())
}

func TestAuthChannel_EmitRetryCap(t *testing.T) {
	t.Parallel()

	sess := newChannelSession("stale")
	sess.rotateTo = "still-stale"
	ch := &recordingChannel{valid: "never"}
	ac := realtime.NewAuthChannel(ch, sess, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ack := ac.Emit(context.Background(), realtime.Event{Channel: "event:1", Name: "ping"})
	assert.True(t, ack.AuthFailed())
	assert.Len(t, ch.emitTokens, 2, "one attempt plus exactly one retry")
	assert.Equal(t, int32(1), sess.refreshes.Load())
}

func TestAuthChannel_RefreshFailureReturnsOriginalAck(t *testing.T) {
	t.Parallel()

	sess := newChannelSession("stale")
	sess.refreshFn = func() error { return identity.ErrUnauthorized }
	ch := &recordingChannel{valid: "never"}
	ac := realtime.NewAuthChannel(ch, sess, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ack := ac.Emit(context.Background(), realtime.Event{Channel: "event:1", Name: "ping"})
	assert.True(t, ack.AuthFailed())
	assert.Len(t, ch.emitTokens, 1, "no retry when refresh fails")
}

func TestAuthChannel_JoinSubstitutesTokenIntoArgs(t *testing.T) {
	t.Parallel()

	sess := newChannelSession("stale")
	sess.rotateTo = "fresh"
	ch := &recordingChannel{valid: "fresh"}
	ac := realtime.NewAuthChannel(ch, sess, slog.New(slog.NewTextHandler(io.Discard, nil)))

	args := map[string]any{"token": "captured-at-connect", "room": "42"}
	sub, ack := ac.Join(context.Background(), "event:42", args)
	require.True(t, ack.OK)
	require.NotNil(t, sub)

	require.Len(t, ch.joinArgs, 2)
	assert.Equal(t, "stale", ch.joinArgs[0]["token"], "first attempt carries the current token")
	assert.Equal(t, "fresh", ch.joinArgs[1]["token"], "retry substitutes the rotated token")
	assert.Equal(t, "42", ch.joinArgs[1]["room"])
	assert.Equal(t, "captured-at-connect", args["token"], "caller's map is not mutated")
}
