package sessioncookie_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextspace/sessionkit/pkg/cookie"
	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

const testSecret = "this-is-a-very-long-secret-key-32-chars-long"

func newTestCodec(t *testing.T, opts ...sessioncookie.CodecOption) *sessioncookie.Codec {
	t.Helper()
	mgr, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return sessioncookie.NewCodec(mgr, opts...)
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	codec := newTestCodec(t, sessioncookie.WithClock(func() time.Time { return now }))

	token, err := codec.Encode(sessioncookie.Payload{
		Access:   "access-token",
		Refresh:  "refresh-token",
		UserID:   "user-1",
		AuthType: sessioncookie.AuthTypeGuest,
	}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := codec.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "access-token", payload.Access)
	assert.Equal(t, "refresh-token", payload.Refresh)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, sessioncookie.AuthTypeGuest, payload.AuthType)
	assert.Equal(t, sessioncookie.Version, payload.Version)
	assert.Equal(t, "user-1", payload.Subject, "subject defaults to userId")
	assert.Equal(t, now.Unix(), payload.IssuedAt)
	assert.Equal(t, now.Add(time.Hour).Unix(), payload.ExpiresAt)
}

func TestCodec_EmptyTokenShortCircuits(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	_, err := codec.Decode("")
	assert.ErrorIs(t, err, sessioncookie.ErrNoToken)
}

func TestCodec_TamperedToken(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	token, err := codec.Encode(sessioncookie.Payload{
		Access:   "a",
		Refresh:  "r",
		UserID:   "u",
		AuthType: sessioncookie.AuthTypeUser,
	}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(token[:len(token)-4] + "AAAA")
	assert.ErrorIs(t, err, sessioncookie.ErrDecryptFailed)

	_, err = codec.Decode("garbage")
	assert.ErrorIs(t, err, sessioncookie.ErrDecryptFailed)
}

func TestCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	token, err := codec.Encode(sessioncookie.Payload{
		Access:   "a",
		Refresh:  "r",
		UserID:   "u",
		AuthType: sessioncookie.AuthTypeUser,
	}, time.Hour)
	require.NoError(t, err)

	other, err := cookie.New([]string{"another-totally-different-secret-32-chars!!"})
	require.NoError(t, err)

	_, err = sessioncookie.NewCodec(other).Decode(token)
	assert.ErrorIs(t, err, sessioncookie.ErrDecryptFailed)
}

func TestCodec_ExplicitSubjectPreserved(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	token, err := codec.Encode(sessioncookie.Payload{
		Access:   "a",
		Refresh:  "r",
		UserID:   "user-1",
		AuthType: sessioncookie.AuthTypeGuest,
		Subject:  "brave-falcon-1a2b3c",
	}, time.Hour)
	require.NoError(t, err)

	payload, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "brave-falcon-1a2b3c", payload.Subject)
}
