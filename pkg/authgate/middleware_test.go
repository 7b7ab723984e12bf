package authgate_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextspace/sessionkit/pkg/authgate"
	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

type fakeStore struct {
	payload *sessioncookie.Payload
	err     error
	panics  bool
	cleared int
}

func (s *fakeStore) Read(r *http.Request) (*sessioncookie.Payload, error) {
	if s.panics {
		panic("cookie store blew up")
	}
	return s.payload, s.err
}

func (s *fakeStore) Clear(w http.ResponseWriter) { s.cleared++ }

func validPayload(tier sessioncookie.AuthType) *sessioncookie.Payload {
	return &sessioncookie.Payload{
		Access:   "access-token",
		Refresh:  "refresh-token",
		UserID:   "user-1",
		AuthType: tier,
		Version:  sessioncookie.Version,
		Subject:  "brave-falcon-0a1b2c",
	}
}

// serve runs one request through the gate and captures what reached the
// inner handler, if anything.
func serve(t *testing.T, store *fakeStore, path string) (*httptest.ResponseRecorder, *authgate.Identity) {
	t.Helper()

	gate := authgate.New(store, authgate.DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	var seen *authgate.Identity
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := authgate.FromContext(r.Context())
		seen = &id
		assert.Equal(t, string(id.Tier), r.Header.Get(authgate.Header))
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec, seen
}

func TestGate_NoCookieOnPublicPath(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: sessioncookie.ErrNoSession}
	rec, seen := serve(t, store, "/events/42")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, sessioncookie.AuthTypeGuest, seen.Tier)
	assert.Equal(t, "guest", rec.Header().Get(authgate.Header))
}

func TestGate_NoCookieOnPrivilegedPath(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: sessioncookie.ErrNoSession}
	rec, seen := serve(t, store, "/admin/moderation")

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
	assert.Nil(t, seen)
}

func TestGate_InvalidCookieClearedAndContinuesAsGuest(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: sessioncookie.ValidationError{Reason: "access is required"}}
	rec, seen := serve(t, store, "/events/42")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, sessioncookie.AuthTypeGuest, seen.Tier)
	assert.Equal(t, 1, store.cleared)
}

func TestGate_InvalidCookieOnSignupPathNoRedirectLoop(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: sessioncookie.ErrDecryptFailed}
	rec, seen := serve(t, store, "/signup")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "guest", rec.Header().Get(authgate.Header))
	assert.Equal(t, 1, store.cleared)
}

func TestGate_InvalidCookieOnPrivilegedPathRedirects(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: sessioncookie.ErrDecryptFailed}
	rec, _ := serve(t, store, "/admin/moderation")

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
	assert.Equal(t, 1, store.cleared)
}

func TestGate_UserTierOnPrivilegedPathRedirects(t *testing.T) {
	t.Parallel()

	store := &fakeStore{payload: validPayload(sessioncookie.AuthTypeUser)}
	rec, seen := serve(t, store, "/admin/moderation")

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
	assert.Nil(t, seen)
	assert.Zero(t, store.cleared, "a valid cookie is never cleared by the privilege gate")
}

func TestGate_AdminOnPrivilegedSubpath(t *testing.T) {
	t.Parallel()

	store := &fakeStore{payload: validPayload(sessioncookie.AuthTypeAdmin)}
	rec, seen := serve(t, store, "/admin/moderation")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, sessioncookie.AuthTypeAdmin, seen.Tier)
	assert.Equal(t, "user-1", seen.UserID)
}

func TestGate_AdminAtPrivilegedRootForwardedToLanding(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/admin", "/admin/"} {
		store := &fakeStore{payload: validPayload(sessioncookie.AuthTypeAdmin)}
		rec, _ := serve(t, store, path)

		require.Equal(t, http.StatusTemporaryRedirect, rec.Code, "path %q", path)
		assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	}
}

func TestGate_UserTierTaggedOnPublicPath(t *testing.T) {
	t.Parallel()

	store := &fakeStore{payload: validPayload(sessioncookie.AuthTypeUser)}
	rec, seen := serve(t, store, "/events/42")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, sessioncookie.AuthTypeUser, seen.Tier)
	assert.Equal(t, "user", rec.Header().Get(authgate.Header))
}

func TestGate_LegacyCookieWithoutTierDefaultsToGuest(t *testing.T) {
	t.Parallel()

	payload := validPayload("")
	store := &fakeStore{payload: payload}
	rec, seen := serve(t, store, "/events/42")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, sessioncookie.AuthTypeGuest, seen.Tier)
}

func TestGate_PanicDegradesToUnauthenticated(t *testing.T) {
	t.Parallel()

	store := &fakeStore{panics: true}
	rec, seen := serve(t, store, "/events/42")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, sessioncookie.AuthTypeGuest, seen.Tier)
}

func TestGate_PanicOnPrivilegedPathRedirects(t *testing.T) {
	t.Parallel()

	store := &fakeStore{panics: true}
	rec, _ := serve(t, store, "/admin/moderation")

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
}

func TestGate_PrefixMatchingIsSegmentAware(t *testing.T) {
	t.Parallel()

	// /administrator is not inside the /admin namespace.
	store := &fakeStore{err: sessioncookie.ErrNoSession}
	rec, seen := serve(t, store, "/administrator")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, sessioncookie.AuthTypeGuest, seen.Tier)
}
