package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextspace/sessionkit/pkg/session"
	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

func TestHTTPGateway_Current(t *testing.T) {
	t.Parallel()

	t.Run("decodes envelope", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/session-cookie", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{
				"data": sessioncookie.Payload{
					Access:   "a1",
					Refresh:  "r1",
					UserID:   "user-1",
					AuthType: sessioncookie.AuthTypeUser,
					Version:  sessioncookie.Version,
				},
			})
		}))
		defer srv.Close()

		gw := session.NewHTTPGateway(srv.URL, srv.Client())
		payload, err := gw.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a1", payload.Access)
		assert.Equal(t, "user-1", payload.UserID)
	})

	t.Run("unauthorized means no session", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		gw := session.NewHTTPGateway(srv.URL, srv.Client())
		_, err := gw.Current(context.Background())
		assert.ErrorIs(t, err, sessioncookie.ErrNoSession)
	})
}

func TestHTTPGateway_SaveAndClear(t *testing.T) {
	t.Parallel()

	var gotSave sessioncookie.Payload
	var gotLogout bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/session-cookie":
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotSave))
			w.WriteHeader(http.StatusCreated)
		case "/logout":
			require.Equal(t, http.MethodPost, r.Method)
			gotLogout = true
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	gw := session.NewHTTPGateway(srv.URL, srv.Client())

	require.NoError(t, gw.Save(context.Background(), sessioncookie.Payload{
		Access:   "a1",
		Refresh:  "r1",
		UserID:   "user-1",
		AuthType: sessioncookie.AuthTypeGuest,
	}))
	assert.Equal(t, "a1", gotSave.Access)
	assert.Equal(t, sessioncookie.AuthTypeGuest, gotSave.AuthType)

	require.NoError(t, gw.Clear(context.Background()))
	assert.True(t, gotLogout)
}
