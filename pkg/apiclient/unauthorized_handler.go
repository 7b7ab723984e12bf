package apiclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nextspace/sessionkit/core"
	"github.com/nextspace/sessionkit/pkg/cookie"
	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

const (
	// NoticeCookieName carries the user-visible notice across the redirect
	// that follows a terminal credential rejection.
	NoticeCookieName = "nextspace-notice"

	// NoticeSessionExpired is the message shown when the session is torn
	// down because its credential was rejected.
	NoticeSessionExpired = "Your session has expired. Please sign in again."

	// DefaultRedirectDelay gives the user a moment to read the notice
	// before the navigation to the redirect target.
	DefaultRedirectDelay = 3 * time.Second

	// The notice only needs to survive one navigation.
	noticeCookieMaxAge = 60
)

// UnauthorizedHandler finishes the terminal-rejection flow: the session
// cookie is expired, a short notice is recorded for the user, and the
// response tells the client to navigate to the redirect target after a
// fixed delay via the Refresh header.
type UnauthorizedHandler struct {
	sessions *sessioncookie.Store
	notices  *cookie.Manager
	target   string
	delay    time.Duration
	teardown func()
	log      *slog.Logger
}

// UnauthorizedHandlerOption configures an UnauthorizedHandler.
type UnauthorizedHandlerOption func(*UnauthorizedHandler)

// WithRedirectDelay overrides how long the client waits before navigating.
func WithRedirectDelay(d time.Duration) UnauthorizedHandlerOption {
	return func(h *UnauthorizedHandler) {
		if d > 0 {
			h.delay = d
		}
	}
}

// WithHandlerTeardown sets a hook run alongside the cookie clear, used to
// tear down in-process session state sharing the handler's lifetime.
func WithHandlerTeardown(fn func()) UnauthorizedHandlerOption {
	return func(h *UnauthorizedHandler) { h.teardown = fn }
}

func NewUnauthorizedHandler(sessions *sessioncookie.Store, notices *cookie.Manager, target string, log *slog.Logger, opts ...UnauthorizedHandlerOption) *UnauthorizedHandler {
	if log == nil {
		log = slog.Default()
	}
	h := &UnauthorizedHandler{
		sessions: sessions,
		notices:  notices,
		target:   target,
		delay:    DefaultRedirectDelay,
		log:      log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type expiredSession struct {
	Notice       string `json:"notice"`
	Redirect     string `json:"redirect"`
	DelaySeconds int    `json:"delaySeconds"`
}

func (h *UnauthorizedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	if h.teardown != nil {
		h.teardown()
	}

	// The notice must outlive this response, so it rides in its own
	// short-lived cookie that the front-end pops after the redirect.
	if err := h.notices.SetEncrypted(w, NoticeCookieName, NoticeSessionExpired,
		cookie.WithMaxAge(noticeCookieMaxAge)); err != nil {
		h.log.ErrorContext(r.Context(), "failed to record session notice", slog.Any("error", err))
	}

	seconds := int(h.delay / time.Second)
	w.Header().Set("Refresh", fmt.Sprintf("%d; url=%s", seconds, h.target))

	resp := core.JSONWithStatus(expiredSession{
		Notice:       NoticeSessionExpired,
		Redirect:     h.target,
		DelaySeconds: seconds,
	}, http.StatusUnauthorized)
	if err := resp.Render(w, r); err != nil {
		h.log.ErrorContext(r.Context(), "response render failed", slog.Any("error", err))
	}
}
