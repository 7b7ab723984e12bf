package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nextspace/sessionkit/core"
	"github.com/nextspace/sessionkit/pkg/apiclient"
	"github.com/nextspace/sessionkit/pkg/cookie"
	"github.com/nextspace/sessionkit/pkg/identity"
	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

// maxRequestBody caps session endpoint request bodies.
const maxRequestBody = 64 << 10

// Service implements the session cookie HTTP surface.
type Service struct {
	store   *sessioncookie.Store
	ids     identity.Client
	notices *cookie.Manager
	ttl     time.Duration
	log     *slog.Logger
}

func NewService(store *sessioncookie.Store, ids identity.Client, notices *cookie.Manager, ttl time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, ids: ids, notices: notices, ttl: ttl, log: log}
}

// payloadView is what the endpoints return. The cookie is same-site and
// this surface is same-origin, so the decrypted token pair is handed back
// to the caller: it is exactly what the in-memory session restores from.
type payloadView struct {
	Access    string                 `json:"access"`
	Refresh   string                 `json:"refresh"`
	UserID    string                 `json:"userId"`
	AuthType  sessioncookie.AuthType `json:"authType"`
	Subject   string                 `json:"sub,omitempty"`
	ExpiresAt int64                  `json:"exp,omitempty"`
}

func viewOf(p *sessioncookie.Payload) payloadView {
	return payloadView{
		Access:    p.Access,
		Refresh:   p.Refresh,
		UserID:    p.UserID,
		AuthType:  p.AuthType,
		Subject:   p.Subject,
		ExpiresAt: p.ExpiresAt,
	}
}

type createRequest struct {
	Access   string                 `json:"access"`
	Refresh  string                 `json:"refresh"`
	UserID   string                 `json:"userId"`
	AuthType sessioncookie.AuthType `json:"authType"`
	Subject  string                 `json:"sub"`
}

type rotateRequest struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (s *Service) handleRead(w http.ResponseWriter, r *http.Request) {
	payload, err := s.store.Read(r)
	if err != nil {
		s.render(w, r, core.JSONError(core.ErrUnauthorized))
		return
	}
	s.render(w, r, core.JSON(viewOf(payload)))
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Access == "" || req.Refresh == "" || req.UserID == "" || !req.AuthType.Known() {
		s.render(w, r, core.JSONError(core.ErrUnprocessableEntity))
		return
	}

	payload := sessioncookie.Payload{
		Access:   req.Access,
		Refresh:  req.Refresh,
		UserID:   req.UserID,
		AuthType: req.AuthType,
		Subject:  req.Subject,
	}
	if err := s.store.Write(w, payload, s.ttl); err != nil {
		s.log.ErrorContext(r.Context(), "session cookie write failed", slog.Any("error", err))
		s.render(w, r, core.JSONError(core.ErrInternalServerError))
		return
	}

	s.render(w, r, core.JSONWithStatus(viewOf(&payload), http.StatusCreated))
}

// handleRotate swaps the token pair inside an existing valid cookie,
// leaving the identity fields untouched.
func (s *Service) handleRotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Access == "" || req.Refresh == "" {
		s.render(w, r, core.JSONError(core.ErrUnprocessableEntity))
		return
	}

	payload, err := s.store.Read(r)
	if err != nil {
		s.render(w, r, core.JSONError(core.ErrUnauthorized))
		return
	}

	payload.Access = req.Access
	payload.Refresh = req.Refresh
	if err := s.store.Write(w, *payload, s.ttl); err != nil {
		s.log.ErrorContext(r.Context(), "session cookie write failed", slog.Any("error", err))
		s.render(w, r, core.JSONError(core.ErrInternalServerError))
		return
	}

	s.render(w, r, core.JSON(viewOf(payload)))
}

// handleLogout clears the cookie and answers in the caller's dialect:
// browser form posts navigate away, API callers get JSON.
func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.Clear(w)

	if target := r.PostFormValue("redirect"); isLocalPath(target) {
		s.render(w, r, core.Redirect(target))
		return
	}
	if wantsHTML(r) {
		s.render(w, r, core.RedirectBack("/"))
		return
	}
	s.render(w, r, core.JSONWithStatus(map[string]bool{"loggedOut": true}, http.StatusOK))
}

// handleNotice pops the pending user notice, if any. Reading consumes it,
// so a notice is shown at most once.
func (s *Service) handleNotice(w http.ResponseWriter, r *http.Request) {
	notice, err := s.notices.GetEncrypted(r, apiclient.NoticeCookieName)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.notices.Delete(w, apiclient.NoticeCookieName)
	s.render(w, r, core.JSON(map[string]string{"notice": notice}))
}

// handleRefresh rotates the pair against the identity upstream. A
// rejected refresh token is terminal: the cookie is cleared so the next
// navigation starts a fresh session. A transient upstream failure leaves
// the cookie intact for a later retry.
func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	payload, err := s.store.Read(r)
	if err != nil {
		s.render(w, r, core.JSONError(core.ErrUnauthorized))
		return
	}

	creds, err := s.ids.Refresh(r.Context(), payload.Refresh)
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		s.store.Clear(w)
		s.log.InfoContext(r.Context(), "refresh token rejected, session cleared",
			slog.String("userId", payload.UserID))
		s.render(w, r, core.JSONError(core.ErrUnauthorized))
		return
	case err != nil:
		s.log.WarnContext(r.Context(), "refresh upstream unavailable", slog.Any("error", err))
		s.render(w, r, core.JSONError(core.ErrServiceUnavailable))
		return
	}

	payload.Access = creds.Access
	payload.Refresh = creds.Refresh
	if err := s.store.Write(w, *payload, s.ttl); err != nil {
		s.log.ErrorContext(r.Context(), "session cookie write failed", slog.Any("error", err))
		s.render(w, r, core.JSONError(core.ErrInternalServerError))
		return
	}

	s.render(w, r, core.JSON(viewOf(payload)))
}

func (s *Service) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		s.render(w, r, core.JSONError(core.ErrBadRequest))
		return false
	}
	return true
}

// isLocalPath accepts only same-site absolute paths as redirect targets.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (s *Service) render(w http.ResponseWriter, r *http.Request, resp core.Response) {
	if err := resp.Render(w, r); err != nil {
		s.log.ErrorContext(r.Context(), "response render failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}
