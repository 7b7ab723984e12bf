package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nextspace/sessionkit/core"
	"github.com/nextspace/sessionkit/pkg/realtime"
)

// Service bridges the hub to HTTP clients.
type Service struct {
	hub *realtime.Hub
	log *slog.Logger
}

func NewService(hub *realtime.Hub, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{hub: hub, log: log}
}

// Handle returns the module's router.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/channels/{channel}", s.handleSubscribe)
	r.Post("/channels/{channel}", s.handleEmit)

	return r
}

type emitRequest struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

func (s *Service) handleEmit(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")

	var req emitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		s.render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	ack := s.hub.Emit(r.Context(), bearerToken(r), realtime.Event{
		Channel: channel,
		Name:    req.Name,
		Payload: req.Payload,
	})
	switch {
	case ack.AuthFailed():
		s.render(w, r, core.JSONError(core.ErrUnauthorized))
	case !ack.OK:
		s.render(w, r, core.JSONError(core.ErrServiceUnavailable))
	default:
		s.render(w, r, core.JSON(map[string]bool{"delivered": true}))
	}
}

// handleSubscribe streams the channel as server-sent events until the
// client disconnects.
func (s *Service) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.render(w, r, core.JSONError(core.ErrInternalServerError))
		return
	}

	sub, ack := s.hub.Join(r.Context(), channel, bearerToken(r), nil)
	switch {
	case ack.AuthFailed():
		s.render(w, r, core.JSONError(core.ErrUnauthorized))
		return
	case !ack.OK:
		s.render(w, r, core.JSONError(core.ErrServiceUnavailable))
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-sub.Receive():
			if !open {
				return
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				s.log.ErrorContext(r.Context(), "event payload marshal failed",
					slog.String("channel", channel), slog.Any("error", err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
			flusher.Flush()
		}
	}
}

func (s *Service) render(w http.ResponseWriter, r *http.Request, resp core.Response) {
	if err := resp.Render(w, r); err != nil {
		s.log.ErrorContext(r.Context(), "response render failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

// bearerToken extracts the access token from the Authorization header,
// falling back to the token query parameter for EventSource clients that
// cannot set headers.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return r.URL.Query().Get("token")
}
