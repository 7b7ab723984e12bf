package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handle returns the module's router for mounting into the application.
//
// Example:
//
//	svc := session.NewService(store, ids, cookies, cfg.TTL, log)
//	r.Mount("/", svc.Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/session-cookie", s.handleRead)
	r.Post("/session-cookie", s.handleCreate)
	r.Patch("/session-cookie", s.handleRotate)
	r.Post("/logout", s.handleLogout)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/notice", s.handleNotice)

	return r
}
