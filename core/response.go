package core

import (
	"log/slog"
	"net/http"
)

// Response renders itself into the ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Handle adapts a Response-returning function to http.HandlerFunc. A
// render failure is logged; headers are likely already written at that
// point so no fallback body is attempted.
func Handle(log *slog.Logger, fn func(r *http.Request) Response) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(r)
		if resp == nil {
			resp = JSONError(ErrInternalServerError)
		}
		if err := resp.Render(w, r); err != nil {
			log.ErrorContext(r.Context(), "response render failed",
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
		}
	}
}
