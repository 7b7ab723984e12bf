package authgate

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nextspace/sessionkit/core"
	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

// CookieStore is the slice of the session cookie store the gate needs.
type CookieStore interface {
	Read(r *http.Request) (*sessioncookie.Payload, error)
	Clear(w http.ResponseWriter)
}

// Gate derives a trust tier per request and enforces the privileged
// prefix. Construct once and mount via Middleware.
type Gate struct {
	store CookieStore
	cfg   Config
	log   *slog.Logger
}

func New(store CookieStore, cfg Config, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PrivilegedPrefix == "" {
		cfg = DefaultConfig()
	}
	return &Gate{store: store, cfg: cfg, log: log}
}

type decision struct {
	redirect string
	identity Identity
}

// Middleware wraps next with the gate. Redirects are 307 so the browser
// replays the navigation verb against the target.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.decide(w, r)

		if d.redirect != "" {
			if err := core.RedirectWithCode(d.redirect, http.StatusTemporaryRedirect).Render(w, r); err != nil {
				g.log.Error("redirect render failed", slog.Any("error", err))
			}
			return
		}

		r.Header.Set(Header, string(d.identity.Tier))
		w.Header().Set(Header, string(d.identity.Tier))
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), d.identity)))
	})
}

// decide computes the gate outcome from a single cookie read. It never
// panics: an unexpected failure anywhere inside is logged and degrades to
// the unauthenticated path.
func (g *Gate) decide(w http.ResponseWriter, r *http.Request) (d decision) {
	guest := Identity{Tier: sessioncookie.AuthTypeGuest}

	defer func() {
		if rec := recover(); rec != nil {
			g.log.Error("authorization gate panic, degrading to guest",
				slog.Any("panic", rec),
				slog.String("path", r.URL.Path))
			d = g.unauthenticated(r, guest)
		}
	}()

	payload, err := g.store.Read(r)
	switch {
	case errors.Is(err, sessioncookie.ErrNoSession):
		return g.unauthenticated(r, guest)

	case err != nil:
		// Tampered, stale-shape, or expired cookie. The reason matters for
		// diagnosing cookie-format migrations, so it is logged; the caller
		// just becomes unauthenticated with the cookie expired.
		g.store.Clear(w)
		g.log.Info("invalid session cookie cleared",
			slog.Any("reason", err),
			slog.String("path", r.URL.Path))
		return g.unauthenticated(r, guest)
	}

	id := Identity{
		Tier:    payload.AuthType,
		UserID:  payload.UserID,
		Subject: payload.Subject,
	}
	// Older cookies validated under a relaxed rule may lack a tier.
	if !id.Tier.Known() {
		id.Tier = sessioncookie.AuthTypeGuest
	}

	if g.privileged(r.URL.Path) {
		if id.Tier != sessioncookie.AuthTypeAdmin {
			return decision{redirect: g.cfg.SignupPath}
		}
		if g.privilegedRoot(r.URL.Path) {
			return decision{redirect: g.cfg.LandingPath}
		}
	}

	return decision{identity: id}
}

// unauthenticated applies the no-valid-session rule: privileged paths
// redirect to signup, everything else continues as guest. Requests
// already on the signup path always continue, so a cleared cookie can
// never cause a redirect loop.
func (g *Gate) unauthenticated(r *http.Request, guest Identity) decision {
	if g.onSignup(r.URL.Path) {
		return decision{identity: guest}
	}
	if g.privileged(r.URL.Path) {
		return decision{redirect: g.cfg.SignupPath}
	}
	return decision{identity: guest}
}

func (g *Gate) privileged(path string) bool {
	prefix := g.cfg.PrivilegedPrefix
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gate) privilegedRoot(path string) bool {
	return path == g.cfg.PrivilegedPrefix || path == g.cfg.PrivilegedPrefix+"/"
}

func (g *Gate) onSignup(path string) bool {
	return path == g.cfg.SignupPath
}
