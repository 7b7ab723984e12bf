package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nextspace/sessionkit/modules/realtime"
	"github.com/nextspace/sessionkit/modules/session"
	"github.com/nextspace/sessionkit/pkg/apiclient"
	"github.com/nextspace/sessionkit/pkg/authgate"
	"github.com/nextspace/sessionkit/pkg/config"
	"github.com/nextspace/sessionkit/pkg/cookie"
	"github.com/nextspace/sessionkit/pkg/httpserver"
	"github.com/nextspace/sessionkit/pkg/identity"
	"github.com/nextspace/sessionkit/pkg/logger"
	realtimehub "github.com/nextspace/sessionkit/pkg/realtime"
	"github.com/nextspace/sessionkit/pkg/redis"
	"github.com/nextspace/sessionkit/pkg/requestid"
	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// TokenStore selects the refresh-token store of the in-process
	// identity service: "memory" or "redis". Ignored when
	// AUTH_UPSTREAM_URL points at a remote identity service.
	TokenStore string `env:"AUTH_TOKEN_STORE" envDefault:"memory"`

	HTTP   httpserver.Config
	Cookie sessioncookie.Config
	Auth   identity.Config
	Gate   authgate.Config
	Redis  redis.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Environment, "sessionkit"))
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	cookies, err := cookie.New(splitSecrets(cfg.Cookie.Secret))
	if err != nil {
		return err
	}

	codec := sessioncookie.NewCodec(cookies)
	store := sessioncookie.NewStore(codec, cookies, cfg.Cookie)

	var (
		ids          identity.Client
		verify       realtimehub.VerifyFunc
		healthChecks []func(context.Context) error
	)
	if cfg.Auth.BaseURL != "" {
		ids = identity.NewHTTPClient(cfg.Auth)
		log.Info("using remote identity upstream", slog.String("url", cfg.Auth.BaseURL))
	} else {
		var tokens identity.TokenStore
		if cfg.TokenStore == "redis" {
			client, err := redis.Connect(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()
			tokens = identity.NewRedisStore(client)
			healthChecks = append(healthChecks, redis.Healthcheck(client))
		} else {
			tokens = identity.NewMemoryStore()
		}

		svc, err := identity.NewService(cfg.Auth, tokens)
		if err != nil {
			return err
		}
		ids = svc
		verify = func(token string) error {
			_, err := svc.VerifyAccess(token)
			return err
		}
		log.Info("using in-process identity service", slog.String("tokenStore", cfg.TokenStore))
	}

	gate := authgate.New(store, cfg.Gate, log)
	sessions := session.NewService(store, ids, cookies, cfg.Cookie.TTL, log)
	expired := apiclient.NewUnauthorizedHandler(store, cookies, cfg.Gate.SignupPath, log)

	// The realtime hub needs local token verification; with a remote
	// identity upstream the socket path lives next to that upstream.
	var hub *realtimehub.Hub
	if verify != nil {
		hub = realtimehub.NewHub(verify, log)
		defer hub.Close()
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Get("/health", httpserver.HealthCheckHandler(log, healthChecks...))

	r.Group(func(r chi.Router) {
		r.Use(gate.Middleware)
		r.Method(http.MethodGet, "/session-expired", expired)
		r.Mount("/", sessions.Handle())
		if hub != nil {
			r.Mount("/realtime", realtime.NewService(hub, log).Handle())
		}
	})

	srv := httpserver.New(cfg.HTTP, log)
	return srv.Run(ctx, r)
}

func splitSecrets(raw string) []string {
	parts := strings.Split(raw, ",")
	secrets := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}
