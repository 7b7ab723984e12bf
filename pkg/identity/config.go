package identity

import "time"

// Config holds identity upstream configuration.
type Config struct {
	// BaseURL of the remote identity/auth upstream. When empty the
	// composition root wires the in-process Service instead.
	BaseURL string `env:"AUTH_UPSTREAM_URL" envDefault:""`

	// Secret signs access tokens minted by the in-process Service.
	Secret string `env:"AUTH_TOKEN_SECRET" envDefault:""`

	RequestTimeout time.Duration `env:"AUTH_REQUEST_TIMEOUT" envDefault:"10s"`

	AccessTTL  time.Duration `env:"AUTH_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"720h"`
}

// DefaultConfig returns the defaults used when no environment is present.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 10 * time.Second,
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     720 * time.Hour,
	}
}
