package sessioncookie

import "time"

// Config holds session cookie configuration. The secret is required:
// without it the application must refuse to serve rather than operate
// on readable session material.
type Config struct {
	// Secret seals the cookie payload. Comma-separated values enable key
	// rotation: the first seals new cookies, the rest stay valid for reads.
	Secret string `env:"SESSION_COOKIE_SECRET,required"`

	Name string `env:"SESSION_COOKIE_NAME" envDefault:"nextspace-session"`

	// TTL is the default lifetime stamped into newly created cookies.
	TTL time.Duration `env:"SESSION_COOKIE_TTL" envDefault:"720h"`

	// Secure sets the Secure attribute; enable in production.
	Secure bool `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

// DefaultConfig returns the defaults used when no environment is present.
func DefaultConfig() Config {
	return Config{
		Name:   "nextspace-session",
		TTL:    720 * time.Hour,
		Secure: false,
	}
}
