package authgate

// Config describes the gated route surface.
type Config struct {
	// PrivilegedPrefix is the route namespace requiring admin tier.
	PrivilegedPrefix string `env:"AUTHGATE_PRIVILEGED_PREFIX" envDefault:"/admin"`
	// SignupPath is where unauthenticated callers of privileged routes are
	// sent. Requests already on this path are never redirected again.
	SignupPath string `env:"AUTHGATE_SIGNUP_PATH" envDefault:"/signup"`
	// LandingPath is where an admin hitting the bare privileged root is
	// forwarded.
	LandingPath string `env:"AUTHGATE_LANDING_PATH" envDefault:"/admin/dashboard"`
}

// DefaultConfig returns the config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		PrivilegedPrefix: "/admin",
		SignupPath:       "/signup",
		LandingPath:      "/admin/dashboard",
	}
}
