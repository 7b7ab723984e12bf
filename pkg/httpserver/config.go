package httpserver

import "time"

type Config struct {
	// Addr is the address the server listens on.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
	// ReadTimeout bounds reading the entire request, including the body.
	ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	// WriteTimeout bounds writes of the response.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	// IdleTimeout bounds keep-alive waits between requests.
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	// ShutdownTimeout is how long in-flight requests get to drain.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
