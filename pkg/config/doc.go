// Package config loads typed configuration structs from environment
// variables using github.com/caarlos0/env field tags.
//
// A .env file in the working directory is loaded once, lazily, before the
// first parse; a missing file is not an error. Each configuration type is
// parsed at most once per process and cached, so packages can call Load
// for their own Config without coordinating with the composition root.
//
//	type Config struct {
//		Secret string `env:"SESSION_COOKIE_SECRET,required"`
//		Name   string `env:"SESSION_COOKIE_NAME" envDefault:"nextspace-session"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// required variable missing or malformed value
//	}
//
// MustLoad panics on failure and is intended for configuration without
// which the process cannot start at all.
package config
