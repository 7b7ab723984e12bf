// Package logger builds configured log/slog loggers for the application.
//
// The factory produces JSON output for production aggregation and text
// output for local development, with static attributes (service name,
// environment) attached to every record.
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatJSON),
//		logger.WithLevel(slog.LevelInfo),
//		logger.WithAttr(slog.String("service", "sessionkit")),
//	)
package logger
