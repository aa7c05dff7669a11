package prerender

import (
	"log/slog"
	"os"
)

var loglevel = new(slog.LevelVar)

// NewLogger returns a JSON logger writing to stdout.
// Build logs are the only user-visible output of the pipeline.
func NewLogger(debug bool) *slog.Logger {
	loglevel.Set(slog.LevelInfo)
	if debug {
		loglevel.Set(slog.LevelDebug)
	}

	return slog.New(slog.NewJSONHandler(
		os.Stdout,
		&slog.HandlerOptions{
			AddSource: debug,
			Level:     loglevel,
		}))
}

// SetupLogger installs [NewLogger] as the slog default and returns it.
func SetupLogger(debug bool) *slog.Logger {
	logger := NewLogger(debug)
	slog.SetDefault(logger)

	return logger
}
