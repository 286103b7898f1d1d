// Package logger builds the zerolog.Logger every component in this module
// embeds via log.With().Str("component", "...").Logger().
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config configures the root logger.
type Config struct {
	// Level is a zerolog level name: "debug", "info", "warn", "error".
	Level string
	// Pretty enables zerolog's human-readable console writer instead of
	// newline-delimited JSON. Use for local development, not production.
	Pretty bool
}

// New builds the root logger every package derives its own scoped logger
// from via log.With().Str("component", name).Logger().
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out = os.Stdout
	if cfg.Pretty {
		writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
