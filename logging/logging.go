// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"dprisk/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at w (stderr when nil) with the configured
// level and format, and tags every entry with a fresh run id. Standard
// output is left to the reports.
func Setup(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(w).Level(level).With().
		Timestamp().
		Str("run", uuid.New().String()).
		Logger()
	return log.Logger
}
