// Package logger configures the process-wide zerolog logger.
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger at the given level. Format "console" produces
// human-readable output; anything else emits JSON.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level: %w", err)
	}

	var log zerolog.Logger
	if format == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(lvl).With().Timestamp().Logger(), nil
}
