// Package logger builds the root logger shared by the entrypoints.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the root console logger. An empty or unparseable level
// falls back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
