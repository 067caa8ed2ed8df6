// Package logs holds the process wide zerolog logger.
package logs

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type LoggerType string

// Log is usable before InitLogger is called.
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// InitLogger configures Log from LOG_LEVEL and NODE_ENV and tags every entry
// with the service type.
func InitLogger(t LoggerType) {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var l zerolog.Logger
	if os.Getenv("NODE_ENV") == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		l = zerolog.New(os.Stderr)
	}
	Log = l.Level(level).With().Timestamp().Str("type", string(t)).Logger()
}

// Session returns a child logger tagged with a session id.
func Session(id string) zerolog.Logger {
	return Log.With().Str("session", id).Logger()
}
