package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New constructs a zerolog logger. Defaults to JSON at info level on stdout
// when level or format are empty or unparsable.
func New(level, format, service string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && parsed != zerolog.NoLevel {
		lvl = parsed
	}

	output := zerolog.New(os.Stdout)
	if strings.ToLower(strings.TrimSpace(format)) == "console" {
		output = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return output.
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
