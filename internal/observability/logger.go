package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const appName = "depsync"

// NewLogger builds the logger a session carries. It never touches the
// global zerolog logger.
func NewLogger(output io.Writer, level string, asJSON bool) (zerolog.Logger, error) {
	parsed, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if !asJSON {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(output).Level(parsed).With().Timestamp().Str("app", appName).Logger(), nil
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}

	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return parsed, nil
}
