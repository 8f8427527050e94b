package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the CLI logger from the log configuration and the
// persistent -v/-q flags. Each -v lowers the level by one step below the
// configured one; -q raises it to error regardless of configuration.
func NewLogger(w io.Writer, cfg LogConfig, verbosity int, quiet bool) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log.level: %w", err)
		}
		level = parsed
	}

	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbosity > 0:
		level -= zerolog.Level(verbosity)
		if level < zerolog.TraceLevel {
			level = zerolog.TraceLevel
		}
	}

	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
