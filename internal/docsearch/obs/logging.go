// Package obs wires zerolog and OpenTelemetry into the interfaces the
// usecase package depends on.
package obs

import (
	"fmt"
	stdlog "log"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global zerolog logger. If logPath is non-empty,
// logs are written to that file (append mode) instead of stdout; on open
// failure it falls back to stdout and prints the failure to stderr.
func InitLogger(logPath string, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = os.Stdout
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = f
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "failed to open log file %q: %v\n", logPath, err)
		}
	}
	log.Logger = log.Output(w).With().Timestamp().Logger()

	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl := zerolog.InfoLevel
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	zerolog.SetGlobalLevel(lvl)
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
}

// ZerologLogger adapts the global zerolog logger to usecase.Logger.
type ZerologLogger struct{}

func (ZerologLogger) Info(msg string, fields map[string]any) {
	log.Info().Fields(fields).Msg(msg)
}

func (ZerologLogger) Error(msg string, fields map[string]any) {
	log.Error().Fields(fields).Msg(msg)
}

func (ZerologLogger) Debug(msg string, fields map[string]any) {
	log.Debug().Fields(fields).Msg(msg)
}
