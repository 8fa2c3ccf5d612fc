// Package obslog provides structured logging and Prometheus metrics for
// the demonstration harness and the queue-backend collaborators, the way
// the original monitoring package does for its server.
package obslog

import (
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "pretty"
}

// NewLogger builds a structured logger: JSON output by default, a
// console writer under the "pretty" format, RFC3339 timestamps, and
// caller information.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	var output io.Writer = os.Stdout

	var level zerolog.Level
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Str("service", "envelope-serializer").
		Logger()
}

// InitGlobalLogger sets the package-level zerolog logger. Call once at
// startup.
func InitGlobalLogger(cfg LoggerConfig) {
	log.Logger = NewLogger(cfg)
}

// LogError logs an error with context fields.
func LogError(logger zerolog.Logger, err error, msg string, fields map[string]any) {
	event := logger.Error().Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// LogPanic logs a recovered panic with its stack trace. Use from a
// deferred recover().
func LogPanic(logger zerolog.Logger, panicValue any, msg string, fields map[string]any) {
	event := logger.Error().
		Interface("panic_value", panicValue).
		Str("stack_trace", string(debug.Stack()))
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
