// Package log configures structured JSON logging for CyberShield. It wraps
// the standard slog JSON handler so that errors carrying cockroachdb stack
// traces are emitted with a dedicated stacktrace attribute.
package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// SetupLogger installs the process-wide slog logger and routes pkg/errors
// warnings through it.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))

	errors.SetZerologWarnFunc(func(warning error) {
		slog.Warn(warning.Error(), slog.String("kind", fmt.Sprintf("%T", warning)))
	})
}

// ToLogLevel parses a textual level into a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
