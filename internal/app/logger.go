package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sharetube/client/pkg/ctxlogger"
)

var logLevel = new(slog.LevelVar)

// SetLogLevel changes the level of every logger created by the app, including
// ones already in use.
func SetLogLevel(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	logLevel.Set(l)
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h)
}
