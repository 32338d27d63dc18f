package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	ServiceName string
	Environment string
	Level       string
	Output      io.Writer // defaults to stdout
}

func NewLogger(cfg Config) *slog.Logger {
	level := new(slog.LevelVar)

	switch strings.ToLower(cfg.Level) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.Environment),
	)
}

type ctxKey struct{}

// WithAttrs returns a context whose logger carries the given attributes.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, FromContext(ctx).With(args...))
}

// FromContext returns the request-scoped logger, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
