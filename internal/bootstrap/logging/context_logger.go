package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type ctxLoggerKey struct{}
type ctxAttrsKey struct{}

var (
	defaultLogger     *slog.Logger
	defaultLoggerOnce sync.Once
)

func baseLogger() *slog.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New(os.Stderr, "text", "info")
	})
	return defaultLogger
}

// New builds a slog logger writing to w. format is "text" or "json".
func New(w io.Writer, format string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		return ctx
	}

	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// WithAttrs returns a context whose log lines carry attrs. Later keys
// replace earlier ones with the same name.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(attrs) == 0 {
		return ctx
	}

	return context.WithValue(ctx, ctxAttrsKey{}, mergeAttrs(Attrs(ctx), attrs))
}

// WithEvent tags log lines with the event being processed.
func WithEvent(ctx context.Context, eventID uint64, runID string) context.Context {
	attrs := []slog.Attr{slog.Uint64("event_id", eventID)}
	if runID != "" {
		attrs = append(attrs, slog.String("run_id", runID))
	}
	return WithAttrs(ctx, attrs...)
}

func Logger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}

	return baseLogger()
}

func Attrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	attrs, ok := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	if !ok || len(attrs) == 0 {
		return nil
	}

	cloned := make([]slog.Attr, len(attrs))
	copy(cloned, attrs)
	return cloned
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelDebug, msg, attrs...)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelInfo, msg, attrs...)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelWarn, msg, attrs...)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelError, msg, attrs...)
}

func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := Logger(ctx)
	if !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, msg, mergeAttrs(Attrs(ctx), attrs)...)
}

func mergeAttrs(base []slog.Attr, extra []slog.Attr) []slog.Attr {
	merged := make([]slog.Attr, 0, len(base)+len(extra))
	indexByKey := make(map[string]int, len(base)+len(extra))

	for _, group := range [][]slog.Attr{base, extra} {
		for _, attr := range group {
			if attr.Key != "" {
				if idx, ok := indexByKey[attr.Key]; ok {
					merged[idx] = attr
					continue
				}
				indexByKey[attr.Key] = len(merged)
			}
			merged = append(merged, attr)
		}
	}

	return merged
}
