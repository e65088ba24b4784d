package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type contextKey int

const (
	fieldsKey contextKey = iota
	loggerKey
)

// fields are the per-request identifiers every log line should carry.
type fields struct {
	correlationID string
	userID        string
	role          string
}

func fieldsFrom(ctx context.Context) fields {
	f, _ := ctx.Value(fieldsKey).(fields)
	return f
}

// New creates a JSON logger on stdout tagged with the service name and any
// extra static attributes such as version or environment.
func New(service, level string, attrs ...slog.Attr) *slog.Logger {
	return NewWithWriter(service, level, os.Stdout, attrs...)
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(service, level string, w io.Writer, attrs ...slog.Attr) *slog.Logger {
	lvl := ParseLevel(level)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})

	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("service", service))
	for _, a := range attrs {
		if a.Value.String() != "" {
			args = append(args, a)
		}
	}
	return slog.New(h).With(args...)
}

// ParseLevel maps a config string onto a slog level. Unknown values mean info.
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

// WithCorrelationID returns a copy of ctx carrying the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	f := fieldsFrom(ctx)
	f.correlationID = id
	return context.WithValue(ctx, fieldsKey, f)
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).correlationID
}

// WithCaller records the authenticated user and role for log enrichment.
func WithCaller(ctx context.Context, userID, role string) context.Context {
	f := fieldsFrom(ctx)
	f.userID = userID
	f.role = role
	return context.WithValue(ctx, fieldsKey, f)
}

// UserIDFromContext returns the user ID recorded by WithCaller.
func UserIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).userID
}

// NewContext stores l in ctx.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request-scoped logger, or slog.Default() when none is stored.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithContext returns l enriched with the request fields and the active
// trace and span ids found in ctx.
func WithContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	f := fieldsFrom(ctx)
	var args []any
	if f.correlationID != "" {
		args = append(args, slog.String("correlation_id", f.correlationID))
	}
	if f.userID != "" {
		args = append(args, slog.String("user_id", f.userID))
	}
	if f.role != "" {
		args = append(args, slog.String("role", f.role))
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		args = append(args,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if len(args) == 0 {
		return l
	}
	return l.With(args...)
}
