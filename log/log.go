package log

import (
	"context"

	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	entryKey ctxKey = iota
	correlationIDKey
)

func Init(level logrus.Level) {
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

// FromContext returns the entry stored in ctx, or a bare entry on the
// standard logger when none is present.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(entryKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func ToContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, entryKey, entry)
}

func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// ContextWithNewCorrelationID tags ctx with a fresh correlation ID and a
// logger entry carrying it.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	correlationID := shortuuid.New()
	ctx = ContextWithCorrelationID(ctx, correlationID)
	return ToContext(ctx, FromContext(ctx).WithField("correlation_id", correlationID))
}
