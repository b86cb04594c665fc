package migrate

import (
	"context"
	"log/slog"
)

// Sink is notified after each applied statement.
type Sink interface {
	Applied(ctx context.Context, step Step)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, step Step)

// Applied implements Sink.
func (f SinkFunc) Applied(ctx context.Context, step Step) { f(ctx, step) }

// Sinks fans a notification out to several sinks in order.
type Sinks []Sink

// Applied implements Sink.
func (s Sinks) Applied(ctx context.Context, step Step) {
	for _, sink := range s {
		if sink != nil {
			sink.Applied(ctx, step)
		}
	}
}

// LogSink logs every applied statement and its rollback counterpart.
type LogSink struct {
	Logger *slog.Logger
}

// Applied implements Sink.
func (l LogSink) Applied(ctx context.Context, step Step) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		"index", step.Index + 1,
		"total", step.Total,
		"kind", step.Up.Kind(),
		"duration", step.Duration,
		"statement", step.Up.String(),
	}
	if step.Down != nil {
		attrs = append(attrs, "rollback", step.Down.String())
	}
	logger.InfoContext(ctx, "applied statement", attrs...)
	if len(step.Response) > 0 {
		logger.DebugContext(ctx, "store response", "index", step.Index+1, "body", string(step.Response))
	}
}
