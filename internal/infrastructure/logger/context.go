package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

// jobIDKey carries the id of the job a context belongs to. The worker sets
// it before running a job so every log line written during the run,
// including SQL traces, can be correlated with the job row.
const jobIDKey ctxKey = iota

// WithJobID returns a context tagged with the running job's id.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey, jobID)
}

// JobIDFrom returns the job id carried by the context, or "".
func JobIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(jobIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the logger enriched with the context's job id.
func FromContext(ctx context.Context, log *zap.Logger) *zap.Logger {
	if id := JobIDFrom(ctx); id != "" {
		return log.With(zap.String("job_id", id))
	}
	return log
}
