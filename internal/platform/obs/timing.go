package obs

import (
	"context"
	"time"
)

type ctxKey string

const requestIDKey ctxKey = "req_id"

// WithRequestID attaches a request identifier to the context so nested
// operations can correlate their log lines with the request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request identifier stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

var opLog = NewLogger("op")

// Time reports the duration of one named operation when the returned
// function runs, typically deferred with a pointer to the caller's error:
//
//	defer obs.Time(ctx, "plans.Save")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			opLog.Error().Err(*errp).Str("req_id", reqID).Str("op", name).Dur("dur", dur).Send()
			return
		}
		opLog.Info().Str("req_id", reqID).Str("op", name).Dur("dur", dur).Send()
	}
}
