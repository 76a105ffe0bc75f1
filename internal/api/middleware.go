package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"student-transport-service/internal/platform/metrics"
	"student-transport-service/internal/platform/obs"
)

var httpLog = obs.NewLogger("http")

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// instrument tags every request with an ID, logs its end-to-end outcome
// and records the prometheus request counters.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ctx := obs.WithRequestID(r.Context(), reqID)

		sw := &statusWriter{
			ResponseWriter: w,
			status:         0,
		}

		next.ServeHTTP(sw, r.WithContext(ctx))

		elapsed := time.Since(start)
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}

		code := strconv.Itoa(status)
		pattern := routePattern(r.URL.Path)
		metrics.HTTPRequests.WithLabelValues(r.Method, pattern, code).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, pattern, code).Observe(elapsed.Seconds())

		httpLog.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.RequestURI()).
			Int("status", status).
			Int("bytes", sw.bytes).
			Dur("dur", elapsed).
			Msg("request")
	})
}

// routePattern collapses path parameters so metric label cardinality
// stays bounded.
func routePattern(path string) string {
	if strings.HasPrefix(path, "/plans/") && path != "/plans/" {
		return "/plans/{id}"
	}
	return path
}
