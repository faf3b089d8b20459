package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/surfcast/pkg/metrics"
	"golang.org/x/time/rate"
)

// MetricsMiddleware records request counts and latency per endpoint. Failed
// requests are also counted under the error code the handler answered with,
// so a 502 shows up as forecast_unavailable rather than a bare status.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(time.Since(start).Milliseconds()))

		if rec.status < http.StatusBadRequest {
			return
		}
		code := rec.errorCode
		if code == "" {
			code = "http_" + status
		}
		metrics.RecordErrorByEndpoint(endpoint, r.Method, code)
		metrics.RecordErrorByType(code, severity(rec.status))
		metrics.RecordErrorByComponent("http", code)
	}
}

// RateLimitMiddleware rejects requests with 429 once limiter runs dry.
func RateLimitMiddleware(next http.HandlerFunc, limiter *rate.Limiter, endpoint string) http.HandlerFunc {
	const op = "api.rate_limit"
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			metrics.RecordRateLimited(endpoint)
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited", NewKind(op, ErrRateLimited))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// severity ranks upstream and server failures above caller mistakes.
func severity(status int) string {
	switch {
	case status == http.StatusBadGateway:
		return "high"
	case status >= http.StatusInternalServerError:
		return "critical"
	case status == http.StatusTooManyRequests:
		return "low"
	default:
		return "medium"
	}
}

// statusRecorder remembers the status and, when writeError produced the
// body, the error code.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	errorCode string
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// errorCoder is implemented by writers that want the error code of a failed
// response.
type errorCoder interface {
	setErrorCode(code string)
}

func (rw *statusRecorder) setErrorCode(code string) { rw.errorCode = code }
