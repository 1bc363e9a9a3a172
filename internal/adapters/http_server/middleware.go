package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"wanderbot/internal/adapters/observability"
)

const timeoutBody = `{"type":"about:blank","title":"Service Unavailable","status":503,"detail":"request timed out"}`

// Timeout answers 503 with a problem body when a handler runs past d.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		th := http.TimeoutHandler(next, d, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			th.ServeHTTP(timeoutWriter{w}, r)
		})
	}
}

// timeoutWriter labels the bare 503 http.TimeoutHandler writes on expiry.
// Handler responses arrive with their own Content-Type and pass through.
type timeoutWriter struct{ http.ResponseWriter }

func (w timeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/problem+json")
	}
	w.ResponseWriter.WriteHeader(code)
}

// Observe records one access log line and the HTTP metrics per request.
// Handlers reach a logger tagged with the request id through zerolog.Ctx.
func Observe(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			reqLog := base.With().Str("request_id", chimw.GetReqID(r.Context())).Logger()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(reqLog.WithContext(r.Context())))

			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			pattern := routeOf(r)
			took := time.Since(began)
			observability.ObserveHTTP(pattern, r.Method, code, took)

			lvl := zerolog.InfoLevel
			if code >= http.StatusInternalServerError {
				lvl = zerolog.ErrorLevel
			}
			reqLog.WithLevel(lvl).
				Str("route", pattern).
				Str("method", r.Method).
				Int("status", code).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", took).
				Str("remote", r.RemoteAddr).
				Msg("http_request")
		})
	}
}

// routeOf prefers the matched chi pattern so path ids do not explode label cardinality.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// LimitBody caps request bodies; handlers see *http.MaxBytesError past n bytes.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
