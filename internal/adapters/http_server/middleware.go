package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"steam_reviews/internal/adapters/observability"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// srw records the status code written by the wrapped handler.
type srw struct {
	http.ResponseWriter
	status int
}

func (w *srw) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *srw) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *srw) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// Observe records request metrics and writes one access-log line per request.
// 5xx responses log at error level, 4xx at warn.
func Observe(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &srw{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			dur := time.Since(start)
			route := routeOf(r)
			status := sw.Status()
			observability.ObserveHTTP(route, r.Method, status, dur)

			ev := l.Info()
			switch {
			case status >= 500:
				ev = l.Error()
			case status >= 400:
				ev = l.Warn()
			}
			ev.Str("request_id", chimw.GetReqID(r.Context())).
				Str("route", route).
				Str("method", r.Method).
				Int("status", status).
				Dur("duration", dur).
				Str("remote", remoteIP(r)).
				Str("ua", r.UserAgent()).
				Msg("http_request")
		})
	}
}

// remoteIP strips the port; RealIP has already applied forwarding headers.
func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
