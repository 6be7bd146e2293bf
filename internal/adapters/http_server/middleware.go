package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"food_explorer/internal/adapters/observability"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"success":false,"error":"Request timed out"}`)
	}
}

// recorder remembers the status and size of what a handler wrote.
type recorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *recorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *recorder) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// routeOf returns the matched chi pattern so /restaurants/{slug} stays one series.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// quietRoutes are hit by health checks and scrapers; they log at debug.
var quietRoutes = map[string]bool{"/healthz": true, "/metrics": true, "/metrics/*": true}

// AccessLog records request metrics and writes one log line per request.
// Lines carry the restaurant slug, delete id and list filters when present.
// 4xx responses log at warn and 5xx at error.
func AccessLog(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			took := time.Since(start)
			route := routeOf(r)
			status := rec.code()
			observability.ObserveHTTP(route, r.Method, status, took)

			var ev *zerolog.Event
			switch {
			case status >= 500:
				ev = l.Error()
			case status >= 400:
				ev = l.Warn()
			case quietRoutes[route]:
				ev = l.Debug()
			default:
				ev = l.Info()
			}
			ev = ev.
				Str("req", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Int("size", rec.size).
				Float64("took_ms", float64(took.Microseconds())/1000)
			if slug := chi.URLParam(r, "slug"); slug != "" {
				ev = ev.Str("slug", slug)
			}
			if r.Method == http.MethodDelete {
				ev = ev.Str("restaurant_id", r.URL.Query().Get("id"))
			} else if q := r.URL.RawQuery; q != "" {
				ev = ev.Str("filters", q)
			}
			ev.Msg("restaurant api")
		})
	}
}
