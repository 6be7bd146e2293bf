package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"food_explorer/internal/domain"
)

const namespace = "foodblog"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "API requests by route pattern."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "API request duration seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
		},
		[]string{"route", "method"},
	)
	ContentRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "content_api_requests_total", Help: "Queries sent to the content API."},
		[]string{"endpoint", "status"},
	)
	ContentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "content_api_request_duration_seconds",
			Help:    "Content API query duration seconds, retries included.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Restaurant list cache hits, misses, sets and invalidations."},
		[]string{"cache", "event"},
	)
	StoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "store_operations_total", Help: "Record store reads and writes."},
		[]string{"store", "op", "result"}, // result: ok|error|lenient
	)
	StoredRestaurants = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: namespace, Name: "restaurants_stored", Help: "Records in the collection after the last read or write."},
		[]string{"store"},
	)
	RestaurantWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "restaurant_writes_total", Help: "API create and delete outcomes."},
		[]string{"op", "result"}, // result: ok|invalid|conflict|not_found|error
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency,
		ContentRequests, ContentLatency,
		CacheEvents,
		StoreOps, StoredRestaurants,
		RestaurantWrites,
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on its own listener; an empty addr leaves it off.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("metrics listener up")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics listener stopped")
		}
	}()
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveContent records one content API call; status 0 means no response arrived.
func ObserveContent(endpoint string, status int, dur time.Duration) {
	ContentRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	ContentLatency.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveStore(store, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOps.WithLabelValues(store, op, result).Inc()
}

// ObserveLenientRead counts a read that dropped an unreadable document or record.
func ObserveLenientRead(store string) {
	StoreOps.WithLabelValues(store, "read", "lenient").Inc()
}

func SetStored(store string, n int) {
	StoredRestaurants.WithLabelValues(store).Set(float64(n))
}

// ObserveWrite counts a create/delete/seed by outcome.
func ObserveWrite(op string, err error) {
	RestaurantWrites.WithLabelValues(op, WriteResult(err)).Inc()
}

// WriteResult maps a write error onto a low-cardinality label.
func WriteResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
