// Package metrics exposes Prometheus instrumentation for provider fetches
// and AI calls.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	providerFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocktracker_provider_fetches_total",
		Help: "Market data provider calls by provider, operation and error state.",
	}, []string{"provider", "operation", "error"})

	providerFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stocktracker_provider_fetch_duration_seconds",
		Help:    "Market data provider call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation"})

	aiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocktracker_ai_requests_total",
		Help: "AI narrator calls by kind (analyze/chat) and error state.",
	}, []string{"kind", "error"})

	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocktracker_cache_hits_total",
		Help: "Cache hits by cache name.",
	}, []string{"cache"})
)

// ObserveFetch records one provider call.
func ObserveFetch(provider, operation string, start time.Time, err error) {
	providerFetches.WithLabelValues(provider, operation, strconv.FormatBool(err != nil)).Inc()
	providerFetchDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}

// ObserveAI records one narrator call.
func ObserveAI(kind string, err error) {
	aiRequests.WithLabelValues(kind, strconv.FormatBool(err != nil)).Inc()
}

// CacheHit records a hit on the named cache.
func CacheHit(cache string) {
	cacheHits.WithLabelValues(cache).Inc()
}

// Handler adapts the Prometheus scrape handler to Fiber's fasthttp stack.
func Handler() fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}
