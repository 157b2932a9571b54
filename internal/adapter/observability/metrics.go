package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"route", "method"},
	)

	AssessmentsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assessments_submitted_total",
			Help: "Total number of scored assessments",
		},
	)
	PersonalityTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_personality_total",
			Help: "Scored assessments by resulting personality code",
		},
		[]string{"personality"},
	)
	RecommendationScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_score",
			Help:    "Distribution of returned recommendation scores",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 15, 20},
		},
	)
	RecommendationFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallback_total",
			Help: "Recommendation calls by whether non-matching entries were used to fill the list",
		},
		[]string{"fallback"},
	)
	RecommendationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_total",
			Help: "Recommendation cache lookups by result",
		},
		[]string{"result"},
	)
	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Catalog reload attempts by status",
		},
		[]string{"status"},
	)
	CatalogEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "Entries in the current catalog snapshot",
		},
		[]string{"catalog"},
	)
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Published domain events by topic and status",
		},
		[]string{"topic", "status"},
	)
)

var initOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(AssessmentsSubmittedTotal)
		prometheus.MustRegister(PersonalityTotal)
		prometheus.MustRegister(RecommendationScore)
		prometheus.MustRegister(RecommendationFallbackTotal)
		prometheus.MustRegister(RecommendationCacheTotal)
		prometheus.MustRegister(CatalogReloadsTotal)
		prometheus.MustRegister(CatalogEntries)
		prometheus.MustRegister(EventsPublishedTotal)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = "unmatched"
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveAssessment counts one scored assessment.
func ObserveAssessment(personality string) {
	AssessmentsSubmittedTotal.Inc()
	if len(personality) != 4 {
		personality = "invalid"
	}
	PersonalityTotal.WithLabelValues(personality).Inc()
}

// ObserveRecommendations records the scores of one returned list.
func ObserveRecommendations(recs []domain.Recommendation, fallback bool) {
	for _, r := range recs {
		RecommendationScore.Observe(float64(r.Score))
	}
	label := "false"
	if fallback {
		label = "true"
	}
	RecommendationFallbackTotal.WithLabelValues(label).Inc()
}

// RecordCacheLookup counts a cache hit, miss or error.
func RecordCacheLookup(result string) {
	RecommendationCacheTotal.WithLabelValues(result).Inc()
}

// RecordCatalogReload counts a reload attempt and, on success, the snapshot size.
func RecordCatalogReload(snap *domain.CatalogSnapshot, err error) {
	if err != nil {
		CatalogReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	CatalogReloadsTotal.WithLabelValues("ok").Inc()
	if snap != nil {
		CatalogEntries.WithLabelValues("questions").Set(float64(len(snap.Questions)))
		CatalogEntries.WithLabelValues("careers").Set(float64(len(snap.Careers)))
	}
}

// RecordEventPublish counts a publish attempt.
func RecordEventPublish(topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublishedTotal.WithLabelValues(topic, status).Inc()
}
