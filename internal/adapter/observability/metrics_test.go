package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

func TestHTTPMetricsMiddleware_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	mw := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(204) }))
	mw.ServeHTTP(rec, r)
	if rec.Result().StatusCode != 204 {
		t.Fatalf("want 204")
	}
}

func TestHTTPMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMetricsMiddleware)
	r.Get("/v1/assessment/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/v1/assessment/{id}", http.MethodGet, "OK"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/assessment/abc", nil))
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/v1/assessment/{id}", http.MethodGet, "OK"))
	assert.Equal(t, before+1, after)
}

func TestDomainMetricsHelpers(t *testing.T) {
	InitMetrics()
	InitMetrics()

	ObserveAssessment("INTJ")
	ObserveAssessment("bogus-code")
	assert.GreaterOrEqual(t, testutil.ToFloat64(PersonalityTotal.WithLabelValues("invalid")), 1.0)

	ObserveRecommendations([]domain.Recommendation{{Score: 8}, {Score: 0}}, true)
	assert.GreaterOrEqual(t, testutil.ToFloat64(RecommendationFallbackTotal.WithLabelValues("true")), 1.0)

	RecordCacheLookup("hit")
	RecordCatalogReload(&domain.CatalogSnapshot{Questions: make([]domain.Question, 3)}, nil)
	assert.Equal(t, 3.0, testutil.ToFloat64(CatalogEntries.WithLabelValues("questions")))
	RecordCatalogReload(nil, errors.New("boom"))
	RecordEventPublish("assessment-completed", nil)
	RecordEventPublish("assessment-completed", errors.New("down"))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("assessment-completed", "error")), 1.0)
}
