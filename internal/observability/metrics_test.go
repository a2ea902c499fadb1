package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsNilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveSubmission("analyzed")
	m.ObserveAccuracy(90)
	m.CatalogCacheHit()
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsExposeDomainSeries(t *testing.T) {
	m := NewMetrics()
	m.ObserveSubmission("analyzed")
	m.ObserveSubmission("analyzed")
	m.ObserveSubmission("rejected")
	m.ObserveAccuracy(86)
	m.ObserveAPI("POST", "/api/recitation", "200", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("analyzed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("rejected")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "quran_recitation_accuracy_score_count 1"))
	assert.True(t, strings.Contains(body, `quran_api_requests_total{method="POST",route="/api/recitation",status="200"} 1`))
}
