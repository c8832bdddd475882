package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/mol_view/", 200, 5*time.Millisecond)
	m.ObserveRequest("GET", "/api/mol_view/", 200, 7*time.Millisecond)
	m.ObserveRequest("GET", "/api/mol_view/", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/mol_view/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/mol_view/", "400")))

	out := scrape(t, m)
	assert.Contains(t, out, "molview_http_requests_total")
	assert.Contains(t, out, "molview_http_request_duration_seconds")
}

func TestObserveRender(t *testing.T) {
	m := New()
	m.ObserveRender("svg", OutcomeImage, 3*time.Millisecond)
	m.ObserveRender("png", OutcomeNoneMol, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues("svg", OutcomeImage)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues("png", OutcomeNoneMol)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RenderDuration))
}

func TestObserveHighlight(t *testing.T) {
	m := New()
	m.ObserveHighlight(SourceMarkers)
	m.ObserveHighlight(SourceMarkers)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HighlightsTotal.WithLabelValues(SourceMarkers)))
	assert.Contains(t, scrape(t, m), `molview_highlight_requests_total{source="markers"} 2`)
}

func TestNew_Independent(t *testing.T) {
	a, b := New(), New()
	a.ObserveHighlight(SourceNone)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.HighlightsTotal.WithLabelValues(SourceNone)))
}
