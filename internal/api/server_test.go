package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/H1W0XXX/molview/internal/config"
	"github.com/H1W0XXX/molview/internal/depict"
	"github.com/H1W0XXX/molview/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(config.Default(), zap.NewNop(), metrics.New())
}

func get(t *testing.T, s *Server, path string, params url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if params != nil {
		target += "?" + params.Encode()
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func molView(t *testing.T, s *Server, kv ...string) *httptest.ResponseRecorder {
	t.Helper()
	params := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		params.Set(kv[i], kv[i+1])
	}
	return get(t, s, config.DefaultRoute, params)
}

func TestMolView_MissingSMILES(t *testing.T) {
	w := get(t, newTestServer(t), config.DefaultRoute, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, PromptText, w.Body.String())
	assert.Equal(t, depict.TextContentType, w.Header().Get("Content-Type"))
}

func TestMolView_SVG(t *testing.T) {
	s := newTestServer(t)
	w := molView(t, s, "smiles", "OCC")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")
	assert.Contains(t, w.Body.String(), "width='200px' height='200px'")

	stripped := molView(t, s, "smiles", "OCC.svg")
	assert.Equal(t, w.Body.String(), stripped.Body.String())
}

func TestMolView_InvalidSMILES(t *testing.T) {
	for _, smi := range []string{"C1CC", "not a molecule", ""} {
		w := molView(t, newTestServer(t), "smiles", smi)
		assert.Equal(t, http.StatusOK, w.Code, smi)
		assert.Equal(t, depict.NoneMol, w.Body.String(), smi)
	}
}

func TestMolView_PNG(t *testing.T) {
	w := molView(t, newTestServer(t), "smiles", "c1ccccc1", "img_type", "png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestMolView_Dimensions(t *testing.T) {
	s := newTestServer(t)
	w := molView(t, s, "smiles", "CC", "width", "300", "height", "100")
	assert.Contains(t, w.Body.String(), "width='300px' height='100px'")

	w = molView(t, s, "smiles", "CC", "width", "0", "height", "0")
	assert.Contains(t, w.Body.String(), "width='200px' height='200px'")

	for _, bad := range []string{"abc", "-4", "100000", "1.5"} {
		w = molView(t, s, "smiles", "CC", "height", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestMolView_AtomIndices(t *testing.T) {
	s := newTestServer(t)
	w := molView(t, s, "smiles", "CCO", "atom_indices", "1,2,104,False")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stroke:#FFFF00")

	w = molView(t, s, "smiles", "CCO", "atom_indices", "1,2,104,perhaps")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "value not parsable")

	w = molView(t, s, "smiles", "CCO", "atom_indices", "0,2,104,no")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no bond")
}

func TestMolView_AtomIndicesUnparsable(t *testing.T) {
	w := molView(t, newTestServer(t), "smiles", "C1CC", "atom_indices", "0,1,104,no")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, depict.NoneMol, w.Body.String())
}

func TestMolView_Markers(t *testing.T) {
	s := newTestServer(t)
	w := molView(t, s, "smiles", "[104Xe]CCC")
	require.Equal(t, http.StatusOK, w.Code)
	// a lone marker always takes the 101 color
	assert.Contains(t, w.Body.String(), "stroke:#00FF00")
	assert.NotContains(t, w.Body.String(), "stroke:#FFFF00")
	assert.NotContains(t, w.Body.String(), ">Xe<")

	w = molView(t, s, "smiles", "[100Xe]CCC[102Xe]")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stroke:#FF0000")
	assert.Contains(t, w.Body.String(), "stroke:#0000FF")

	w = molView(t, s, "smiles", "[Xe]CC[Xe]")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)
	w := molView(t, s)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestServer(t), "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)
	molView(t, s, "smiles", "CCO")
	w := get(t, s, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "molview_http_requests_total")
	assert.Contains(t, w.Body.String(), `molview_render_total{format="svg",outcome="image"} 1`)

	cfg := config.Default()
	cfg.Metrics.Enabled = false
	off := NewServer(cfg, zap.NewNop(), metrics.New())
	assert.Equal(t, http.StatusNotFound, get(t, off, "/metrics", nil).Code)
}

func TestMolView_ClearBackgroundConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.ClearBackground = true
	s := NewServer(cfg, zap.NewNop(), nil)
	w := molView(t, s, "smiles", "CC")
	assert.Contains(t, w.Body.String(), "<rect")
}
