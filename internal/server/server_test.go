package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
	"github.com/medsift/medsift/internal/pipeline"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	full, err := pipeline.New(cfg)
	require.NoError(t, err)
	direct, err := pipeline.NewDirect(cfg)
	require.NoError(t, err)
	return New(cfg, full, direct)
}

func TestHealthEndpoint(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestStatusEndpoint(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, Version, body["pipeline_version"])
	assert.Equal(t, "1000000", body["max_amount_value"])
	assert.NotZero(t, body["taxonomy_entries"])
}

func TestExtract_JSONBody(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	payload := `{"text": "Consultation: Rs.500\nTotal: Rs.500"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result model.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, model.StatusOK, result.Status)
	require.NotNil(t, result.Currency)
	assert.Equal(t, model.CurrencyINR, *result.Currency)
	require.Len(t, result.Amounts, 2)
	assert.Equal(t, model.Known(model.TagConsultation), result.Amounts[0].Type)
}

func TestExtract_PlainTextBody(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader("Total: $120"))
	req.Header.Set("Content-Type", "text/plain")
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var result model.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, model.StatusOK, result.Status)
	require.NotNil(t, result.Currency)
	assert.Equal(t, model.CurrencyUSD, *result.Currency)
}

func TestExtract_DirectEndpoint(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract/direct", strings.NewReader("Sub Total Rs.470.40"))
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var result model.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Amounts, 1)
	assert.Equal(t, model.Known(model.TagSubTotal), result.Amounts[0].Type)
}

func TestExtract_MethodNotAllowed(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/extract", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExtract_OversizedInput(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(strings.Repeat("a", 10_001)))
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too long")
}

func TestExtract_BadJSON(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtract_EmptyBody(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(""))
	s.ServeHTTP(rec, req)

	// Empty text is not a transport error: the pipeline reports it.
	assert.Equal(t, http.StatusOK, rec.Code)
	var result model.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, model.StatusNoAmounts, result.Status)
}
