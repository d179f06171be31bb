package embedding

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	vec := normalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)

	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)

	// Zero vector must pass through untouched, not divide by zero.
	zero := normalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)
}

func TestHuggingFaceProviderGenerate(t *testing.T) {
	vector := make([]float32, 384)
	vector[0] = 3
	vector[1] = 4

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req hfEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Inputs, 1)
		assert.Equal(t, "hello", req.Inputs[0])

		json.NewEncoder(w).Encode([][]float32{vector})
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("test-token", "sentence-transformers/all-MiniLM-L6-v2", 384)
	p.baseURL = srv.URL + "/models"

	res, err := p.Generate("hello", TaskTypeQuery)
	require.NoError(t, err)
	require.Len(t, res.Embedding.Values, 384)
	// Returned vector is normalized
	assert.InDelta(t, 0.6, res.Embedding.Values[0], 1e-6)
	assert.InDelta(t, 0.8, res.Embedding.Values[1], 1e-6)
}

func TestHuggingFaceProviderDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]float32{{1, 2, 3}})
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("", "", 384)
	p.baseURL = srv.URL + "/models"

	_, err := p.Generate("hello", TaskTypeDocument)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "384 dimensions")
}

func TestHuggingFaceProviderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model loading"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("", "", 384)
	p.baseURL = srv.URL + "/models"

	_, err := p.Generate("hello", TaskTypeDocument)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
