package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HuggingFaceProvider generates embeddings through the HF inference API
// feature-extraction pipeline (e.g. sentence-transformers/all-MiniLM-L6-v2).
type HuggingFaceProvider struct {
	apiToken  string
	baseURL   string
	model     string
	dimension int
	client    *http.Client
}

func NewHuggingFaceProvider(apiToken, model string, dimension int) *HuggingFaceProvider {
	if model == "" {
		model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if dimension <= 0 {
		dimension = 384
	}
	return &HuggingFaceProvider{
		apiToken:  apiToken,
		baseURL:   "https://router.huggingface.co/hf-inference/models",
		model:     model,
		dimension: dimension,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type hfEmbeddingRequest struct {
	Inputs []string `json:"inputs"`
}

func (p *HuggingFaceProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// TaskType has no meaning for sentence-transformers models; kept for interface compatibility.
	reqBody := hfEmbeddingRequest{Inputs: []string{text}}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/pipeline/feature-extraction", p.baseURL, p.model)
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface embedding error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	// Response is a batch of vectors: [[f, f, ...]]
	var vectors [][]float32
	if err := json.Unmarshal(bodyBytes, &vectors); err != nil {
		return nil, fmt.Errorf("huggingface embedding decode: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("huggingface embedding: empty response")
	}

	values := vectors[0]
	if len(values) != p.dimension {
		return nil, fmt.Errorf("huggingface embedding: expected %d dimensions, got %d", p.dimension, len(values))
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalizeVector(values),
		},
	}, nil
}

func (p *HuggingFaceProvider) Dimension() int {
	return p.dimension
}
