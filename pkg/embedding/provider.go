package embedding

// Task types hint the provider at the retrieval role of the text.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponseEmbedding struct {
	Values []float32
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
	// Dimension reports the output width of the configured model
	Dimension() int
}
