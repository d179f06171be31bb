package dto

type TextSummarizeRequest struct {
	Text      string `json:"text" validate:"required"`
	MaxLength int    `json:"max_length" validate:"omitempty,min=1"`
	MinLength int    `json:"min_length" validate:"omitempty,min=1"`
}

type TextSummarizeResponse struct {
	Summary        string `json:"summary"`
	OriginalLength int    `json:"original_length"`
	SummaryLength  int    `json:"summary_length"`
}

type SentimentAnalysisRequest struct {
	Text string `json:"text" validate:"required"`
}

type SentimentAnalysisResponse struct {
	Sentiment  string             `json:"sentiment"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
}
