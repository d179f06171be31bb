package lexical

import (
	"strings"
)

// Result mirrors the shape the LLM-based analyzer returns, so callers can
// swap between the two without branching.
type Result struct {
	Sentiment  string             `json:"sentiment"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
}

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful",
	"fantastic", "love", "like", "happy", "joy",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "dislike",
	"sad", "angry", "frustrated", "disappointed",
}

// AnalyzeSentiment scores text with a small keyword lexicon. It is the
// fallback path when the model call fails or returns unparseable output.
func AnalyzeSentiment(text string) Result {
	textLower := strings.ToLower(text)

	positiveCount := 0
	for _, word := range positiveWords {
		if strings.Contains(textLower, word) {
			positiveCount++
		}
	}
	negativeCount := 0
	for _, word := range negativeWords {
		if strings.Contains(textLower, word) {
			negativeCount++
		}
	}

	var sentiment string
	var confidence float64
	switch {
	case positiveCount > negativeCount:
		sentiment = "positive"
		confidence = min(0.8, 0.5+float64(positiveCount-negativeCount)*0.1)
	case negativeCount > positiveCount:
		sentiment = "negative"
		confidence = min(0.8, 0.5+float64(negativeCount-positiveCount)*0.1)
	default:
		sentiment = "neutral"
		confidence = 0.5
	}

	wordCount := len(strings.Fields(text))
	if wordCount == 0 {
		wordCount = 1
	}

	return Result{
		Sentiment:  sentiment,
		Confidence: confidence,
		Scores: map[string]float64{
			"positive": float64(positiveCount) / float64(wordCount),
			"negative": float64(negativeCount) / float64(wordCount),
			"neutral":  1 - float64(positiveCount+negativeCount)/float64(wordCount),
		},
	}
}
