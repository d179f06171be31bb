package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/cache"
	"ai-chat-be/pkg/lexical"
	"ai-chat-be/pkg/llm"
)

const (
	defaultSummaryMaxLength = 150
	defaultSummaryMinLength = 30
)

type ITextService interface {
	Summarize(ctx context.Context, req *dto.TextSummarizeRequest) (*dto.TextSummarizeResponse, error)
	AnalyzeSentiment(ctx context.Context, req *dto.SentimentAnalysisRequest) (*dto.SentimentAnalysisResponse, error)
}

type textService struct {
	llmProvider llm.LLMProvider
	resultCache *cache.LLMResultCache
	log         logger.ILogger
}

func NewTextService(llmProvider llm.LLMProvider, resultCache *cache.LLMResultCache, log logger.ILogger) ITextService {
	return &textService{
		llmProvider: llmProvider,
		resultCache: resultCache,
		log:         log,
	}
}

func (s *textService) Summarize(ctx context.Context, req *dto.TextSummarizeRequest) (*dto.TextSummarizeResponse, error) {
	maxLength := req.MaxLength
	if maxLength <= 0 {
		maxLength = defaultSummaryMaxLength
	}
	minLength := req.MinLength
	if minLength <= 0 {
		minLength = defaultSummaryMinLength
	}
	if minLength > maxLength {
		return nil, fmt.Errorf("min_length (%d) cannot exceed max_length (%d)", minLength, maxLength)
	}

	cacheKey := cache.SummaryKey(req.Text, maxLength, minLength)
	var cached dto.TextSummarizeResponse
	if hit, err := s.resultCache.Get(ctx, cacheKey, &cached); err != nil {
		s.log.Warn("text", "summary cache lookup failed", map[string]interface{}{"error": err.Error()})
	} else if hit {
		return &cached, nil
	}

	promptText := fmt.Sprintf(constant.SummarizePromptTemplate, maxLength, minLength, req.Text)
	summary, err := s.llmProvider.Generate(ctx, promptText,
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(maxLength*2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize text: %w", err)
	}
	summary = strings.TrimSpace(summary)

	res := &dto.TextSummarizeResponse{
		Summary:        summary,
		OriginalLength: utf8.RuneCountInString(req.Text),
		SummaryLength:  utf8.RuneCountInString(summary),
	}

	if err := s.resultCache.Set(ctx, cacheKey, res); err != nil {
		s.log.Warn("text", "failed to cache summary", map[string]interface{}{"error": err.Error()})
	}
	return res, nil
}

func (s *textService) AnalyzeSentiment(ctx context.Context, req *dto.SentimentAnalysisRequest) (*dto.SentimentAnalysisResponse, error) {
	cacheKey := cache.SentimentKey(req.Text)
	var cached dto.SentimentAnalysisResponse
	if hit, err := s.resultCache.Get(ctx, cacheKey, &cached); err != nil {
		s.log.Warn("text", "sentiment cache lookup failed", map[string]interface{}{"error": err.Error()})
	} else if hit {
		return &cached, nil
	}

	res := s.analyzeWithModel(ctx, req.Text)

	if err := s.resultCache.Set(ctx, cacheKey, res); err != nil {
		s.log.Warn("text", "failed to cache sentiment", map[string]interface{}{"error": err.Error()})
	}
	return res, nil
}

// analyzeWithModel asks the LLM for a strict JSON verdict, falling back to
// the keyword lexicon when the call fails or the output isn't valid JSON.
func (s *textService) analyzeWithModel(ctx context.Context, text string) *dto.SentimentAnalysisResponse {
	promptText := fmt.Sprintf(constant.SentimentPromptTemplate, text)
	raw, err := s.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.1))
	if err != nil {
		s.log.Warn("text", "sentiment model call failed, using lexical fallback", map[string]interface{}{"error": err.Error()})
		return lexicalSentiment(text)
	}

	var parsed dto.SentimentAnalysisResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil || parsed.Sentiment == "" {
		s.log.Warn("text", "sentiment response unparseable, using lexical fallback", map[string]interface{}{"raw": raw})
		return lexicalSentiment(text)
	}
	return &parsed
}

func lexicalSentiment(text string) *dto.SentimentAnalysisResponse {
	res := lexical.AnalyzeSentiment(text)
	return &dto.SentimentAnalysisResponse{
		Sentiment:  res.Sentiment,
		Confidence: res.Confidence,
		Scores:     res.Scores,
	}
}

// extractJSON strips markdown fences and surrounding prose that models like
// to wrap around JSON answers.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}
