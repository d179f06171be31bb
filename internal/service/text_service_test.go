package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/repository/cache"
	"ai-chat-be/pkg/llm"
)

type fakeLLMProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLMProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLMProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, nil, options...)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestTextService(t *testing.T, provider llm.LLMProvider) ITextService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	resultCache := cache.NewLLMResultCache(client, time.Hour)
	return NewTextService(provider, resultCache, nopLogger{})
}

func TestSummarize(t *testing.T) {
	provider := &fakeLLMProvider{response: "  a concise summary  "}
	svc := newTestTextService(t, provider)

	res, err := svc.Summarize(context.Background(), &dto.TextSummarizeRequest{
		Text: "some long text that needs summarizing",
	})
	require.NoError(t, err)
	assert.Equal(t, "a concise summary", res.Summary)
	assert.Equal(t, len("some long text that needs summarizing"), res.OriginalLength)
	assert.Equal(t, len("a concise summary"), res.SummaryLength)
	assert.Equal(t, 1, provider.calls)
}

func TestSummarizeCountsRunesNotBytes(t *testing.T) {
	provider := &fakeLLMProvider{response: "résumé"}
	svc := newTestTextService(t, provider)

	res, err := svc.Summarize(context.Background(), &dto.TextSummarizeRequest{
		Text: "héllo wörld, ça va très bien",
	})
	require.NoError(t, err)
	assert.Equal(t, 28, res.OriginalLength)
	assert.Equal(t, 6, res.SummaryLength)
}

func TestSummarizeCachesResult(t *testing.T) {
	provider := &fakeLLMProvider{response: "summary"}
	svc := newTestTextService(t, provider)

	req := &dto.TextSummarizeRequest{Text: "same text"}
	_, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)

	res, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "summary", res.Summary)
	assert.Equal(t, 1, provider.calls, "second call should come from cache")

	// Different length bounds miss the cache.
	_, err = svc.Summarize(context.Background(), &dto.TextSummarizeRequest{Text: "same text", MaxLength: 50, MinLength: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestSummarizeRejectsInvertedBounds(t *testing.T) {
	svc := newTestTextService(t, &fakeLLMProvider{response: "x"})

	_, err := svc.Summarize(context.Background(), &dto.TextSummarizeRequest{
		Text: "text", MaxLength: 10, MinLength: 50,
	})
	assert.Error(t, err)
}

func TestSummarizeProviderError(t *testing.T) {
	svc := newTestTextService(t, &fakeLLMProvider{err: fmt.Errorf("model down")})

	_, err := svc.Summarize(context.Background(), &dto.TextSummarizeRequest{Text: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model down")
}

func TestAnalyzeSentimentParsesModelJSON(t *testing.T) {
	provider := &fakeLLMProvider{
		response: `{"sentiment":"positive","confidence":0.92,"scores":{"positive":0.92,"negative":0.03,"neutral":0.05}}`,
	}
	svc := newTestTextService(t, provider)

	res, err := svc.AnalyzeSentiment(context.Background(), &dto.SentimentAnalysisRequest{Text: "I love this"})
	require.NoError(t, err)
	assert.Equal(t, "positive", res.Sentiment)
	assert.InDelta(t, 0.92, res.Confidence, 1e-9)
	assert.InDelta(t, 0.03, res.Scores["negative"], 1e-9)
}

func TestAnalyzeSentimentStripsMarkdownFences(t *testing.T) {
	provider := &fakeLLMProvider{
		response: "```json\n{\"sentiment\":\"negative\",\"confidence\":0.8,\"scores\":{\"positive\":0.1,\"negative\":0.8,\"neutral\":0.1}}\n```",
	}
	svc := newTestTextService(t, provider)

	res, err := svc.AnalyzeSentiment(context.Background(), &dto.SentimentAnalysisRequest{Text: "awful"})
	require.NoError(t, err)
	assert.Equal(t, "negative", res.Sentiment)
}

func TestAnalyzeSentimentFallsBackOnGarbage(t *testing.T) {
	provider := &fakeLLMProvider{response: "I think this text is quite positive overall!"}
	svc := newTestTextService(t, provider)

	res, err := svc.AnalyzeSentiment(context.Background(), &dto.SentimentAnalysisRequest{
		Text: "this is great and wonderful",
	})
	require.NoError(t, err)
	// Lexicon fallback kicks in.
	assert.Equal(t, "positive", res.Sentiment)
	assert.InDelta(t, 0.7, res.Confidence, 1e-9)
}

func TestAnalyzeSentimentFallsBackOnProviderError(t *testing.T) {
	provider := &fakeLLMProvider{err: fmt.Errorf("timeout")}
	svc := newTestTextService(t, provider)

	res, err := svc.AnalyzeSentiment(context.Background(), &dto.SentimentAnalysisRequest{
		Text: "terrible awful experience",
	})
	require.NoError(t, err)
	assert.Equal(t, "negative", res.Sentiment)
}

func TestAnalyzeSentimentCachesResult(t *testing.T) {
	provider := &fakeLLMProvider{
		response: `{"sentiment":"neutral","confidence":0.6,"scores":{"positive":0.2,"negative":0.2,"neutral":0.6}}`,
	}
	svc := newTestTextService(t, provider)

	req := &dto.SentimentAnalysisRequest{Text: "the sky exists"}
	_, err := svc.AnalyzeSentiment(context.Background(), req)
	require.NoError(t, err)

	res, err := svc.AnalyzeSentiment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "neutral", res.Sentiment)
	assert.Equal(t, 1, provider.calls)
}
