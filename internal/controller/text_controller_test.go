package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
)

type stubTextService struct {
	summary   *dto.TextSummarizeResponse
	sentiment *dto.SentimentAnalysisResponse
	err       error
}

func (s *stubTextService) Summarize(ctx context.Context, req *dto.TextSummarizeRequest) (*dto.TextSummarizeResponse, error) {
	return s.summary, s.err
}

func (s *stubTextService) AnalyzeSentiment(ctx context.Context, req *dto.SentimentAnalysisRequest) (*dto.SentimentAnalysisResponse, error) {
	return s.sentiment, s.err
}

func newTextTestApp(svc *stubTextService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewTextController(svc).RegisterRoutes(app)
	return app
}

func postJSON(app *fiber.App, path string, body interface{}) (int, []byte) {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.Bytes()
}

func TestSummarizeEndpoint(t *testing.T) {
	app := newTextTestApp(&stubTextService{
		summary: &dto.TextSummarizeResponse{Summary: "short", OriginalLength: 100, SummaryLength: 5},
	})

	status, body := postJSON(app, "/text/summarize", dto.TextSummarizeRequest{Text: "long text"})
	require.Equal(t, fiber.StatusOK, status)

	var envelope struct {
		Status string                    `json:"status"`
		Data   dto.TextSummarizeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, "short", envelope.Data.Summary)
}

func TestSummarizeEndpointValidation(t *testing.T) {
	app := newTextTestApp(&stubTextService{})

	// Missing required text field
	status, _ := postJSON(app, "/text/summarize", map[string]interface{}{"max_length": 100})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSentimentEndpoint(t *testing.T) {
	app := newTextTestApp(&stubTextService{
		sentiment: &dto.SentimentAnalysisResponse{
			Sentiment:  "positive",
			Confidence: 0.9,
			Scores:     map[string]float64{"positive": 0.9, "negative": 0.05, "neutral": 0.05},
		},
	})

	status, body := postJSON(app, "/text/sentiment", dto.SentimentAnalysisRequest{Text: "love it"})
	require.Equal(t, fiber.StatusOK, status)

	var envelope struct {
		Data dto.SentimentAnalysisResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "positive", envelope.Data.Sentiment)
}

func TestSentimentEndpointServiceError(t *testing.T) {
	app := newTextTestApp(&stubTextService{err: fmt.Errorf("backend unavailable")})

	status, body := postJSON(app, "/text/sentiment", dto.SentimentAnalysisRequest{Text: "anything"})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, string(body), "backend unavailable")
}
