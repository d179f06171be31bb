package controller

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-chat-be/internal/config"
)

func newHealthTestApp() *fiber.App {
	app := fiber.New()
	NewHealthController(nil, nil, config.AIConfig{
		EmbeddingProvider: "huggingface",
		LLMProvider:       "openai",
	}).RegisterRoutes(app)
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRootEndpoint(t *testing.T) {
	app := newHealthTestApp()

	status, body := getJSON(t, app, "/")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "AI Chat API", body["message"])

	endpoints, ok := body["endpoints"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/health", endpoints["health"])
}

func TestHealthReportsProviders(t *testing.T) {
	app := newHealthTestApp()

	// No database wired, so the check degrades to unhealthy but still names
	// the configured providers.
	status, body := getJSON(t, app, "/health")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "disconnected", body["database"])

	providers, ok := body["providers"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "huggingface", providers["embedding"])
	assert.Equal(t, "openai", providers["llm"])
}
