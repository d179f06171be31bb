package factory

import (
	"fmt"

	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/ollama"
	"ai-chat-be/pkg/llm/openai"
)

// NewLLMProvider builds the chat provider for the configured backend. Each
// provider consumes only its own base URL, so an Ollama default never leaks
// into the OpenAI client.
func NewLLMProvider(providerType, modelName, openAIBaseURL, ollamaBaseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(apiKey, openAIBaseURL, modelName), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
