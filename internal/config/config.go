package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI       string
	HuggingFace  string
	ProcessTopic string // Document processing topic
}

type AIConfig struct {
	EmbeddingProvider  string // "huggingface" or "ollama"
	EmbeddingModel     string
	EmbeddingDimension int
	OllamaBaseURL      string
	OllamaModel        string
	OpenAIBaseURL      string // empty means the public OpenAI endpoint
	LLMProvider        string // "openai" or "ollama"
	LLMModel           string // e.g. "gpt-3.5-turbo", "llama3"
	ChunkSize          int
	ChunkOverlap       int
	RetrievalTopK      int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_TOKEN", ""),
			ProcessTopic: getEnv("PROCESS_DOCUMENT_TOPIC_NAME", "PROCESS_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "huggingface"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 384),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
			LLMProvider:        getEnv("LLM_PROVIDER", "openai"),
			LLMModel:           getEnv("LLM_MODEL", "gpt-3.5-turbo"),
			ChunkSize:          getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:       getEnvAsInt("CHUNK_OVERLAP", 200),
			RetrievalTopK:      getEnvAsInt("RETRIEVAL_TOP_K", 3),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
