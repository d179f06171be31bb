package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/cache"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/embedding"
	"ai-chat-be/pkg/llm/factory"

	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	HealthController   controller.IHealthController
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController
	TextController     controller.ITextController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
			cfg.Ai.EmbeddingDimension,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewHuggingFaceProvider(
			cfg.Keys.HuggingFace,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.EmbeddingDimension,
		)
		log.Printf("[INFO] Using Embedding Provider: HUGGINGFACE (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS (auxiliary event bus, the app runs fine without it)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis (LLM result cache; degraded to no-op when unreachable)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	embeddingCache := memory.NewEmbeddingCache()
	resultCache := cache.NewLLMResultCache(rdb, 24*time.Hour)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.ProcessTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ProcessTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
		cfg.Ai,
		sysLogger,
	)

	documentService := service.NewDocumentService(uowFactory, publisherService, natsPub, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		embeddingProvider,
		embeddingCache,
		llmProvider,
		natsPub,
		cfg.Ai,
		sysLogger,
	)
	textService := service.NewTextService(llmProvider, resultCache, sysLogger)

	// 6. Controllers
	return &Container{
		HealthController:   controller.NewHealthController(db, rdb, cfg.Ai),
		DocumentController: controller.NewDocumentController(documentService),
		ChatController:     controller.NewChatController(chatService),
		TextController:     controller.NewTextController(textService),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
