package controller

import (
	"ai-chat-be/internal/config"
	"ai-chat-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db  *gorm.DB
	rdb *redis.Client
	ai  config.AIConfig
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, aiCfg config.AIConfig) IHealthController {
	return &healthController{
		db:  db,
		rdb: rdb,
		ai:  aiCfg,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
}

func (c *healthController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"message":     "AI Chat API",
		"version":     "1.0.0",
		"description": "Document upload, retrieval-augmented chat, and text analysis",
		"endpoints": fiber.Map{
			"health":    "/health",
			"documents": "/documents",
			"chat":      "/chat",
			"text":      "/text",
		},
	})
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	providers := fiber.Map{
		"embedding": c.ai.EmbeddingProvider,
		"llm":       c.ai.LLMProvider,
	}

	if err := database.Ping(c.db); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "unhealthy",
			"database":  "disconnected",
			"providers": providers,
			"error":     err.Error(),
		})
	}

	// Redis is optional; the service degrades to uncached operation without it.
	redisStatus := "not_configured"
	if c.rdb != nil {
		redisStatus = "connected"
		if err := c.rdb.Ping(ctx.Context()).Err(); err != nil {
			redisStatus = "disconnected"
		}
	}

	return ctx.JSON(fiber.Map{
		"status":    "healthy",
		"database":  "connected",
		"redis":     redisStatus,
		"providers": providers,
	})
}
