package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITextController interface {
	RegisterRoutes(r fiber.Router)
	Summarize(ctx *fiber.Ctx) error
	Sentiment(ctx *fiber.Ctx) error
}

type textController struct {
	textService service.ITextService
}

func NewTextController(textService service.ITextService) ITextController {
	return &textController{
		textService: textService,
	}
}

func (c *textController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/text")
	h.Post("/summarize", c.Summarize)
	h.Post("/sentiment", c.Sentiment)
}

func (c *textController) Summarize(ctx *fiber.Ctx) error {
	var req dto.TextSummarizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.textService.Summarize(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Text summarized", res))
}

func (c *textController) Sentiment(ctx *fiber.Ctx) error {
	var req dto.SentimentAnalysisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.textService.AnalyzeSentiment(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Sentiment analyzed", res))
}
