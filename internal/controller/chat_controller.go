package controller

import (
	"errors"
	"strconv"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions", c.ListSessions)
	h.Get("/sessions/:id", c.ShowSession)
	h.Get("/sessions/:id/messages", c.Messages)
	h.Post("/send", c.Send)
	h.Delete("/sessions/:id", c.DeleteSession)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateChatSessionRequest
	// Body is optional; an empty body means the default session name.
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
		}
	}

	res, err := c.chatService.CreateSession(ctx.Context(), req.SessionName)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat session created", res))
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	res, err := c.chatService.GetSessions(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat sessions", res))
}

func (c *chatController) ShowSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	res, err := c.chatService.GetSession(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat session", res))
}

func (c *chatController) Messages(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}
	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))

	res, err := c.chatService.GetMessages(ctx.Context(), id, limit)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat messages", res))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.chatService.SendMessage(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	deleted, err := c.chatService.DeleteSession(ctx.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted successfully", nil))
}
