// FILE: internal/controller/chat_controller.go
package controller

import (
	"context"
	"errors"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, protect fiber.Handler)
	CreateSession(ctx *fiber.Ctx) error
	GetSessions(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetConversation(ctx *fiber.Ctx) error
	ListConversations(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	SendBasicMessage(ctx *fiber.Ctx) error
	GetMemories(ctx *fiber.Ctx) error
	SearchMemories(ctx *fiber.Ctx) error
}

type chatController struct {
	service       service.IChatService
	memoryService service.IMemoryService
}

func NewChatController(chatService service.IChatService, memoryService service.IMemoryService) IChatController {
	return &chatController{
		service:       chatService,
		memoryService: memoryService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, protect fiber.Handler) {
	h := r.Group("/chat")
	h.Use(protect)

	h.Post("/session", c.CreateSession)
	h.Get("/sessions", c.GetSessions)
	h.Get("/session/:id", c.GetSession)
	h.Delete("/session/:id", c.DeleteSession)
	h.Get("/history/:id", c.GetHistory)
	h.Get("/conversation/:id", c.GetConversation)
	h.Get("/conversations", c.ListConversations)
	h.Post("/message", c.SendMessage)
	h.Post("/send", c.SendBasicMessage)
	h.Get("/memory", c.GetMemories)
	h.Post("/memory/search", c.SearchMemories)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.Context(), currentUserId(ctx), ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	res, err := c.service.GetAllSessions(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.Context(), currentUserId(ctx), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.service.DeleteSession(ctx.Context(), currentUserId(ctx), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)

	res, err := c.service.GetChatHistory(ctx.Context(), currentUserId(ctx), ctx.Params("id"), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *chatController) GetConversation(ctx *fiber.Ctx) error {
	res, err := c.service.GetConversationMessages(ctx.Context(), currentUserId(ctx), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation", res))
}

func (c *chatController) ListConversations(ctx *fiber.Ctx) error {
	sessionId := ctx.Query("session_id")
	limit := ctx.QueryInt("limit", 0)

	res, err := c.service.ListConversations(ctx.Context(), currentUserId(ctx), sessionId, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversations", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	return c.handleSend(ctx, c.service.SendMessage)
}

func (c *chatController) SendBasicMessage(ctx *fiber.Ctx) error {
	return c.handleSend(ctx, c.service.SendBasicMessage)
}

func (c *chatController) handleSend(ctx *fiber.Ctx, send func(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := send(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *chatController) GetMemories(ctx *fiber.Ctx) error {
	sessionId := ctx.Query("session_id")

	res, err := c.memoryService.GetMemories(ctx.Context(), currentUserId(ctx), sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Memories", res))
}

func (c *chatController) SearchMemories(ctx *fiber.Ctx) error {
	var req dto.MemorySearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memoryService.SearchMemories(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Memory search results", res))
}
