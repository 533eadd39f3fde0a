package handlers

import (
	"net/http"

	"ecofinds/middleware"
	"ecofinds/models"
	"ecofinds/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

func NewChatHandler(chat *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "GetChatHistory")
	defer span.End()

	user, _ := middleware.CurrentUser(c)
	messages, err := h.chat.History(ctx, user)
	if err != nil {
		respondError(c, h.logger, span, "Failed to fetch chat messages", err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	ctx, span := otel.Tracer("ecofinds").Start(c.Request.Context(), "PostChatMessage")
	defer span.End()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	resp, err := h.chat.PostMessage(ctx, user, req.Message)
	if err != nil {
		respondError(c, h.logger, span, "Failed to process chat message", err)
		return
	}

	middleware.RecordChatReply(resp.Rule)
	span.SetAttributes(attribute.String("chat.rule", resp.Rule))
	c.JSON(http.StatusOK, resp)
}
