package service

import (
	"context"
	"strings"

	"ecofinds/chatbot"
	"ecofinds/models"
	"ecofinds/repository"

	"go.uber.org/zap"
)

const HistoryLimit = 50

type ChatService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewChatService(store repository.Store, logger *zap.Logger) *ChatService {
	return &ChatService{store: store, logger: logger}
}

// PostMessage records the user's message followed by the bot's reply.
func (s *ChatService) PostMessage(ctx context.Context, user models.PublicUser, text string) (*models.ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newError(ErrValidation, "Message is required")
	}

	reply, rule := chatbot.Reply(text)
	if err := s.store.SaveChatExchange(ctx, user.ID, text, reply); err != nil {
		return nil, err
	}

	s.logger.Debug("Chat reply", zap.Int("user_id", user.ID), zap.String("rule", rule))
	return &models.ChatResponse{UserMessage: text, BotResponse: reply, Rule: rule}, nil
}

func (s *ChatService) History(ctx context.Context, user models.PublicUser) ([]models.ChatMessage, error) {
	return s.store.ListChatMessages(ctx, user.ID, HistoryLimit)
}
