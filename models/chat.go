package models

import "time"

type ChatMessage struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"user_id"`
	Message   string    `json:"message"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	UserMessage string `json:"userMessage"`
	BotResponse string `json:"botResponse"`
	Rule        string `json:"-"`
}
