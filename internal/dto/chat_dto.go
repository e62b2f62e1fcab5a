package dto

import (
	"time"

	"ai-chatbot-be/pkg/rag"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	SessionId string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionResponse struct {
	Id           string    `json:"id"`
	Title        string    `json:"title"`
	TurnCount    int       `json:"turn_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type ConversationItem struct {
	Id             uuid.UUID `json:"id"`
	Message        string    `json:"message"`
	Response       string    `json:"response"`
	Timestamp      time.Time `json:"timestamp"`
	TokensUsed     int       `json:"tokens_used"`
	ResponseTimeMs int       `json:"response_time_ms"`
	IsError        bool      `json:"is_error"`
}

type ChatHistoryResponse struct {
	Conversations []ConversationItem `json:"conversations"`
	TotalCount    int                `json:"total_count"`
}

type SendMessageRequest struct {
	UserId    string `json:"user_id" validate:"required,uuid"`
	SessionId string `json:"session_id" validate:"required"`
	Query     string `json:"query" validate:"required,max=4000"`
}

type RoutingInfo struct {
	Intent        string  `json:"intent"`
	Confidence    float64 `json:"confidence"`
	ResponseStyle string  `json:"response_style"`
}

type ContextUsed struct {
	VectorResults        int `json:"vector_results"`
	MemoryResults        int `json:"mem0_memories"`
	ConversationMessages int `json:"conversation_messages"`
}

type SendMessageResponse struct {
	Response       string                 `json:"response"`
	ConversationId uuid.UUID              `json:"conversation_id"`
	Sources        []rag.Source           `json:"sources"`
	ContextUsed    ContextUsed            `json:"context_used"`
	RoutingInfo    RoutingInfo            `json:"routing_info"`
	TokensUsed     int                    `json:"tokens_used"`
	ResponseTimeMs int                    `json:"response_time_ms"`
	ModelUsed      string                 `json:"model_used"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type MemorySearchRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
	Limit     int    `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

type MemoryItem struct {
	Id     string  `json:"id"`
	Memory string  `json:"memory"`
	Score  float64 `json:"score,omitempty"`
}

type MemoryListResponse struct {
	Memories []MemoryItem `json:"memories"`
}
