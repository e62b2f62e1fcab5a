package mapper

import (
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	return &entity.ChatSession{
		Id:           s.Id,
		UserId:       s.UserId,
		UserAgent:    s.UserAgent,
		IpAddress:    s.IpAddress,
		Context:      jsonToMap(s.Context),
		State:        jsonToMap(s.State),
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		ExpiresAt:    s.ExpiresAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	return &model.ChatSession{
		Id:           s.Id,
		UserId:       s.UserId,
		UserAgent:    s.UserAgent,
		IpAddress:    s.IpAddress,
		Context:      mapToJSON(s.Context),
		State:        mapToJSON(s.State),
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Conversation Mappers

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	return &entity.Conversation{
		Id:             c.Id,
		UserId:         c.UserId,
		SessionId:      c.SessionId,
		Message:        c.Message,
		Response:       c.Response,
		MessageType:    c.MessageType,
		ResponseType:   c.ResponseType,
		TokensUsed:     c.TokensUsed,
		ResponseTimeMs: c.ResponseTimeMs,
		ModelUsed:      c.ModelUsed,
		Context:        jsonToMap(c.Context),
		Metadata:       jsonToMap(c.Metadata),
		IsError:        c.IsError,
		ErrorMessage:   c.ErrorMessage,
		Timestamp:      c.Timestamp,
	}
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	return &model.Conversation{
		Id:             c.Id,
		UserId:         c.UserId,
		SessionId:      c.SessionId,
		Message:        c.Message,
		Response:       c.Response,
		MessageType:    c.MessageType,
		ResponseType:   c.ResponseType,
		TokensUsed:     c.TokensUsed,
		ResponseTimeMs: c.ResponseTimeMs,
		ModelUsed:      c.ModelUsed,
		Context:        mapToJSON(c.Context),
		Metadata:       mapToJSON(c.Metadata),
		IsError:        c.IsError,
		ErrorMessage:   c.ErrorMessage,
		Timestamp:      c.Timestamp,
	}
}
