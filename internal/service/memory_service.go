// FILE: internal/service/memory_service.go
package service

import (
	"context"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/pkg/memory/mem0"

	"github.com/google/uuid"
)

type IMemoryService interface {
	GetMemories(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.MemoryListResponse, error)
	SearchMemories(ctx context.Context, userId uuid.UUID, req *dto.MemorySearchRequest) (*dto.MemoryListResponse, error)
}

// memoryService is a thin passthrough over the long-term memory store.
// Without an API key the mem0 client is nil and everything returns empty.
type memoryService struct {
	memories *mem0.Client
}

func NewMemoryService(memories *mem0.Client) IMemoryService {
	return &memoryService{memories: memories}
}

func (s *memoryService) GetMemories(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.MemoryListResponse, error) {
	if s.memories == nil {
		return &dto.MemoryListResponse{Memories: []dto.MemoryItem{}}, nil
	}

	memories, err := s.memories.GetAll(ctx, userId.String(), sessionId)
	if err != nil {
		return nil, err
	}
	return toMemoryList(memories), nil
}

func (s *memoryService) SearchMemories(ctx context.Context, userId uuid.UUID, req *dto.MemorySearchRequest) (*dto.MemoryListResponse, error) {
	if s.memories == nil {
		return &dto.MemoryListResponse{Memories: []dto.MemoryItem{}}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	memories, err := s.memories.Search(ctx, req.Query, userId.String(), req.SessionId, limit)
	if err != nil {
		return nil, err
	}
	return toMemoryList(memories), nil
}

func toMemoryList(memories []mem0.Memory) *dto.MemoryListResponse {
	items := make([]dto.MemoryItem, 0, len(memories))
	for _, m := range memories {
		items = append(items, dto.MemoryItem{
			Id:     m.ID,
			Memory: m.Memory,
			Score:  m.Score,
		})
	}
	return &dto.MemoryListResponse{Memories: items}
}
