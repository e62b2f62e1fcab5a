package contract

import (
	"context"
	"time"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, id string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Touch refreshes last_activity without rewriting the whole row.
	Touch(ctx context.Context, id string, at time.Time) error

	// DeleteExpired removes sessions past their expiry. Returns rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
