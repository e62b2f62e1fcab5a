package contract

import (
	"context"
	"time"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteBySessionID(ctx context.Context, sessionId string) error

	// Stats aggregates for /api/user/stats.
	SumTokens(ctx context.Context, userId uuid.UUID) (int64, error)
	LatestTimestamp(ctx context.Context, userId uuid.UUID) (*time.Time, error)
}
