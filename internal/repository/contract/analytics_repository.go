package contract

import (
	"context"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
)

type AnalyticsRepository interface {
	Create(ctx context.Context, event *entity.AnalyticsEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AnalyticsEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
