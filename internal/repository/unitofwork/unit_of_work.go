package unitofwork

import (
	"context"

	"ai-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ConversationRepository() contract.ConversationRepository
	AnalyticsRepository() contract.AnalyticsRepository
}
