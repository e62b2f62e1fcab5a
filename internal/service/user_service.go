// FILE: internal/service/user_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"

	"ai-chatbot-be/pkg/events"
	pktNats "ai-chatbot-be/pkg/nats"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
	GetStats(ctx context.Context, userId uuid.UUID) (*dto.StatsResponse, error)
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	res := userToResponse(user)
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	repo := uow.UserRepository()
	user, err := repo.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if req.FirstName != "" {
		user.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		user.LastName = &req.LastName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = &req.PhoneNumber
	}
	if req.Bio != "" {
		user.Bio = &req.Bio
	}
	user.UpdatedAt = time.Now()

	return repo.Update(ctx, user)
}

// DeleteAccount removes the user row; sessions, conversations and
// analytics go with it via the cascade constraints.
func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	if s.eventPublisher != nil {
		evt := events.NewUserEvent("USER_DELETED", userId.String(), nil)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_DELETED event: %v\n", err)
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().Delete(ctx, userId)
}

// GetStats aggregates usage numbers across all of the user's sessions.
func (s *userService) GetStats(ctx context.Context, userId uuid.UUID) (*dto.StatsResponse, error) {
	stats, err := s.collectStats(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		TotalConversations: int(stats.TotalConversations),
		TotalMessages:      int(stats.TotalMessages),
		TotalTokens:        int(stats.TotalTokens),
		ActiveSessions:     int(stats.ActiveSessions),
		LastActivity:       stats.LastActivity,
	}, nil
}

func (s *userService) collectStats(ctx context.Context, userId uuid.UUID) (*entity.UserStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalTurns, err := uow.ConversationRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	totalTokens, err := uow.ConversationRepository().SumTokens(ctx, userId)
	if err != nil {
		return nil, err
	}

	activeSessions, err := uow.ChatSessionRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.LiveAt{Now: time.Now()},
	)
	if err != nil {
		return nil, err
	}

	lastActivity, err := uow.ConversationRepository().LatestTimestamp(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &entity.UserStats{
		TotalConversations: totalTurns,
		TotalMessages:      totalTurns * 2, // each turn is a user message plus a response
		TotalTokens:        totalTokens,
		ActiveSessions:     activeSessions,
		LastActivity:       lastActivity,
	}, nil
}
