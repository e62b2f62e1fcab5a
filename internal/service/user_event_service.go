// FILE: internal/service/user_event_service.go
package service

import (
	"context"
	"log"
	"strings"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/unitofwork"

	"ai-chatbot-be/pkg/events"
	pktNats "ai-chatbot-be/pkg/nats"

	"github.com/google/uuid"
)

type IUserEventService interface {
	Start() error
}

// userEventService mirrors the USER_* domain events from NATS into the
// analytics table, so registrations, logins and deletions land next to
// the chat events the watermill consumer writes.
type userEventService struct {
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
}

func NewUserEventService(subscriber *pktNats.Subscriber, uowFactory unitofwork.RepositoryFactory) IUserEventService {
	return &userEventService{
		subscriber: subscriber,
		uowFactory: uowFactory,
	}
}

// Start attaches the durable consumer. Without a NATS connection the
// service degrades to a no-op, same as the publisher side.
func (s *userEventService) Start() error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Subscribe("events.>", "user-events-analytics", s.handleEvent)
}

func (s *userEventService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userIdStr, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		// An event without a parseable user id will never succeed on
		// redelivery, drop it.
		log.Printf("[ERROR] Dropping %s event without a valid user_id", event.EventType())
		return nil
	}

	eventType := strings.ToLower(event.EventType())
	row := &entity.AnalyticsEvent{
		Id:            uuid.New(),
		UserId:        userId,
		EventType:     eventType,
		EventCategory: categoryFor(eventType),
		Payload:       payload,
		CreatedAt:     event.Timestamp(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AnalyticsRepository().Create(ctx, row)
}
