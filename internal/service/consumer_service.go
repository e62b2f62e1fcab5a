// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains analytics events off the bus and writes them to
// the analytics table, keeping the insert out of the request path.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AnalyticsEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal analytics message: %v", err)
		msg.Ack() // malformed messages would loop forever, drop them
		return
	}

	event := &entity.AnalyticsEvent{
		Id:            uuid.New(),
		UserId:        payload.UserId,
		EventType:     payload.EventType,
		EventCategory: categoryFor(payload.EventType),
		Payload:       payload.Payload,
		CreatedAt:     payload.OccurredAt,
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AnalyticsRepository().Create(ctx, event); err != nil {
		log.Printf("[ERROR] Failed to persist analytics event %s: %v", payload.EventType, err)
		msg.Nack() // DB hiccups are retriable
		return
	}

	msg.Ack()
}

func categoryFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "chat_"):
		return "chat"
	case strings.HasPrefix(eventType, "session_"):
		return "session"
	case strings.HasPrefix(eventType, "user_"):
		return "user"
	default:
		return "general"
	}
}
