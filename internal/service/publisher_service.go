// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-chatbot-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	PublishAnalytics(ctx context.Context, userId uuid.UUID, eventType string, payload map[string]interface{}) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

// PublishAnalytics hands an analytics event to the in-process bus. The
// consumer persists it; the request path never touches the analytics table.
func (s *publisherService) PublishAnalytics(ctx context.Context, userId uuid.UUID, eventType string, payload map[string]interface{}) error {
	envelope := dto.AnalyticsEventMessage{
		UserId:     userId,
		EventType:  eventType,
		Payload:    payload,
		OccurredAt: time.Now(),
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), raw)
	return s.pubSub.Publish(s.topicName, msg)
}
