package dto

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsEventMessage is the bus payload between the request path and
// the analytics consumer.
type AnalyticsEventMessage struct {
	UserId     uuid.UUID              `json:"user_id"`
	EventType  string                 `json:"event_type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
