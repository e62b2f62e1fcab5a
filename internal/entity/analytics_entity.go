package entity

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsEvent struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	EventType     string
	EventCategory string
	Payload       map[string]interface{}
	CreatedAt     time.Time
}

// UserStats is the aggregate served by /api/user/stats.
type UserStats struct {
	TotalConversations int64
	TotalTokens        int64
	TotalMessages      int64
	ActiveSessions     int64
	LastActivity       *time.Time
}
