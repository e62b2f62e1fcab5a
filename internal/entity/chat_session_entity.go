package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is identified by an opaque string token handed to the client.
// A session is live while ExpiresAt is in the future; expired rows stay
// around until the sweeper or a cascade delete removes them.
type ChatSession struct {
	Id           string
	UserId       uuid.UUID
	UserAgent    *string
	IpAddress    *string
	Context      map[string]interface{}
	State        map[string]interface{}
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
}

func (s *ChatSession) IsLive(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Invalidate expires the session immediately.
func (s *ChatSession) Invalidate(now time.Time) {
	s.ExpiresAt = now
}

func (s *ChatSession) Touch(now time.Time) {
	s.LastActivity = now
}
