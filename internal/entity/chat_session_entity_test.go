package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestChatSessionLiveness(t *testing.T) {
	now := time.Now()
	session := &ChatSession{
		Id:        uuid.New().String(),
		UserId:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	assert.True(t, session.IsLive(now))
	assert.True(t, session.IsLive(now.Add(24*time.Hour-time.Second)))
	assert.False(t, session.IsLive(now.Add(24*time.Hour)), "expiry instant itself is not live")
	assert.False(t, session.IsLive(now.Add(25*time.Hour)))
}

func TestChatSessionInvalidate(t *testing.T) {
	now := time.Now()
	session := &ChatSession{ExpiresAt: now.Add(time.Hour)}

	session.Invalidate(now)
	assert.False(t, session.IsLive(now))
}

func TestChatSessionTouch(t *testing.T) {
	now := time.Now()
	session := &ChatSession{LastActivity: now.Add(-time.Hour)}

	session.Touch(now)
	assert.Equal(t, now, session.LastActivity)
}
