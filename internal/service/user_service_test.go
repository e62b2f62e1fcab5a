package service

import (
	"context"
	"testing"
	"time"

	"ai-chatbot-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatsAggregatesAcrossSessions(t *testing.T) {
	uow := &fakeUow{
		sessions:      newFakeSessionRepo(),
		conversations: &fakeConversationRepo{},
	}
	svc := NewUserService(&fakeUowFactory{uow: uow}, nil)
	userId := uuid.New()
	otherUser := uuid.New()

	now := time.Now()
	uow.sessions.sessions["s1"] = &entity.ChatSession{
		Id: "s1", UserId: userId, ExpiresAt: now.Add(time.Hour),
	}
	uow.sessions.sessions["s2"] = &entity.ChatSession{
		Id: "s2", UserId: userId, ExpiresAt: now.Add(-time.Hour), // expired, not active
	}

	earlier := now.Add(-10 * time.Minute)
	uow.conversations.turns = []*entity.Conversation{
		{Id: uuid.New(), UserId: userId, SessionId: "s1", TokensUsed: 100, Timestamp: earlier},
		{Id: uuid.New(), UserId: userId, SessionId: "s1", TokensUsed: 50, Timestamp: now},
		{Id: uuid.New(), UserId: otherUser, SessionId: "sx", TokensUsed: 999, Timestamp: now},
	}

	stats, err := svc.GetStats(context.Background(), userId)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalConversations)
	assert.Equal(t, 4, stats.TotalMessages)
	assert.Equal(t, 150, stats.TotalTokens, "other users' tokens must not leak in")
	assert.Equal(t, 1, stats.ActiveSessions, "expired sessions are not active")
	require.NotNil(t, stats.LastActivity)
	assert.WithinDuration(t, now, *stats.LastActivity, time.Second)
}

func TestGetStatsEmptyUser(t *testing.T) {
	uow := &fakeUow{
		sessions:      newFakeSessionRepo(),
		conversations: &fakeConversationRepo{},
	}
	svc := NewUserService(&fakeUowFactory{uow: uow}, nil)

	stats, err := svc.GetStats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalConversations)
	assert.Zero(t, stats.TotalTokens)
	assert.Nil(t, stats.LastActivity)
}
