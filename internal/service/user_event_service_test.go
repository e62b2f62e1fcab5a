package service

import (
	"context"
	"errors"
	"testing"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsRepo struct {
	rows      []*entity.AnalyticsEvent
	createErr error
}

func (r *fakeAnalyticsRepo) Create(_ context.Context, event *entity.AnalyticsEvent) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.rows = append(r.rows, event)
	return nil
}

func (r *fakeAnalyticsRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.AnalyticsEvent, error) {
	return r.rows, nil
}

func (r *fakeAnalyticsRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.rows)), nil
}

func newUserEventService() (*userEventService, *fakeAnalyticsRepo) {
	analytics := &fakeAnalyticsRepo{}
	uow := &fakeUow{analytics: analytics}
	svc := &userEventService{uowFactory: &fakeUowFactory{uow: uow}}
	return svc, analytics
}

func TestUserEventPersistsAnalyticsRow(t *testing.T) {
	svc, analytics := newUserEventService()
	userId := uuid.New()

	evt := events.NewUserEvent(events.TypeUserLogin, userId.String(), map[string]interface{}{
		"device": "test-agent",
	})
	require.NoError(t, svc.handleEvent(context.Background(), evt))

	require.Len(t, analytics.rows, 1)
	row := analytics.rows[0]
	assert.Equal(t, userId, row.UserId)
	assert.Equal(t, "user_login", row.EventType)
	assert.Equal(t, "user", row.EventCategory)
	assert.Equal(t, "test-agent", row.Payload["device"])
}

func TestUserEventWithoutUserIdIsDropped(t *testing.T) {
	svc, analytics := newUserEventService()

	evt := events.BaseEvent{Type: events.TypeUserLogout, Data: map[string]interface{}{}}

	// No row and no error, so the broker does not redeliver it.
	require.NoError(t, svc.handleEvent(context.Background(), evt))
	assert.Empty(t, analytics.rows)
}

func TestUserEventStoreFailureSurfaces(t *testing.T) {
	svc, analytics := newUserEventService()
	analytics.createErr = errors.New("db down")

	evt := events.NewUserEvent(events.TypeUserRegistered, uuid.NewString(), nil)

	// The error propagates so the subscriber naks for redelivery.
	assert.Error(t, svc.handleEvent(context.Background(), evt))
}

func TestCategoryForEventTypes(t *testing.T) {
	assert.Equal(t, "chat", categoryFor("chat_completed"))
	assert.Equal(t, "session", categoryFor("session_deleted"))
	assert.Equal(t, "user", categoryFor("user_registered"))
	assert.Equal(t, "general", categoryFor("something_else"))
}
