package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/contract"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- in-memory fakes -------------------------------------------------------

type fakeSessionRepo struct {
	sessions map[string]*entity.ChatSession
	touched  map[string]time.Time
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: map[string]*entity.ChatSession{},
		touched:  map[string]time.Time{},
	}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.ChatSession) error {
	r.sessions[s.Id] = s
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *entity.ChatSession) error {
	r.sessions[s.Id] = s
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.sessions {
		if matchesSession(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var out []*entity.ChatSession
	for _, s := range r.sessions {
		if matchesSession(s, specs) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

func (r *fakeSessionRepo) Touch(_ context.Context, id string, at time.Time) error {
	r.touched[id] = at
	if s, ok := r.sessions[id]; ok {
		s.LastActivity = at
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// matchesSession interprets the specifications the service actually uses.
func matchesSession(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByStringID:
			if s.Id != v.ID {
				return false
			}
		case specification.UserOwnedBy:
			if s.UserId != v.UserID {
				return false
			}
		case specification.LiveAt:
			if !s.ExpiresAt.After(v.Now) {
				return false
			}
		}
	}
	return true
}

type fakeConversationRepo struct {
	turns []*entity.Conversation
}

func (r *fakeConversationRepo) Create(_ context.Context, c *entity.Conversation) error {
	r.turns = append(r.turns, c)
	return nil
}

func (r *fakeConversationRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.Conversation, error) {
	if len(r.turns) == 0 {
		return nil, nil
	}
	return r.turns[0], nil
}

func (r *fakeConversationRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	for _, c := range r.turns {
		if matchesTurn(c, specs) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

func (r *fakeConversationRepo) DeleteBySessionID(_ context.Context, sessionId string) error {
	var kept []*entity.Conversation
	for _, c := range r.turns {
		if c.SessionId != sessionId {
			kept = append(kept, c)
		}
	}
	r.turns = kept
	return nil
}

func (r *fakeConversationRepo) SumTokens(_ context.Context, userId uuid.UUID) (int64, error) {
	var sum int64
	for _, c := range r.turns {
		if c.UserId == userId {
			sum += int64(c.TokensUsed)
		}
	}
	return sum, nil
}

func (r *fakeConversationRepo) LatestTimestamp(_ context.Context, userId uuid.UUID) (*time.Time, error) {
	var latest *time.Time
	for _, c := range r.turns {
		if c.UserId != userId {
			continue
		}
		ts := c.Timestamp
		if latest == nil || ts.After(*latest) {
			latest = &ts
		}
	}
	return latest, nil
}

func matchesTurn(c *entity.Conversation, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.BySessionID:
			if c.SessionId != v.SessionID {
				return false
			}
		case specification.UserOwnedBy:
			if c.UserId != v.UserID {
				return false
			}
		}
	}
	return true
}

type fakeUow struct {
	sessions      *fakeSessionRepo
	conversations *fakeConversationRepo
	analytics     *fakeAnalyticsRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return nil }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return u.sessions
}
func (u *fakeUow) ConversationRepository() contract.ConversationRepository {
	return u.conversations
}
func (u *fakeUow) AnalyticsRepository() contract.AnalyticsRepository {
	if u.analytics == nil {
		return nil
	}
	return u.analytics
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakePipeline struct {
	result *rag.Result
	err    error
	calls  int
}

func (p *fakePipeline) Execute(_ context.Context, _, _, _ string, _ []llm.Message) (*rag.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestService(pipeline ResponsePipeline) (IChatService, *fakeUow) {
	uow := &fakeUow{
		sessions:      newFakeSessionRepo(),
		conversations: &fakeConversationRepo{},
	}
	svc := NewChatService(
		&fakeUowFactory{uow: uow},
		pipeline,
		nil, // no Redis in unit tests
		nil, // no analytics bus
		nopLogger{},
		&config.SessionConfig{TTLHours: 24},
	)
	return svc, uow
}

// ---- tests -----------------------------------------------------------------

func TestCreateSessionExpiresIn24Hours(t *testing.T) {
	svc, uow := newTestService(&fakePipeline{})
	userId := uuid.New()

	res, err := svc.CreateSession(context.Background(), userId, "1.2.3.4", "test-agent")
	require.NoError(t, err)

	session := uow.sessions.sessions[res.SessionId]
	require.NotNil(t, session)
	assert.Equal(t, userId, session.UserId)
	assert.WithinDuration(t, session.CreatedAt.Add(24*time.Hour), session.ExpiresAt, time.Second)
}

func TestSendMessagePersistsTurnAndTouchesSession(t *testing.T) {
	pipeline := &fakePipeline{
		result: &rag.Result{
			Response:   "We offer cloud consulting.",
			TokensUsed: 42,
			ModelUsed:  "gpt-4.1-nano",
			Processing: &rag.ProcessedQuery{
				Intent:  rag.IntentServiceInquiry,
				Routing: rag.Routing{ResponseStyle: "detailed"},
			},
		},
	}
	svc, uow := newTestService(pipeline)
	userId := uuid.New()

	created, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)

	res, err := svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		UserId:    userId.String(),
		SessionId: created.SessionId,
		Query:     "what services do you offer",
	})
	require.NoError(t, err)

	assert.Equal(t, "We offer cloud consulting.", res.Response)
	assert.Equal(t, 42, res.TokensUsed)

	require.Len(t, uow.conversations.turns, 1)
	turn := uow.conversations.turns[0]
	assert.Equal(t, created.SessionId, turn.SessionId)
	assert.Equal(t, "what services do you offer", turn.Message)
	assert.Equal(t, 42, turn.TokensUsed)

	_, touched := uow.sessions.touched[created.SessionId]
	assert.True(t, touched, "session last_activity should be refreshed")
}

func TestSendMessageGenerationFailurePersistsNothing(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("provider unavailable")}
	svc, uow := newTestService(pipeline)
	userId := uuid.New()

	created, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		UserId:    userId.String(),
		SessionId: created.SessionId,
		Query:     "hello",
	})
	require.ErrorIs(t, err, ErrGenerationFailed)

	assert.Empty(t, uow.conversations.turns, "failed generation must not persist a turn")
	_, touched := uow.sessions.touched[created.SessionId]
	assert.False(t, touched, "failed generation must not touch the session")
}

func TestSendMessageRejectsExpiredSession(t *testing.T) {
	pipeline := &fakePipeline{result: &rag.Result{Response: "hi", Processing: &rag.ProcessedQuery{}}}
	svc, uow := newTestService(pipeline)
	userId := uuid.New()

	created, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)

	// Expire it manually
	uow.sessions.sessions[created.SessionId].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		UserId:    userId.String(),
		SessionId: created.SessionId,
		Query:     "hello",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, pipeline.calls, "expired session must not reach the pipeline")
}

func TestSendMessageRejectsForeignSession(t *testing.T) {
	pipeline := &fakePipeline{result: &rag.Result{Response: "hi", Processing: &rag.ProcessedQuery{}}}
	svc, _ := newTestService(pipeline)
	owner := uuid.New()
	intruder := uuid.New()

	created, err := svc.CreateSession(context.Background(), owner, "", "")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), intruder, &dto.SendMessageRequest{
		UserId:    intruder.String(),
		SessionId: created.SessionId,
		Query:     "hello",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, pipeline.calls)
}

func TestGetChatHistoryForeignSessionIsEmpty(t *testing.T) {
	svc, _ := newTestService(&fakePipeline{})
	owner := uuid.New()
	other := uuid.New()

	created, err := svc.CreateSession(context.Background(), owner, "", "")
	require.NoError(t, err)

	res, err := svc.GetChatHistory(context.Background(), other, created.SessionId, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Conversations)
	assert.Zero(t, res.TotalCount)
}

func TestDeleteSessionIsIdempotent(t *testing.T) {
	svc, uow := newTestService(&fakePipeline{})
	userId := uuid.New()

	created, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), userId, created.SessionId))
	assert.Empty(t, uow.sessions.sessions)

	// Second delete of the same id is a no-op
	require.NoError(t, svc.DeleteSession(context.Background(), userId, created.SessionId))
}

func TestDeleteSessionCascadesConversations(t *testing.T) {
	pipeline := &fakePipeline{
		result: &rag.Result{
			Response:   "answer",
			Processing: &rag.ProcessedQuery{Routing: rag.Routing{ResponseStyle: "helpful"}},
		},
	}
	svc, uow := newTestService(pipeline)
	userId := uuid.New()

	created, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		UserId:    userId.String(),
		SessionId: created.SessionId,
		Query:     "question",
	})
	require.NoError(t, err)
	require.Len(t, uow.conversations.turns, 1)

	require.NoError(t, svc.DeleteSession(context.Background(), userId, created.SessionId))
	assert.Empty(t, uow.conversations.turns)
}

func TestGetAllSessionsIncludesExpiredAndOrders(t *testing.T) {
	pipeline := &fakePipeline{
		result: &rag.Result{
			Response:   "hi there",
			Processing: &rag.ProcessedQuery{Routing: rag.Routing{ResponseStyle: "helpful"}},
		},
	}
	svc, uow := newTestService(pipeline)
	userId := uuid.New()

	withTurns, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)
	empty, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)

	// The empty session is newer and already expired; it must still be listed,
	// but after the one that has turns.
	uow.sessions.sessions[withTurns.SessionId].CreatedAt = time.Now().Add(-2 * time.Hour)
	uow.sessions.sessions[empty.SessionId].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		UserId:    userId.String(),
		SessionId: withTurns.SessionId,
		Query:     "Hello",
	})
	require.NoError(t, err)

	sessions, err := svc.GetAllSessions(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, withTurns.SessionId, sessions[0].Id)
	assert.Equal(t, "Hello...", sessions[0].Title)
	assert.Equal(t, empty.SessionId, sessions[1].Id)
	assert.Equal(t, "New Conversation", sessions[1].Title)
}

func TestListConversationsScopedBySession(t *testing.T) {
	pipeline := &fakePipeline{
		result: &rag.Result{
			Response:   "answer",
			Processing: &rag.ProcessedQuery{Routing: rag.Routing{ResponseStyle: "helpful"}},
		},
	}
	svc, _ := newTestService(pipeline)
	userId := uuid.New()

	first, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)
	second, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)

	for _, sessionId := range []string{first.SessionId, second.SessionId} {
		_, err = svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
			UserId:    userId.String(),
			SessionId: sessionId,
			Query:     "question for " + sessionId,
		})
		require.NoError(t, err)
	}

	all, err := svc.ListConversations(context.Background(), userId, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.ListConversations(context.Background(), userId, first.SessionId, 0)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "question for "+first.SessionId, scoped[0].Message)
}

func TestSweepExpiredRemovesOnlyExpired(t *testing.T) {
	svc, uow := newTestService(&fakePipeline{})
	userId := uuid.New()

	live, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)
	dead, err := svc.CreateSession(context.Background(), userId, "", "")
	require.NoError(t, err)
	uow.sessions.sessions[dead.SessionId].ExpiresAt = time.Now().Add(-time.Hour)

	removed, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, stillThere := uow.sessions.sessions[live.SessionId]
	assert.True(t, stillThere)
}
