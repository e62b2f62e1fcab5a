// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"errors"
	"time"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/repository/memory"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/conversation"
	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag"

	"github.com/google/uuid"
)

// ErrSessionNotFound covers both unknown and expired sessions. The
// caller cannot tell the two apart, which is deliberate.
var ErrSessionNotFound = errors.New("session not found or expired")

// ErrGenerationFailed hides provider errors from the client.
var ErrGenerationFailed = errors.New("failed to generate a response, please try again")

// ResponsePipeline is what the orchestrator needs from the RAG side.
type ResponsePipeline interface {
	Execute(ctx context.Context, userQuery, userID, sessionID string, history []llm.Message) (*rag.Result, error)
}

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, ipAddress, userAgent string) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.SessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId string, limit int) (*dto.ChatHistoryResponse, error)
	GetConversationMessages(ctx context.Context, userId uuid.UUID, sessionId string) ([]conversation.Message, error)
	ListConversations(ctx context.Context, userId uuid.UUID, sessionId string, limit int) ([]dto.ConversationItem, error)
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	SendBasicMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId string) error
	SweepExpired(ctx context.Context) (int64, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   ResponsePipeline
	shortTerm  *memory.ShortTermMemoryRepository
	publisher  IPublisherService
	log        logger.ILogger
	sessionTTL time.Duration
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline ResponsePipeline,
	shortTerm *memory.ShortTermMemoryRepository,
	publisher IPublisherService,
	log logger.ILogger,
	cfg *config.SessionConfig,
) IChatService {
	ttlHours := cfg.TTLHours
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &chatService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		shortTerm:  shortTerm,
		publisher:  publisher,
		log:        log,
		sessionTTL: time.Duration(ttlHours) * time.Hour,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, ipAddress, userAgent string) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	session := &entity.ChatSession{
		Id:           uuid.New().String(),
		UserId:       userId,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}
	if ipAddress != "" {
		session.IpAddress = &ipAddress
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}

	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	s.track(ctx, userId, "session_created", map[string]interface{}{
		"session_id": session.Id,
	})

	return &dto.CreateSessionResponse{
		SessionId: session.Id,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// liveOwnedSession resolves a session only if it exists, belongs to the
// user and has not expired yet.
func (s *chatService) liveOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId string) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByStringID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
		specification.LiveAt{Now: time.Now()},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *chatService) GetSession(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.liveOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	turns, err := uow.ConversationRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "timestamp", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	return s.sessionToResponse(session, turns), nil
}

// GetAllSessions lists the user's sessions raw, expired ones included.
// Liveness only gates sending; the sidebar shows everything, sessions
// with turns first, then newest first.
func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]conversation.SessionSummary, 0, len(sessions))
	bySession := make(map[string]*entity.ChatSession, len(sessions))
	turnsBySession := make(map[string][]*entity.Conversation, len(sessions))

	for _, session := range sessions {
		turns, err := uow.ConversationRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.OrderBy{Field: "timestamp", Desc: false},
		)
		if err != nil {
			return nil, err
		}

		bySession[session.Id] = session
		turnsBySession[session.Id] = turns
		summaries = append(summaries, conversation.SessionSummary{
			ID:        session.Id,
			Title:     conversation.Title(conversationTurns(turns)),
			TurnCount: len(turns),
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.LastActivity,
		})
	}

	conversation.SortSessions(summaries)

	res := make([]*dto.SessionResponse, 0, len(summaries))
	for _, summary := range summaries {
		res = append(res, s.sessionToResponse(bySession[summary.ID], turnsBySession[summary.ID]))
	}
	return res, nil
}

// GetChatHistory returns the raw turn log. An unknown or foreign session
// yields an empty history rather than an error.
func (s *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId string, limit int) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.BySessionID{SessionID: sessionId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "timestamp", Desc: false},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit})
	}

	turns, err := uow.ConversationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ConversationItem, 0, len(turns))
	for _, turn := range turns {
		items = append(items, dto.ConversationItem{
			Id:             turn.Id,
			Message:        turn.Message,
			Response:       turn.Response,
			Timestamp:      turn.Timestamp,
			TokensUsed:     turn.TokensUsed,
			ResponseTimeMs: turn.ResponseTimeMs,
			IsError:        turn.IsError,
		})
	}

	return &dto.ChatHistoryResponse{
		Conversations: items,
		TotalCount:    len(items),
	}, nil
}

// GetConversationMessages reconstructs the turn log into the interleaved
// user/assistant form the frontend renders.
func (s *chatService) GetConversationMessages(ctx context.Context, userId uuid.UUID, sessionId string) ([]conversation.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.ConversationRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "timestamp", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	return conversation.Reconstruct(conversationTurns(turns)), nil
}

// ListConversations returns raw turns newest first, across all of the
// user's sessions or scoped to one.
func (s *chatService) ListConversations(ctx context.Context, userId uuid.UUID, sessionId string, limit int) ([]dto.ConversationItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "timestamp", Desc: true},
	}
	if sessionId != "" {
		specs = append(specs, specification.BySessionID{SessionID: sessionId})
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit})
	}

	turns, err := uow.ConversationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ConversationItem, 0, len(turns))
	for _, turn := range turns {
		items = append(items, dto.ConversationItem{
			Id:             turn.Id,
			Message:        turn.Message,
			Response:       turn.Response,
			Timestamp:      turn.Timestamp,
			TokensUsed:     turn.TokensUsed,
			ResponseTimeMs: turn.ResponseTimeMs,
			IsError:        turn.IsError,
		})
	}
	return items, nil
}

func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	return s.sendTurn(ctx, userId, req, true)
}

// SendBasicMessage runs the same pipeline without the short-term memory
// window, for clients that manage their own context.
func (s *chatService) SendBasicMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	return s.sendTurn(ctx, userId, req, false)
}

func (s *chatService) sendTurn(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest, withMemory bool) (*dto.SendMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Session must exist, belong to the caller and still be live
	session, err := s.liveOwnedSession(ctx, uow, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	// 2. Pull short-term history for the generator
	var history []llm.Message
	if withMemory {
		history = s.recentHistory(ctx, session.Id)
	}

	// 3. Run the pipeline. A generation failure aborts the whole turn:
	// nothing is persisted and the client gets a generic error.
	started := time.Now()
	result, err := s.pipeline.Execute(ctx, req.Query, userId.String(), session.Id, history)
	if err != nil {
		s.log.Error("chat_service", "response generation failed", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		return nil, ErrGenerationFailed
	}
	elapsedMs := int(time.Since(started).Milliseconds())

	// 4. Persist the completed turn and refresh session activity together
	turn := &entity.Conversation{
		Id:             uuid.New(),
		UserId:         userId,
		SessionId:      session.Id,
		Message:        req.Query,
		Response:       result.Response,
		MessageType:    "text",
		ResponseType:   "text",
		TokensUsed:     result.TokensUsed,
		ResponseTimeMs: elapsedMs,
		ModelUsed:      result.ModelUsed,
		Metadata: map[string]interface{}{
			"intent":         string(result.Processing.Intent),
			"query_type":     string(result.Processing.QueryType),
			"response_style": result.Processing.Routing.ResponseStyle,
		},
		Timestamp: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().Create(ctx, turn); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, session.Id, turn.Timestamp); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// 5. Post-commit bookkeeping: short-term window and analytics
	if withMemory {
		s.appendHistory(ctx, session.Id, req.Query, result.Response, turn.Timestamp)
	}
	s.track(ctx, userId, "chat_completed", map[string]interface{}{
		"session_id":       session.Id,
		"conversation_id":  turn.Id.String(),
		"intent":           string(result.Processing.Intent),
		"tokens_used":      result.TokensUsed,
		"response_time_ms": elapsedMs,
	})

	return &dto.SendMessageResponse{
		Response:       result.Response,
		ConversationId: turn.Id,
		Sources:        result.Sources,
		ContextUsed: dto.ContextUsed{
			VectorResults:        result.VectorResults,
			MemoryResults:        result.MemoryResults,
			ConversationMessages: result.HistoryMessages,
		},
		RoutingInfo: dto.RoutingInfo{
			Intent:        string(result.Processing.Intent),
			Confidence:    result.Processing.IntentConfidence,
			ResponseStyle: result.Processing.Routing.ResponseStyle,
		},
		TokensUsed:     result.TokensUsed,
		ResponseTimeMs: elapsedMs,
		ModelUsed:      result.ModelUsed,
		Metadata:       turn.Metadata,
	}, nil
}

// DeleteSession removes a session and its turns. Deleting a session that
// is already gone is not an error.
func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByStringID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().DeleteBySessionID(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if s.shortTerm != nil {
		_ = s.shortTerm.Clear(ctx, session.Id)
	}

	s.track(ctx, userId, "session_deleted", map[string]interface{}{
		"session_id": session.Id,
	})
	return nil
}

// SweepExpired drops sessions past their expiry. Runs on a ticker from main.
func (s *chatService) SweepExpired(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	removed, err := uow.ChatSessionRepository().DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("chat_service", "expired sessions swept", map[string]interface{}{
			"removed": removed,
		})
	}
	return removed, nil
}

func (s *chatService) sessionToResponse(session *entity.ChatSession, turns []*entity.Conversation) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:           session.Id,
		Title:        conversation.Title(conversationTurns(turns)),
		TurnCount:    len(turns),
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
		ExpiresAt:    session.ExpiresAt,
	}
}

func (s *chatService) recentHistory(ctx context.Context, sessionId string) []llm.Message {
	if s.shortTerm == nil {
		return nil
	}
	stored, err := s.shortTerm.Recent(ctx, sessionId)
	if err != nil {
		s.log.Warn("chat_service", "failed to load short-term memory", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil
	}
	history := make([]llm.Message, 0, len(stored))
	for _, msg := range stored {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return history
}

func (s *chatService) appendHistory(ctx context.Context, sessionId, message, response string, at time.Time) {
	if s.shortTerm == nil {
		return
	}
	err := s.shortTerm.Append(ctx, sessionId,
		memory.StoredMessage{Role: "user", Content: message, Timestamp: at},
		memory.StoredMessage{Role: "assistant", Content: response, Timestamp: at},
	)
	if err != nil {
		s.log.Warn("chat_service", "failed to append short-term memory", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (s *chatService) track(ctx context.Context, userId uuid.UUID, eventType string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAnalytics(ctx, userId, eventType, payload); err != nil {
		s.log.Warn("chat_service", "failed to publish analytics event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}

func conversationTurns(rows []*entity.Conversation) []conversation.Turn {
	turns := make([]conversation.Turn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, conversation.Turn{
			ID:        row.Id.String(),
			Message:   row.Message,
			Response:  row.Response,
			Timestamp: row.Timestamp,
		})
	}
	return turns
}
