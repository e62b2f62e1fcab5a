// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/memory"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"

	"ai-chatbot-be/pkg/events"
	pktNats "ai-chatbot-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userId uuid.UUID, token, sessionId string) error
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	Refresh(ctx context.Context, userId uuid.UUID) (*dto.TokenResponse, error)
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService IChatService
	blacklist      *memory.TokenBlacklistRepository
	eventPublisher *pktNats.Publisher
	cfg            *config.AuthConfig
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessionService IChatService,
	blacklist *memory.TokenBlacklistRepository,
	eventPublisher *pktNats.Publisher,
	cfg *config.AuthConfig,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		blacklist:      blacklist,
		eventPublisher: eventPublisher,
		cfg:            cfg,
	}
}

func (s *authService) tokenTTL() time.Duration {
	minutes := s.cfg.AccessTokenMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

func (s *authService) signToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"role":    "user",
		"exp":     time.Now().Add(s.tokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret()))
}

func userToResponse(user *entity.User) dto.UserResponse {
	res := dto.UserResponse{
		Id:         user.Id,
		Username:   user.Username,
		Email:      user.Email,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		LastLogin:  user.LastLogin,
	}
	if user.FirstName != nil {
		res.FirstName = *user.FirstName
	}
	if user.LastName != nil {
		res.LastName = *user.LastName
	}
	if user.PhoneNumber != nil {
		res.PhoneNumber = *user.PhoneNumber
	}
	if user.AvatarURL != nil {
		res.AvatarURL = *user.AvatarURL
	}
	if user.Bio != nil {
		res.Bio = *user.Bio
	}
	return res
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Reject duplicates on either unique column
	existing, _ := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if existing != nil {
		return nil, errors.New("username already registered")
	}
	existing, _ = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashStr,
		IsActive:     true,
		IsVerified:   true, // no email verification flow, accounts are live immediately
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.FirstName != "" {
		user.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		user.LastName = &req.LastName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = &req.PhoneNumber
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	// 3. Issue a token and open a chat session right away
	signedToken, err := s.signToken(user.Id)
	if err != nil {
		return nil, err
	}

	var sessionId string
	if s.sessionService != nil {
		session, sessErr := s.sessionService.CreateSession(ctx, user.Id, "", "")
		if sessErr == nil {
			sessionId = session.SessionId
		}
	}

	s.publish(ctx, events.TypeUserRegistered, user.Id, map[string]interface{}{
		"username": user.Username,
	})

	return &dto.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL().Seconds()),
		User:        userToResponse(user),
		SessionId:   sessionId,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if user == nil {
		// Allow login by email as well
		user, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Username})
		if err != nil || user == nil {
			return nil, errors.New("invalid credentials")
		}
	}

	if user.PasswordHash == nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !user.IsActive {
		return nil, errors.New("user account is inactive")
	}

	signedToken, err := s.signToken(user.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := uow.UserRepository().UpdateLastLogin(ctx, user.Id, now); err == nil {
		user.LastLogin = &now
	}

	var sessionId string
	if s.sessionService != nil {
		session, sessErr := s.sessionService.CreateSession(ctx, user.Id, ipAddress, userAgent)
		if sessErr == nil {
			sessionId = session.SessionId
		}
	}

	s.publish(ctx, events.TypeUserLogin, user.Id, map[string]interface{}{
		"device": userAgent,
	})

	return &dto.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL().Seconds()),
		User:        userToResponse(user),
		SessionId:   sessionId,
	}, nil
}

// Logout blacklists the presented token for its remaining lifetime. The
// token stays structurally valid, so revocation has to live in Redis.
// A session id from the X-Session-ID header is torn down as well.
func (s *authService) Logout(ctx context.Context, userId uuid.UUID, token, sessionId string) error {
	if token == "" {
		return nil
	}
	if s.blacklist != nil {
		if err := s.blacklist.Blacklist(ctx, userId.String(), token, s.tokenTTL()); err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}
	}

	if sessionId != "" && s.sessionService != nil {
		_ = s.sessionService.DeleteSession(ctx, userId, sessionId)
	}

	s.publish(ctx, events.TypeUserLogout, userId, nil)
	return nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	res := userToResponse(user)
	return &res, nil
}

func (s *authService) Refresh(ctx context.Context, userId uuid.UUID) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, errors.New("user not found")
	}

	signedToken, err := s.signToken(user.Id)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL().Seconds()),
		User:        userToResponse(user),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil || user.PasswordHash == nil {
		return errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return errors.New("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return uow.UserRepository().UpdatePassword(ctx, userId, string(hash))
}

func (s *authService) publish(ctx context.Context, eventType string, userId uuid.UUID, extra map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewUserEvent(eventType, userId.String(), extra)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}
