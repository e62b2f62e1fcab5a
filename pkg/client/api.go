package client

import (
	"context"
	"net/http"

	"ai-chatbot-be/internal/dto"
)

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	var res dto.TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Username: username,
		Password: password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.SetToken(res.AccessToken)
	return &res, nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	var res dto.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.AccessToken)
	return &res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.ClearToken()
	return err
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var res dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	var res dto.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/session", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Sessions(ctx context.Context) ([]dto.SessionResponse, error) {
	var res []dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/sessions", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) History(ctx context.Context, sessionId string) (*dto.ChatHistoryResponse, error) {
	var res dto.ChatHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/history/"+sessionId, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SendMessage(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	var res dto.SendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/message", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionId string) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/session/"+sessionId, nil, nil)
}

func (c *Client) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var res dto.StatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/stats", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
