package dto

import "time"

type UpdateProfileRequest struct {
	FirstName   string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

type StatsResponse struct {
	TotalConversations int        `json:"total_conversations"`
	TotalMessages      int        `json:"total_messages"`
	TotalTokens        int        `json:"total_tokens"`
	ActiveSessions     int        `json:"active_sessions"`
	LastActivity       *time.Time `json:"last_activity,omitempty"`
}
