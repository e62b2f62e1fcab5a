package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is one completed turn: the user message and the assistant
// response recorded together. Rows are append-only and never updated.
type Conversation struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	SessionId      string
	Message        string
	Response       string
	MessageType    string
	ResponseType   string
	TokensUsed     int
	ResponseTimeMs int
	ModelUsed      string
	Context        map[string]interface{}
	Metadata       map[string]interface{}
	IsError        bool
	ErrorMessage   *string
	Timestamp      time.Time
}
