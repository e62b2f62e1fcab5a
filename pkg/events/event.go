package events

import "time"

// Event type codes published on the bus.
const (
	TypeUserRegistered = "USER_REGISTERED"
	TypeUserLogin      = "USER_LOGIN"
	TypeUserLogout     = "USER_LOGOUT"
	TypeSessionCreated = "SESSION_CREATED"
	TypeSessionDeleted = "SESSION_DELETED"
	TypeChatCompleted  = "CHAT_COMPLETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewUserEvent builds a user-scoped event with the standard payload keys.
func NewUserEvent(eventType, userID string, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{"user_id": userID}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}
