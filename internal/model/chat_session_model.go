package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatSession uses a client-held string token as its primary key.
type ChatSession struct {
	Id           string    `gorm:"type:varchar(255);primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"` // Ownership for data isolation
	UserAgent    *string   `gorm:"type:text"`
	IpAddress    *string   `gorm:"type:varchar(45)"`
	Context      datatypes.JSON
	State        datatypes.JSON
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	LastActivity time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"not null;index"`

	Conversations []Conversation `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

func (ChatSession) TableName() string {
	return "sessions"
}
