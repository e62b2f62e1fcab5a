package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionId      string    `gorm:"type:varchar(255);not null;index"`
	Message        string    `gorm:"type:text;not null"`
	Response       string    `gorm:"type:text;not null"`
	MessageType    string    `gorm:"type:varchar(50);default:'text'"`
	ResponseType   string    `gorm:"type:varchar(50);default:'text'"`
	TokensUsed     int       `gorm:"default:0"`
	ResponseTimeMs int       `gorm:"default:0"`
	ModelUsed      string    `gorm:"type:varchar(100)"`
	Context        datatypes.JSON
	Metadata       datatypes.JSON
	IsError        bool      `gorm:"default:false"`
	ErrorMessage   *string   `gorm:"type:text"`
	Timestamp      time.Time `gorm:"autoCreateTime;index"`
}

func (Conversation) TableName() string {
	return "conversations"
}
