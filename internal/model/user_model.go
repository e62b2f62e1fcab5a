package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	FirstName    *string   `gorm:"type:varchar(100)"`
	LastName     *string   `gorm:"type:varchar(100)"`
	PhoneNumber  *string   `gorm:"type:varchar(20)"`
	IsActive     bool      `gorm:"default:true"`
	IsVerified   bool      `gorm:"default:false"`
	Preferences  datatypes.JSON
	Settings     datatypes.JSON
	AvatarURL    *string   `gorm:"type:text"`
	Bio          *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	LastLogin    *time.Time

	Sessions      []ChatSession    `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Conversations []Conversation   `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Analytics     []AnalyticsEvent `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
