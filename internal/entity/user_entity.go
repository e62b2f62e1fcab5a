package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Username     string
	Email        string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	IsActive     bool
	IsVerified   bool
	Preferences  map[string]interface{}
	Settings     map[string]interface{}
	AvatarURL    *string
	Bio          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

func (u *User) FullName() string {
	first, last := "", ""
	if u.FirstName != nil {
		first = *u.FirstName
	}
	if u.LastName != nil {
		last = *u.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	default:
		return u.Username
	}
}
