package specification

import (
	"time"

	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// LiveAt keeps sessions whose expiry is still in the future.
type LiveAt struct {
	Now time.Time
}

func (s LiveAt) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at > ?", s.Now)
}

// ExpiredAt keeps sessions past their expiry, for the sweeper.
type ExpiredAt struct {
	Now time.Time
}

func (s ExpiredAt) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at <= ?", s.Now)
}
