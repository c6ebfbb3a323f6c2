package models

import "time"

// Session is a persisted sign-in. The token is what the client holds (signed).
type Session struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Token     string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	UserAgent string     `gorm:"size:255" json:"user_agent,omitempty"`
}

// Live reports whether the session can still authenticate requests at now.
func (s Session) Live(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
