package domain

import "time"

// Session is the server-side proof of a successful login. Its ID is the only
// thing carried in the session cookie.
type Session struct {
	ID        SessionID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID    UserID    `gorm:"type:uuid;not null;index" db:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" db:"expires_at"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
	IP        string    `gorm:"type:text" db:"ip"`
	UserAgent string    `gorm:"type:text" db:"user_agent"`
}

func (Session) TableName() string { return "sessions" }
