package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID    *UserID   `gorm:"type:uuid;index" db:"user_id"`
	Action    string    `gorm:"type:text;not null" db:"action"`
	Metadata  []byte    `db:"metadata"` // json
	IP        string    `gorm:"type:text" db:"ip"`
	UserAgent string    `gorm:"type:text" db:"user_agent"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
