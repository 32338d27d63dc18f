package domain

import (
	"time"

	"github.com/google/uuid"
)

type VerificationType string

const VerificationOnboarding VerificationType = "onboarding"

func (t VerificationType) Valid() bool {
	switch t {
	case VerificationOnboarding:
		return true
	}
	return false
}

// Verification stores the parameters needed to recompute a one-time code
// for (Target, Type). There is at most one row per pair.
type Verification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" db:"id"`
	Target    string           `gorm:"type:text;not null;uniqueIndex:ux_verifications_target_type" db:"target"`
	Type      VerificationType `gorm:"type:text;not null;uniqueIndex:ux_verifications_target_type" db:"type"`
	Secret    string           `gorm:"type:text;not null" db:"secret"`
	Algorithm string           `gorm:"type:text;not null" db:"algorithm"`
	Digits    int              `gorm:"not null" db:"digits"`
	Period    int              `gorm:"not null" db:"period"`
	CharSet   string           `gorm:"type:text;not null" db:"char_set"`
	ExpiresAt *time.Time       `gorm:"index" db:"expires_at"`
	CreatedAt time.Time        `gorm:"not null" db:"created_at"`
}

func (Verification) TableName() string { return "verifications" }
