package store

import (
	"context"
	"encoding/json"
	"time"

	"wicki/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditStore struct{ db *gorm.DB }

func (s *Store) Audit() *AuditStore { return &AuditStore{s.DB} }

// Record writes one audit row. metadata is marshalled to JSON.
func (as *AuditStore) Record(ctx context.Context, userID *domain.UserID, action string, metadata any, ip, ua string) error {
	var raw []byte
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		raw = b
	}
	return as.db.WithContext(ctx).Create(&domain.AuditLog{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		Metadata:  raw,
		IP:        ip,
		UserAgent: ua,
		CreatedAt: time.Now().UTC(),
	}).Error
}

func (as *AuditStore) ListForUser(ctx context.Context, userID domain.UserID) ([]domain.AuditLog, error) {
	var out []domain.AuditLog
	err := as.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
