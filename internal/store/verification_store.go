package store

import (
	"context"
	"time"

	"wicki/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerificationStore struct{ db *gorm.DB }

func (s *Store) Verifications() *VerificationStore { return &VerificationStore{s.DB} }

// Upsert stores v, replacing any previous record for the same (target, type).
func (vs *VerificationStore) Upsert(ctx context.Context, v *domain.Verification) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	return mapErr(vs.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "target"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"secret", "algorithm", "digits", "period", "char_set", "expires_at", "created_at"}),
	}).Create(v).Error)
}

// GetActive returns the record for (target, type) unless it has expired at
// now. Records without an expiration never expire.
func (vs *VerificationStore) GetActive(ctx context.Context, target string, typ domain.VerificationType, now time.Time) (*domain.Verification, error) {
	var v domain.Verification
	err := vs.db.WithContext(ctx).
		Where("target = ? AND type = ?", target, typ).
		Where("expires_at > ? OR expires_at IS NULL", now.UTC()).
		Take(&v).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

// Consume deletes v, matching on its id and secret so a code re-issued
// after v was read stays in place. It returns ErrRecordNotFound if nothing
// was deleted, so of two concurrent consumers only one succeeds.
func (vs *VerificationStore) Consume(ctx context.Context, v *domain.Verification) error {
	tx := vs.db.WithContext(ctx).
		Where("id = ? AND secret = ?", v.ID, v.Secret).
		Delete(&domain.Verification{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (vs *VerificationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := vs.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now.UTC()).
		Delete(&domain.Verification{})
	return tx.RowsAffected, tx.Error
}
