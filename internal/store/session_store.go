package store

import (
	"context"
	"time"

	"wicki/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{s.DB} }

func (ss *SessionStore) Create(ctx context.Context, s *domain.Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return mapErr(ss.db.WithContext(ctx).Create(s).Error)
}

// GetLiveUserID resolves a session id to its user id. Sessions that are
// expired at now, or whose user no longer exists, yield ErrRecordNotFound.
func (ss *SessionStore) GetLiveUserID(ctx context.Context, id domain.SessionID, now time.Time) (domain.UserID, error) {
	var row struct {
		UserID uuid.UUID
	}
	err := ss.db.WithContext(ctx).
		Table("sessions").
		Select("sessions.user_id AS user_id").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.id = ? AND sessions.expires_at > ?", id, now.UTC()).
		Take(&row).Error
	if err != nil {
		return uuid.Nil, mapErr(err)
	}
	return row.UserID, nil
}

func (ss *SessionStore) GetByID(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	var s domain.Session
	if err := ss.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (ss *SessionStore) Delete(ctx context.Context, id domain.SessionID) error {
	return ss.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Session{}).Error
}

// DeleteAllForUser removes every session of userID except keep (uuid.Nil
// keeps none).
func (ss *SessionStore) DeleteAllForUser(ctx context.Context, userID domain.UserID, keep domain.SessionID) (int64, error) {
	q := ss.db.WithContext(ctx).Where("user_id = ?", userID)
	if keep != uuid.Nil {
		q = q.Where("id <> ?", keep)
	}
	tx := q.Delete(&domain.Session{})
	return tx.RowsAffected, tx.Error
}

func (ss *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := ss.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.Session{})
	return tx.RowsAffected, tx.Error
}
