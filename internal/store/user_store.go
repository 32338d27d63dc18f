package store

import (
	"context"
	"time"

	"wicki/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	now := time.Now().UTC()
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = now
	}
	if usr.UpdatedAt.IsZero() {
		usr.UpdatedAt = usr.CreatedAt
	}
	return mapErr(u.db.WithContext(ctx).Create(usr).Error)
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (u *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

// EmailTaken reports whether another user (not except) already uses email.
// Pass uuid.Nil to check against every user.
func (u *UserStore) EmailTaken(ctx context.Context, email string, except domain.UserID) (bool, error) {
	return u.taken(ctx, "email", email, except)
}

func (u *UserStore) UsernameTaken(ctx context.Context, username string, except domain.UserID) (bool, error) {
	return u.taken(ctx, "username", username, except)
}

func (u *UserStore) taken(ctx context.Context, column, value string, except domain.UserID) (bool, error) {
	q := u.db.WithContext(ctx).Model(&domain.User{}).Where(column+" = ?", value)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (u *UserStore) UpdateProfile(ctx context.Context, id domain.UserID, email, username string) error {
	tx := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"email":      email,
			"username":   username,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return mapErr(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// List returns users ordered by username, optionally filtered by a
// username substring.
func (u *UserStore) List(ctx context.Context, search string, limit int) ([]domain.User, error) {
	q := u.db.WithContext(ctx).Order("username ASC")
	if search != "" {
		q = q.Where("username LIKE ?", "%"+search+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.User
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
