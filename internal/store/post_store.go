package store

import (
	"context"
	"time"

	"wicki/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostStore struct{ db *gorm.DB }

func (s *Store) Posts() *PostStore { return &PostStore{s.DB} }

func (ps *PostStore) Create(ctx context.Context, p *domain.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = p.CreatedAt
	return mapErr(ps.db.WithContext(ctx).Create(p).Error)
}

func (ps *PostStore) GetByID(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	var p domain.Post
	if err := ps.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (ps *PostStore) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Post, error) {
	var out []domain.Post
	err := ps.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// TitleTaken reports whether a post other than except already uses title.
func (ps *PostStore) TitleTaken(ctx context.Context, title string, except domain.PostID) (bool, error) {
	q := ps.db.WithContext(ctx).Model(&domain.Post{}).Where("title = ?", title)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (ps *PostStore) Update(ctx context.Context, id domain.PostID, title, content string) error {
	tx := ps.db.WithContext(ctx).Model(&domain.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":      title,
			"content":    content,
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

func (ps *PostStore) Delete(ctx context.Context, id domain.PostID) error {
	tx := ps.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Post{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
