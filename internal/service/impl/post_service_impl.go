package impl

import (
	"context"
	"errors"
	"strings"

	"wicki/internal/domain"
	"wicki/internal/dto"
	"wicki/internal/store"
)

type PostServiceImpl struct {
	store *store.Store
}

func NewPostServiceImpl(st *store.Store) *PostServiceImpl {
	return &PostServiceImpl{store: st}
}

func (s *PostServiceImpl) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Post, error) {
	return s.store.Posts().ListByUser(ctx, userID)
}

func (s *PostServiceImpl) Get(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	p, err := s.store.Posts().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrPostNotFound
	}
	return p, err
}

func (s *PostServiceImpl) Create(ctx context.Context, userID domain.UserID, r dto.PostRequest) (*domain.Post, error) {
	p := &domain.Post{
		UserID:  userID,
		Title:   strings.TrimSpace(r.Title),
		Content: r.Content,
	}
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		taken, err := tx.Posts().TitleTaken(ctx, p.Title, domain.PostID{})
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrTitleTaken
		}
		return tx.Posts().Create(ctx, p)
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, domain.ErrTitleTaken
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostServiceImpl) Update(ctx context.Context, id domain.PostID, r dto.PostRequest) (*domain.Post, error) {
	var out *domain.Post
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		p, err := tx.Posts().GetByID(ctx, id)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrPostNotFound
		}
		if err != nil {
			return err
		}
		title := strings.TrimSpace(r.Title)
		taken, err := tx.Posts().TitleTaken(ctx, title, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrTitleTaken
		}
		if err := tx.Posts().Update(ctx, id, title, r.Content); err != nil {
			return err
		}
		out, err = tx.Posts().GetByID(ctx, p.ID)
		return err
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, domain.ErrTitleTaken
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostServiceImpl) Delete(ctx context.Context, id domain.PostID) error {
	err := s.store.Posts().Delete(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrPostNotFound
	}
	return err
}
