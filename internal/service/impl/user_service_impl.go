package impl

import (
	"context"
	"errors"
	"time"

	"wicki/internal/domain"
	"wicki/internal/dto"
	"wicki/internal/events"
	"wicki/internal/service"
	"wicki/internal/store"
	"wicki/internal/validation"

	"github.com/google/uuid"
)

const userListLimit = 200

type UserServiceImpl struct {
	store *store.Store
	Now   func() time.Time
}

func NewUserServiceImpl(st *store.Store) *UserServiceImpl {
	return &UserServiceImpl{store: st, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *UserServiceImpl) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (s *UserServiceImpl) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.store.Users().GetByUsername(ctx, validation.NormalizeUsername(username))
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (s *UserServiceImpl) List(ctx context.Context, search string) ([]domain.User, error) {
	return s.store.Users().List(ctx, validation.NormalizeUsername(search), userListLimit)
}

func (s *UserServiceImpl) EmailRegistered(ctx context.Context, email string) (bool, error) {
	return s.store.Users().EmailTaken(ctx, validation.NormalizeEmail(email), uuid.Nil)
}

func (s *UserServiceImpl) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.store.Users().UsernameTaken(ctx, validation.NormalizeUsername(username), uuid.Nil)
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id domain.UserID, r dto.ProfileRequest, meta service.ClientMeta) (*domain.User, error) {
	email := validation.NormalizeEmail(r.Email)
	username := validation.NormalizeUsername(r.Username)

	var out *domain.User
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if taken, err := tx.Users().EmailTaken(ctx, email, id); err != nil {
			return err
		} else if taken {
			return domain.ErrEmailTaken
		}
		if taken, err := tx.Users().UsernameTaken(ctx, username, id); err != nil {
			return err
		} else if taken {
			return domain.ErrUsernameTaken
		}
		if err := tx.Users().UpdateProfile(ctx, id, email, username); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = u
		return tx.Audit().Record(ctx, &id, events.ActionProfileUpdated, events.ProfileUpdated{
			UserID:   id.String(),
			Email:    email,
			Username: username,
			At:       s.Now(),
		}, meta.IP, meta.UserAgent)
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, s.conflict(ctx, id, email)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// conflict names the field behind a unique violation that slipped past the
// pre-checks, i.e. a concurrent write took the value first.
func (s *UserServiceImpl) conflict(ctx context.Context, id domain.UserID, email string) error {
	if taken, err := s.store.Users().EmailTaken(ctx, email, id); err == nil && taken {
		return domain.ErrEmailTaken
	}
	return domain.ErrUsernameTaken
}

// DeleteData removes the user and everything it owns. The audit row is
// written without a user reference since the user no longer exists.
func (s *UserServiceImpl) DeleteData(ctx context.Context, id domain.UserID, meta service.ClientMeta) error {
	deleted, err := s.store.DeleteUserData(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return s.store.Audit().Record(ctx, nil, events.ActionDataDeleted, events.UserDataDeleted{
		UserID:  id.String(),
		Deleted: deleted,
		At:      s.Now(),
	}, meta.IP, meta.UserAgent)
}

func (s *UserServiceImpl) Export(ctx context.Context, id domain.UserID) (*dto.UserDataExport, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.store.Roles().RolesForUser(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.store.Posts().ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &dto.UserDataExport{
		User:  ProfileResponse(u),
		Roles: make([]string, 0, len(roles)),
		Posts: make([]dto.PostResponse, 0, len(posts)),
	}
	for _, r := range roles {
		out.Roles = append(out.Roles, r.Name)
	}
	for i := range posts {
		out.Posts = append(out.Posts, PostResponse(&posts[i], u.Username))
	}
	return out, nil
}

func ProfileResponse(u *domain.User) dto.ProfileResponse {
	return dto.ProfileResponse{ID: u.ID.String(), Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt}
}

func PostResponse(p *domain.Post, author string) dto.PostResponse {
	return dto.PostResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		Author:    author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
