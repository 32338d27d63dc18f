package service

import (
	"context"

	"wicki/internal/domain"
	"wicki/internal/dto"
)

type UserService interface {
	Get(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, search string) ([]domain.User, error)
	EmailRegistered(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id domain.UserID, r dto.ProfileRequest, meta ClientMeta) (*domain.User, error)
	DeleteData(ctx context.Context, id domain.UserID, meta ClientMeta) error
	Export(ctx context.Context, id domain.UserID) (*dto.UserDataExport, error)
}
