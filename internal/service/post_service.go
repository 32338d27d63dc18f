package service

import (
	"context"

	"wicki/internal/domain"
	"wicki/internal/dto"
)

type PostService interface {
	ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Post, error)
	Get(ctx context.Context, id domain.PostID) (*domain.Post, error)
	Create(ctx context.Context, userID domain.UserID, r dto.PostRequest) (*domain.Post, error)
	Update(ctx context.Context, id domain.PostID, r dto.PostRequest) (*domain.Post, error)
	Delete(ctx context.Context, id domain.PostID) error
}
