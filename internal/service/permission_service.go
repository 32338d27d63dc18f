package service

import (
	"context"

	"wicki/internal/domain"
	"wicki/internal/permission"
)

type PermissionService interface {
	HasPermission(ctx context.Context, userID domain.UserID, p permission.Permission) (bool, error)
	HasRole(ctx context.Context, userID domain.UserID, role string) (bool, error)
	// Capabilities lists role names and "action:entity:access" strings.
	Capabilities(ctx context.Context, userID domain.UserID) (roles, perms []string, err error)
	SeedDefaults(ctx context.Context) error
	AssignRole(ctx context.Context, userID domain.UserID, role string) error
}
