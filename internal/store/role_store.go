package store

import (
	"context"
	"errors"
	"time"

	"wicki/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleStore struct{ db *gorm.DB }

func (s *Store) Roles() *RoleStore { return &RoleStore{s.DB} }

func (rs *RoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var r domain.Role
	if err := rs.db.WithContext(ctx).First(&r, "name = ?", name).Error; err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

// EnsureRole returns the role called name, creating it when missing.
func (rs *RoleStore) EnsureRole(ctx context.Context, name, description string) (*domain.Role, error) {
	r, err := rs.GetByName(ctx, name)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}
	now := time.Now().UTC()
	r = &domain.Role{ID: uuid.New(), Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	if err := rs.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, mapErr(err)
	}
	return r, nil
}

// EnsurePermission returns the (action, entity, access) permission, creating
// it when missing.
func (rs *RoleStore) EnsurePermission(ctx context.Context, action, entity, access string) (*domain.Permission, error) {
	var p domain.Permission
	err := rs.db.WithContext(ctx).
		First(&p, "action = ? AND entity = ? AND access = ?", action, entity, access).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	now := time.Now().UTC()
	p = domain.Permission{ID: uuid.New(), Action: action, Entity: entity, Access: access, CreatedAt: now, UpdatedAt: now}
	if err := rs.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (rs *RoleStore) Grant(ctx context.Context, roleID domain.RoleID, permID domain.PermissionID) error {
	return rs.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.RolePermission{RoleID: roleID, PermissionID: permID}).Error
}

func (rs *RoleStore) AssignToUser(ctx context.Context, userID domain.UserID, roleID domain.RoleID) error {
	return rs.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.UserRole{UserID: userID, RoleID: roleID}).Error
}

func (rs *RoleStore) RolesForUser(ctx context.Context, userID domain.UserID) ([]domain.Role, error) {
	var out []domain.Role
	err := rs.db.WithContext(ctx).
		Model(&domain.Role{}).
		Joins("JOIN users_to_roles ON users_to_roles.role_id = roles.id").
		Where("users_to_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Find(&out).Error
	return out, err
}

// PermissionsForUser returns the distinct permissions reachable through
// userID's roles.
func (rs *RoleStore) PermissionsForUser(ctx context.Context, userID domain.UserID) ([]domain.Permission, error) {
	var out []domain.Permission
	err := rs.db.WithContext(ctx).
		Model(&domain.Permission{}).
		Distinct("permissions.*").
		Joins("JOIN roles_to_permissions ON roles_to_permissions.permission_id = permissions.id").
		Joins("JOIN users_to_roles ON users_to_roles.role_id = roles_to_permissions.role_id").
		Where("users_to_roles.user_id = ?", userID).
		Order("permissions.entity ASC, permissions.action ASC, permissions.access ASC").
		Find(&out).Error
	return out, err
}

// HasPermission reports whether any role of userID grants action on entity
// with one of the given access scopes.
func (rs *RoleStore) HasPermission(ctx context.Context, userID domain.UserID, action, entity string, access []string) (bool, error) {
	if len(access) == 0 {
		return false, nil
	}
	var n int64
	err := rs.db.WithContext(ctx).
		Table("users").
		Joins("JOIN users_to_roles ON users_to_roles.user_id = users.id").
		Joins("JOIN roles_to_permissions ON roles_to_permissions.role_id = users_to_roles.role_id").
		Joins("JOIN permissions ON permissions.id = roles_to_permissions.permission_id").
		Where("users.id = ?", userID).
		Where("permissions.action = ? AND permissions.entity = ?", action, entity).
		Where("permissions.access IN ?", access).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (rs *RoleStore) HasRole(ctx context.Context, userID domain.UserID, name string) (bool, error) {
	var n int64
	err := rs.db.WithContext(ctx).
		Table("users").
		Joins("JOIN users_to_roles ON users_to_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = users_to_roles.role_id").
		Where("users.id = ? AND roles.name = ?", userID, name).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
