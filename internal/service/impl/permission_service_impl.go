package impl

import (
	"context"
	"errors"
	"fmt"

	"wicki/internal/domain"
	"wicki/internal/observability/metrics"
	"wicki/internal/permission"
	"wicki/internal/store"
)

var (
	seedEntities = []string{"user", "post"}
	seedActions  = []string{"create", "read", "update", "delete"}
)

// PermissionServiceImpl evaluates authorization against the role graph on
// every call; nothing is cached.
type PermissionServiceImpl struct {
	store *store.Store
}

func NewPermissionServiceImpl(st *store.Store) *PermissionServiceImpl {
	return &PermissionServiceImpl{store: st}
}

func (s *PermissionServiceImpl) HasPermission(ctx context.Context, userID domain.UserID, p permission.Permission) (bool, error) {
	ok, err := s.store.Roles().HasPermission(ctx, userID, p.Action, p.Entity, p.Access)
	metrics.PermissionChecksTotal.WithLabelValues("permission", checkResult(ok, err)).Inc()
	if err != nil {
		return false, fmt.Errorf("check permission %s: %w", p, err)
	}
	return ok, nil
}

func (s *PermissionServiceImpl) HasRole(ctx context.Context, userID domain.UserID, role string) (bool, error) {
	ok, err := s.store.Roles().HasRole(ctx, userID, role)
	metrics.PermissionChecksTotal.WithLabelValues("role", checkResult(ok, err)).Inc()
	if err != nil {
		return false, fmt.Errorf("check role %s: %w", role, err)
	}
	return ok, nil
}

func checkResult(ok bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case ok:
		return "allowed"
	}
	return "denied"
}

func (s *PermissionServiceImpl) Capabilities(ctx context.Context, userID domain.UserID) ([]string, []string, error) {
	roles, err := s.store.Roles().RolesForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	perms, err := s.store.Roles().PermissionsForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		roleNames = append(roleNames, r.Name)
	}
	permStrings := make([]string, 0, len(perms))
	for _, p := range perms {
		permStrings = append(permStrings, permission.Permission{
			Action: p.Action, Entity: p.Entity, Access: []string{p.Access},
		}.String())
	}
	return roleNames, permStrings, nil
}

// SeedDefaults creates the admin and user roles and every entity x action x
// access permission, granting "any" to admin and "own" to user. Running it
// again changes nothing.
func (s *PermissionServiceImpl) SeedDefaults(ctx context.Context) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		admin, err := tx.Roles().EnsureRole(ctx, domain.RoleAdmin, "Full access to every entity")
		if err != nil {
			return err
		}
		user, err := tx.Roles().EnsureRole(ctx, domain.RoleUser, "Access to own entities")
		if err != nil {
			return err
		}
		grantee := map[string]*domain.Role{domain.AccessAny: admin, domain.AccessOwn: user}

		for _, entity := range seedEntities {
			for _, action := range seedActions {
				for _, access := range []string{domain.AccessOwn, domain.AccessAny} {
					p, err := tx.Roles().EnsurePermission(ctx, action, entity, access)
					if err != nil {
						return fmt.Errorf("seed %s:%s:%s: %w", action, entity, access, err)
					}
					if err := tx.Roles().Grant(ctx, grantee[access].ID, p.ID); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func (s *PermissionServiceImpl) AssignRole(ctx context.Context, userID domain.UserID, role string) error {
	r, err := s.store.Roles().GetByName(ctx, role)
	if errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	if err != nil {
		return err
	}
	return s.store.Roles().AssignToUser(ctx, userID, r.ID)
}
