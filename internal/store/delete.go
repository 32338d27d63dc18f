package store

import (
	"context"

	"wicki/internal/domain"
)

// DeleteUserData removes the user's record and every row that belongs to it,
// returning how many rows were deleted per table.
func (s *Store) DeleteUserData(ctx context.Context, userID domain.UserID) (map[string]int64, error) {
	deleted := map[string]int64{}

	err := s.WithTx(ctx, func(tx *Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		db := tx.DB.WithContext(ctx)

		steps := []struct {
			label string
			model any
			where string
			arg   any
		}{
			{"sessions", &domain.Session{}, "user_id = ?", userID},
			{"passwordCredentials", &domain.PasswordCredential{}, "user_id = ?", userID},
			{"roleAssignments", &domain.UserRole{}, "user_id = ?", userID},
			{"posts", &domain.Post{}, "user_id = ?", userID},
			{"auditLogs", &domain.AuditLog{}, "user_id = ?", userID},
			{"verifications", &domain.Verification{}, "target = ?", user.Email},
			{"users", &domain.User{}, "id = ?", userID},
		}
		for _, st := range steps {
			res := db.Where(st.where, st.arg).Delete(st.model)
			if res.Error != nil {
				return res.Error
			}
			deleted[st.label] = res.RowsAffected
		}
		if deleted["users"] == 0 {
			return ErrRecordNotFound
		}
		return nil
	})

	return deleted, err
}
