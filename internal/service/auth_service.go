package service

import (
	"context"

	"wicki/internal/domain"
)

// ClientMeta describes the caller of a request for audit purposes.
type ClientMeta struct {
	IP        string
	UserAgent string
}

type AuthService interface {
	// Login returns a new session, or domain.ErrInvalidCredentials without
	// saying whether the email exists.
	Login(ctx context.Context, email, password string, meta ClientMeta) (*domain.Session, error)
	// Signup creates the user, its credential, the default role assignment and
	// a session in one transaction.
	Signup(ctx context.Context, email, username, password string, meta ClientMeta) (*domain.User, *domain.Session, error)
	// ResolveSession maps a session id to a live user id, or
	// domain.ErrSessionNotFound.
	ResolveSession(ctx context.Context, id domain.SessionID) (domain.UserID, error)
	Logout(ctx context.Context, id domain.SessionID, meta ClientMeta) error
	// ChangePassword replaces the password and revokes every other session
	// of the user; keep is the caller's own session.
	ChangePassword(ctx context.Context, userID domain.UserID, keep domain.SessionID, current, next string, meta ClientMeta) error
}
