package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrInvalidCode        = errors.New("invalid code")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username not available")
	ErrTitleTaken         = errors.New("title already used")
)
