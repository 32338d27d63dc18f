package impl

import "errors"

var (
	ErrEmptyPassword   = errors.New("empty password")
	ErrEmptyCredential = errors.New("empty credential(s)")
	ErrEmptyUsername   = errors.New("empty username")
	ErrEmptyEmail      = errors.New("empty email")
	ErrUnknownRole     = errors.New("unknown role")
	ErrEmailNotSent    = errors.New("email not sent")
)
