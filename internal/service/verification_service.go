package service

import (
	"context"

	"wicki/internal/domain"
)

type VerificationService interface {
	// Issue creates or replaces the record for (target, typ) and returns the
	// current one-time code.
	Issue(ctx context.Context, target string, typ domain.VerificationType) (code string, err error)
	// Validate consumes the record when code matches. Wrong, expired and
	// missing codes all yield domain.ErrInvalidCode.
	Validate(ctx context.Context, target string, typ domain.VerificationType, code string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
