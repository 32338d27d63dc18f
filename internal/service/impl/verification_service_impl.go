package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wicki/internal/domain"
	"wicki/internal/observability/metrics"
	"wicki/internal/store"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	CodeLength       = 6
	codeCharSet      = "0123456789"
	codeIssuer       = "wicki"
	DefaultCodeValid = 10 * time.Minute
)

type VerificationServiceImpl struct {
	store  *store.Store
	period time.Duration
	Now    func() time.Time
}

func NewVerificationServiceImpl(st *store.Store, period time.Duration) *VerificationServiceImpl {
	if period < time.Second {
		period = DefaultCodeValid
	}
	return &VerificationServiceImpl{
		store:  st,
		period: period,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *VerificationServiceImpl) Issue(ctx context.Context, target string, typ domain.VerificationType) (string, error) {
	code, err := s.issue(ctx, target, typ)
	metrics.VerificationsTotal.WithLabelValues(string(typ), "issue", metrics.Result(err)).Inc()
	return code, err
}

func (s *VerificationServiceImpl) issue(ctx context.Context, target string, typ domain.VerificationType) (string, error) {
	if target == "" || !typ.Valid() {
		return "", fmt.Errorf("issue verification: bad target or type %q", typ)
	}
	period := uint(s.period / time.Second)
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      codeIssuer,
		AccountName: target,
		Period:      period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp: %w", err)
	}

	now := s.Now()
	code, err := totp.GenerateCodeCustom(key.Secret(), now, totp.ValidateOpts{
		Period:    period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	expires := now.Add(s.period)
	if err := s.store.Verifications().Upsert(ctx, &domain.Verification{
		Target:    target,
		Type:      typ,
		Secret:    key.Secret(),
		Algorithm: otp.AlgorithmSHA1.String(),
		Digits:    otp.DigitsSix.Length(),
		Period:    int(period),
		CharSet:   codeCharSet,
		ExpiresAt: &expires,
		CreatedAt: now,
	}); err != nil {
		return "", err
	}
	return code, nil
}

func (s *VerificationServiceImpl) Validate(ctx context.Context, target string, typ domain.VerificationType, code string) error {
	err := s.validate(ctx, target, typ, code)
	result := metrics.Result(err)
	if errors.Is(err, domain.ErrInvalidCode) {
		result = "invalid"
	}
	metrics.VerificationsTotal.WithLabelValues(string(typ), "validate", result).Inc()
	return err
}

func (s *VerificationServiceImpl) validate(ctx context.Context, target string, typ domain.VerificationType, code string) error {
	if !wellFormedCode(code) || target == "" || !typ.Valid() {
		return domain.ErrInvalidCode
	}

	now := s.Now()
	v, err := s.store.Verifications().GetActive(ctx, target, typ, now)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrInvalidCode
	}
	if err != nil {
		return err
	}

	algo, ok := parseAlgorithm(v.Algorithm)
	if !ok {
		return domain.ErrInvalidCode
	}
	valid, err := totp.ValidateCustom(code, v.Secret, now, totp.ValidateOpts{
		Period:    uint(v.Period),
		Skew:      1,
		Digits:    otp.Digits(v.Digits),
		Algorithm: algo,
	})
	if err != nil || !valid {
		return domain.ErrInvalidCode
	}

	// Only one concurrent consumer deletes the row.
	if err := s.store.Verifications().Consume(ctx, v); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrInvalidCode
		}
		return err
	}
	return nil
}

func (s *VerificationServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.Verifications().DeleteExpired(ctx, s.Now())
}

// wellFormedCode checks shape before any lookup: exactly CodeLength ASCII
// digits.
func wellFormedCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(codeCharSet, rune(code[i])) {
			return false
		}
	}
	return true
}

func parseAlgorithm(name string) (otp.Algorithm, bool) {
	switch strings.ToUpper(name) {
	case "SHA1":
		return otp.AlgorithmSHA1, true
	case "SHA256":
		return otp.AlgorithmSHA256, true
	case "SHA512":
		return otp.AlgorithmSHA512, true
	}
	return 0, false
}
