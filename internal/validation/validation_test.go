package validation

import (
	"testing"

	"wicki/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest(t *testing.T) {
	err := Struct(dto.LoginRequest{Email: "not-an-email", Password: "123"})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok, "expected field errors, got %v", err)
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password")

	assert.NoError(t, Struct(dto.LoginRequest{Email: "a@x.com", Password: "secret1"}))
}

func TestOnboardingRequest(t *testing.T) {
	valid := dto.OnboardingRequest{
		Username: "Alice_1", Password: "secret1", ConfirmPassword: "secret1", AgreeToTerms: true,
	}
	require.NoError(t, Struct(valid))

	tests := []struct {
		name  string
		mut   func(*dto.OnboardingRequest)
		field string
	}{
		{"short username", func(r *dto.OnboardingRequest) { r.Username = "al" }, "username"},
		{"long username", func(r *dto.OnboardingRequest) { r.Username = "abcdefghijklmnopqrstu" }, "username"},
		{"bad chars", func(r *dto.OnboardingRequest) { r.Username = "al-ice" }, "username"},
		{"mismatch", func(r *dto.OnboardingRequest) { r.ConfirmPassword = "secret2" }, "confirmPassword"},
		{"terms", func(r *dto.OnboardingRequest) { r.AgreeToTerms = false }, "agreeToTermsOfServiceAndPrivacyPolicy"},
		{"short password", func(r *dto.OnboardingRequest) { r.Password, r.ConfirmPassword = "12345", "12345" }, "password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mut(&r)
			fe, ok := AsFieldErrors(Struct(r))
			require.True(t, ok)
			assert.Contains(t, fe, tc.field)
		})
	}
}

func TestVerifyRequest(t *testing.T) {
	ok := dto.VerifyRequest{Code: "123456", Type: "onboarding", Target: "a@x.com"}
	require.NoError(t, Struct(ok))

	for _, code := range []string{"12345", "1234567", "12a456", "-12345", ""} {
		r := ok
		r.Code = code
		fe, isFE := AsFieldErrors(Struct(r))
		require.True(t, isFE, "code %q", code)
		assert.Contains(t, fe, "code")
	}

	r := ok
	r.Type = "reset-password"
	fe, _ := AsFieldErrors(Struct(r))
	assert.Contains(t, fe, "type")
}

func TestThemeRequest(t *testing.T) {
	for _, theme := range []string{"system", "light", "dark"} {
		assert.NoError(t, Struct(dto.ThemeRequest{Theme: theme}))
	}
	assert.Error(t, Struct(dto.ThemeRequest{Theme: "blue"}))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
	assert.Equal(t, "alice", NormalizeUsername("Alice"))
}
