package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie      = "en_session"
	VerificationCookie = "en_verification"
	ThemeCookie        = "en_theme"

	verificationMaxAge = 10 * time.Minute
	themeMaxAge        = 365 * 24 * time.Hour
)

var ErrBadCookie = errors.New("invalid cookie")

// CookieCodec signs cookie payloads as HS256 JWTs. The first secret signs;
// every secret is accepted when verifying, so secrets can be rotated by
// prepending a new one. The cookie name is bound as the audience so one
// cookie cannot be replayed as another.
type CookieCodec struct {
	secrets [][]byte
	secure  bool
	now     func() time.Time
}

func NewCookieCodec(secrets []string, secure bool) (*CookieCodec, error) {
	if len(secrets) == 0 {
		return nil, errors.New("cookie codec: at least one secret is required")
	}
	c := &CookieCodec{secure: secure, now: time.Now}
	for _, s := range secrets {
		c.secrets = append(c.secrets, []byte(s))
	}
	return c, nil
}

func (c *CookieCodec) sign(name, value string, expires time.Time) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:  value,
		Audience: jwt.ClaimStrings{name},
		IssuedAt: jwt.NewNumericDate(now),
	}
	if !expires.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expires)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secrets[0])
}

func (c *CookieCodec) verify(name, token string) (string, error) {
	var lastErr error
	for _, secret := range c.secrets {
		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(token, claims,
			func(*jwt.Token) (any, error) { return secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(name),
			jwt.WithTimeFunc(c.now),
		)
		if err == nil {
			return claims.Subject, nil
		}
		lastErr = err
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", ErrBadCookie, lastErr)
}

// Read returns the verified payload of cookie name. A missing cookie yields
// http.ErrNoCookie.
func (c *CookieCodec) Read(r *http.Request, name string) (string, error) {
	ck, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return c.verify(name, ck.Value)
}

// Write sets a signed cookie that lives for maxAge.
func (c *CookieCodec) Write(w http.ResponseWriter, name, value string, maxAge time.Duration) error {
	expires := c.now().Add(maxAge)
	token, err := c.sign(name, value, expires)
	if err != nil {
		return err
	}
	ck := c.base(name, token)
	ck.Expires = expires.UTC()
	ck.MaxAge = int(maxAge / time.Second)
	http.SetCookie(w, ck)
	return nil
}

// WriteSession stores the session id. Without remember the cookie lasts for
// the browser session, though the token still carries the server expiry.
func (c *CookieCodec) WriteSession(w http.ResponseWriter, sessionID string, expires time.Time, remember bool) error {
	token, err := c.sign(SessionCookie, sessionID, expires)
	if err != nil {
		return err
	}
	ck := c.base(SessionCookie, token)
	if remember {
		ck.Expires = expires.UTC()
	}
	http.SetCookie(w, ck)
	return nil
}

func (c *CookieCodec) WriteVerification(w http.ResponseWriter, email string) error {
	return c.Write(w, VerificationCookie, email, verificationMaxAge)
}

func (c *CookieCodec) Clear(w http.ResponseWriter, name string) {
	ck := c.base(name, "")
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	http.SetCookie(w, ck)
}

func (c *CookieCodec) base(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Theme preference is not sensitive and is stored unsigned.

func ReadTheme(r *http.Request) string {
	ck, err := r.Cookie(ThemeCookie)
	if err != nil {
		return "system"
	}
	switch ck.Value {
	case "light", "dark":
		return ck.Value
	}
	return "system"
}

func (c *CookieCodec) WriteTheme(w http.ResponseWriter, theme string) {
	if theme != "light" && theme != "dark" {
		c.Clear(w, ThemeCookie)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   int(themeMaxAge.Seconds()),
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
