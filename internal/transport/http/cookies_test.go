package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newCodec(t *testing.T, secrets ...string) *CookieCodec {
	t.Helper()
	c, err := NewCookieCodec(secrets, true)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

// roundTrip runs write and reads the cookie back through r under name.
func roundTrip(t *testing.T, r *CookieCodec, write func(http.ResponseWriter), name string) (string, error) {
	t.Helper()
	rec := httptest.NewRecorder()
	write(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: name, Value: cookies[0].Value})
	return r.Read(req, name)
}

func TestCookieRoundTrip(t *testing.T) {
	c := newCodec(t, "s1")
	got, err := roundTrip(t, c, func(w http.ResponseWriter) {
		if err := c.WriteSession(w, "sess-1", time.Now().Add(time.Hour), true); err != nil {
			t.Fatalf("write: %v", err)
		}
	}, SessionCookie)
	if err != nil || got != "sess-1" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestCookieSecretRotation(t *testing.T) {
	old := newCodec(t, "old")
	rotated := newCodec(t, "new", "old")
	retired := newCodec(t, "new")

	write := func(w http.ResponseWriter) {
		if err := old.WriteVerification(w, "a@x.com"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if got, err := roundTrip(t, rotated, write, VerificationCookie); err != nil || got != "a@x.com" {
		t.Fatalf("rotated codec must accept old secret: %q, %v", got, err)
	}
	if _, err := roundTrip(t, retired, write, VerificationCookie); !errors.Is(err, ErrBadCookie) {
		t.Fatalf("expected ErrBadCookie once the secret is dropped, got %v", err)
	}
}

func TestCookieBoundToName(t *testing.T) {
	c := newCodec(t, "s1")
	// a verification cookie replayed as a session cookie
	_, err := roundTrip(t, c, func(w http.ResponseWriter) {
		if err := c.WriteVerification(w, "a@x.com"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}, SessionCookie)
	if !errors.Is(err, ErrBadCookie) {
		t.Fatalf("expected ErrBadCookie, got %v", err)
	}
}

func TestCookieExpiry(t *testing.T) {
	c := newCodec(t, "s1")
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	if err := c.WriteVerification(rec, "a@x.com"); err != nil {
		t.Fatalf("write: %v", err)
	}
	ck := rec.Result().Cookies()[0]
	if ck.MaxAge != int(verificationMaxAge.Seconds()) || !ck.Secure || !ck.HttpOnly {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VerificationCookie, Value: ck.Value})
	if _, err := c.Read(req, VerificationCookie); err != nil {
		t.Fatalf("fresh cookie: %v", err)
	}

	now = now.Add(verificationMaxAge + time.Minute)
	if _, err := c.Read(req, VerificationCookie); !errors.Is(err, ErrBadCookie) {
		t.Fatalf("expected expired cookie to fail, got %v", err)
	}
}

func TestCookieMissing(t *testing.T) {
	c := newCodec(t, "s1")
	_, err := c.Read(httptest.NewRequest(http.MethodGet, "/", nil), SessionCookie)
	if !errors.Is(err, http.ErrNoCookie) {
		t.Fatalf("expected ErrNoCookie, got %v", err)
	}
}

func TestNewCookieCodecRequiresSecret(t *testing.T) {
	if _, err := NewCookieCodec(nil, false); err == nil {
		t.Fatalf("expected error without secrets")
	}
}
