package impl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wicki/internal/service"
)

func TestEmailSendPostsToResend(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	s := NewEmailServiceImpl("re_test", "hello@wicki.dev", false)
	s.Endpoint = srv.URL

	err := s.Send(context.Background(), service.OnboardingEmail("a@x.com", "123456", "https://wicki.dev/verify?code=123456"))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Bearer re_test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if len(got.To) != 1 || got.To[0] != "a@x.com" || got.From != "hello@wicki.dev" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if !strings.Contains(got.Text, "123456") {
		t.Fatalf("code missing from body: %q", got.Text)
	}
}

func TestEmailSendReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewEmailServiceImpl("re_bad", "hello@wicki.dev", false)
	s.Endpoint = srv.URL
	err := s.Send(context.Background(), service.Email{To: "a@x.com", Subject: "x"})
	if !errors.Is(err, ErrEmailNotSent) {
		t.Fatalf("expected ErrEmailNotSent, got %v", err)
	}
}

func TestEmailInDevelopmentOnlyLogs(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := NewEmailServiceImpl("re_test", "hello@wicki.dev", true)
	s.Endpoint = srv.URL
	if err := s.Send(context.Background(), service.Email{To: "a@x.com"}); err != nil {
		t.Fatalf("expected nil error in development, got %v", err)
	}
	if called {
		t.Fatalf("development must not call the mail API")
	}
}

func TestEmailWithoutKeyOutsideDevelopmentFails(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	s := NewEmailServiceImpl("", "hello@wicki.dev", false)
	err := s.Send(context.Background(), service.OnboardingEmail("a@x.com", "654321", "https://wicki.dev/verify?code=654321"))
	if !errors.Is(err, ErrEmailNotSent) {
		t.Fatalf("expected ErrEmailNotSent, got %v", err)
	}
	if strings.Contains(buf.String(), "654321") {
		t.Fatalf("code leaked into logs: %s", buf.String())
	}
}
