package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestNewLoggerAddsServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{ServiceName: "wicki", Environment: "test", Level: "debug", Output: &buf})
	l.Debug("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if rec["service"] != "wicki" || rec["env"] != "test" || rec["k"] != "v" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "warn", Output: &buf})
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Config{Output: &buf})
	ctx := context.WithValue(context.Background(), ctxKey{}, base)
	ctx = WithAttrs(ctx, "request_id", "abc")
	FromContext(ctx).Info("x")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if rec["request_id"] != "abc" {
		t.Fatalf("expected request_id attr, got %v", rec)
	}
}
