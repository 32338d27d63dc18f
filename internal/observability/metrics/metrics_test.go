package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegisterWith(reg, "wicki-test")
	t.Cleanup(func() { curry(DefaultService) })

	AuthLoginsTotal.WithLabelValues("success").Inc()
	AuthLoginsTotal.WithLabelValues("success").Inc()

	got := testutil.ToFloat64(logins.WithLabelValues("wicki-test", "success"))
	if got != 2 {
		t.Fatalf("expected 2 logins, got %v", got)
	}
}

func TestResult(t *testing.T) {
	if Result(nil) != "success" || Result(errors.New("x")) != "error" {
		t.Fatalf("unexpected result labels")
	}
}
