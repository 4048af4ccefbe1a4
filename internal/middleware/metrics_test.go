package middleware

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsInterceptor(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	intercept := m.Interceptor()

	ok := intercept(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&struct{}{}), nil
	})
	failing := intercept(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("bill not found"))
	})
	plain := intercept(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, errors.New("boom")
	})

	req := connect.NewRequest(&struct{}{})
	for i := 0; i < 2; i++ {
		if _, err := ok(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := failing(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}
	if _, err := plain(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}

	procedure := req.Spec().Procedure
	if got := testutil.ToFloat64(m.requests.WithLabelValues(procedure, "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(procedure, "not_found")); got != 1 {
		t.Errorf("not_found count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(procedure, "unknown")); got != 1 {
		t.Errorf("unknown count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Errorf("expected one latency series, got %d", got)
	}
}

func TestMetricsUnknownCurrency(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.UnknownCurrency("XYZ")
	m.UnknownCurrency("XYZ")
	m.UnknownCurrency("ABC")

	if got := testutil.ToFloat64(m.unknownCurrency.WithLabelValues("XYZ")); got != 2 {
		t.Errorf("XYZ count = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.unknownCurrency); got != 2 {
		t.Errorf("expected 2 series, got %d", got)
	}
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewMetrics(reg)
}
