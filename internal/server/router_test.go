package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/middleware"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/service"
	"github.com/mmynk/tabsplit/internal/storage/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg)
	conv := currency.NewConverter(nil, currency.WithUnknownHook(metrics.UnknownCurrency))
	svc := service.NewBillService(store, service.WithCalculator(calculator.New(conv)))

	srv := httptest.NewServer(New(svc, Options{
		AllowedOrigins: []string{"https://app.example"},
		Registry:       reg,
		Metrics:        metrics,
	}))
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv, reg
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestRPCMetrics(t *testing.T) {
	srv, reg := newTestServer(t)
	client := service.NewBillServiceClient(http.DefaultClient, srv.URL)
	ctx := context.Background()

	bill := models.Bill{
		BaseCurrency: "USD",
		People:       []models.Person{{ID: "a", Name: "A"}},
		Items:        []models.Item{{Name: "Mystery", Price: 5, Currency: "XYZ", AssignedTo: []string{"a"}}},
	}
	_, err := client.Summarize(ctx, connect.NewRequest(&service.SummarizeRequest{Bill: bill}))
	require.NoError(t, err)

	_, err = client.GetBill(ctx, connect.NewRequest(&service.GetBillRequest{BillID: "missing"}))
	require.Error(t, err)

	assert.Equal(t, 1.0, counterValue(t, reg, "tabsplit_rpc_requests_total",
		map[string]string{"procedure": service.SummarizeProcedure, "code": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "tabsplit_rpc_requests_total",
		map[string]string{"procedure": service.GetBillProcedure, "code": "not_found"}))
	assert.Greater(t, counterValue(t, reg, "tabsplit_unknown_currency_conversions_total",
		map[string]string{"code": "XYZ"}), 0.0)
	series, err := testutil.GatherAndCount(reg, "tabsplit_unknown_currency_conversions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "tabsplit_rpc_duration_seconds")
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+service.SummarizeProcedure, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost))
}

// counterValue reads one labelled counter from reg.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metrics:
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if labels[l.GetName()] != l.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}
