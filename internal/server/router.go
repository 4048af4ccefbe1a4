// Package server assembles the HTTP router for the tabsplit API.
package server

import (
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/tabsplit/internal/middleware"
	"github.com/mmynk/tabsplit/internal/service"
)

// Options configures the router.
type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string

	// Registry serves /metrics and receives the RPC metrics.
	// A nil registry disables both.
	Registry *prometheus.Registry

	// Metrics is the collector set registered on Registry.
	Metrics *middleware.Metrics
}

// New returns the HTTP handler exposing the BillService over Connect,
// plus /healthz and /metrics.
func New(svc *service.BillService, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	interceptors := []connect.Interceptor{middleware.LoggingInterceptor()}
	if opts.Metrics != nil {
		interceptors = append(interceptors, opts.Metrics.Interceptor())
	}
	path, handler := service.NewBillServiceHandler(svc, connect.WithInterceptors(interceptors...))
	router.Mount(path, handler)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	return router
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms", "Authorization"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}
}
