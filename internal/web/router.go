// Package web assembles the HTML application: the shared middleware chain,
// every context's pages, health and metrics.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"hotelchain/internal/platform/metrics"
	"hotelchain/pkg/platform/httputil"
	authmw "hotelchain/pkg/platform/middleware/auth"
	"hotelchain/pkg/platform/middleware/device"
	"hotelchain/pkg/platform/middleware/metadata"
	request "hotelchain/pkg/platform/middleware/request"
	"hotelchain/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by every context's page handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one backing service.
type HealthCheck func(ctx context.Context) error

// RouterConfig carries what the shared middleware needs.
type RouterConfig struct {
	Logger         *slog.Logger
	Authenticator  authmw.Authenticator
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	Checks         map[string]HealthCheck
}

// NewRouter builds the application router. Every page runs behind request
// IDs, panic recovery, access logs, request time, client metadata, session
// loading and CSRF verification.
func NewRouter(cfg RouterConfig, handlers ...Registrar) chi.Router {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.Logger(cfg.Logger))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Middleware)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.LatencyMiddleware)
	}
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", healthHandler(cfg.Checks))
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.LoadSession(cfg.Authenticator, cfg.Logger))
		r.Use(authmw.VerifyCSRF(cfg.Logger))
		for _, h := range handlers {
			h.Register(r)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
