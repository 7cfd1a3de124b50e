// Package api exposes pool management over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"poolRegistry/internal/model"
	"poolRegistry/internal/pool"
)

// PoolService is the set of pool operations the HTTP layer drives.
type PoolService interface {
	Create(ctx context.Context, in *model.PoolInput) (*model.Pool, error)
	Get(ctx context.Context, id string) (*model.Pool, error)
	List(ctx context.Context, q pool.ListQuery) (pool.Page, error)
	Update(ctx context.Context, in *model.PoolInput) (*model.Pool, error)
	Delete(ctx context.Context, id string) (*model.Pool, error)
}

// Options configures NewRouter. Metrics and Observer are optional.
type Options struct {
	Service  PoolService
	Logger   *zap.Logger
	Metrics  http.Handler
	Observer RequestObserver
}

// NewRouter builds the HTTP routes.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{svc: opts.Service, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger, opts.Observer))
	r.Use(recoverer(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Get("/pool", h.getPool)
	r.Get("/pools", h.getPools)
	r.Post("/pool", h.addPool)
	r.Put("/pool", h.updatePool)
	r.Delete("/pool", h.deletePool)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorEnvelope{Status: statusError, Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorEnvelope{Status: statusError, Error: "method not allowed"})
	})
	return r
}
