package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// Pinger reports whether a dependency is reachable (satisfied by *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Routes mounts a group of endpoints on the mux.
type Routes interface {
	Register(mux *http.ServeMux)
}

// NewHTTPServer wires the API routes plus health and metrics endpoints.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, db Pinger, routes ...Routes) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, logger, db, routes...),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler builds the full middleware chain around the route mux.
func NewHandler(cfg *config.App, logger zerolog.Logger, db Pinger, routes ...Routes) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Error().Err(err).Msg("database ping failed")
			httperrors.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"status":"ready"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	for _, r := range routes {
		r.Register(mux)
	}

	var h http.Handler = jsonFallback(mux)
	h = corsMiddleware(cfg.CORS)(h)
	h = instrument(logger)(h)
	return h
}
