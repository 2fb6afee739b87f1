package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"

	"github.com/blockward/blockward-backend/api"
	"github.com/blockward/blockward-backend/api/auth"
	"github.com/blockward/blockward-backend/api/health"
	"github.com/blockward/blockward-backend/api/issuance"
	"github.com/blockward/blockward-backend/api/records"
	"github.com/blockward/blockward-backend/interfaces"
	"github.com/blockward/blockward-backend/metrics"
)

// Dependencies are the request handlers and the services the server checks.
type Dependencies struct {
	Health   *health.Handler
	Issuance *issuance.Handler
	Records  *records.Handler

	// Datastore is pinged by /readyz.
	Datastore interfaces.Datastore

	// JWTSecret verifies issuer tokens.
	JWTSecret []byte

	// Registry is served on the metrics address. Nil disables the metrics server.
	Registry *prometheus.Registry
}

type Server struct {
	cfg     *api.HTTPServerConfig
	deps    Dependencies
	isReady atomic.Bool
	log     *slog.Logger

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
}

func New(cfg *api.HTTPServerConfig, deps Dependencies) (*Server, error) {
	if deps.Health == nil || deps.Issuance == nil || deps.Records == nil {
		return nil, errors.New("httpserver: health, issuance and records handlers are required")
	}

	srv := &Server{
		cfg:  cfg,
		deps: deps,
		log:  cfg.Log,
	}
	if deps.Registry != nil && cfg.MetricsAddr != "" {
		srv.metricsSrv = metrics.NewMetricsServer(cfg.MetricsAddr, deps.Registry)
	}
	srv.isReady.Store(true)

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv, nil
}

// Router builds the server's routes. Each call creates fresh rate limiters.
func (srv *Server) Router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(srv.httpLogger)
	mux.Use(middleware.Recoverer)

	mux.Get("/livez", srv.handleLivenessCheck)
	mux.Get("/readyz", srv.handleReadinessCheck)
	mux.Get("/drain", srv.handleDrain)
	mux.Get("/undrain", srv.handleUndrain)

	mux.Group(func(r chi.Router) {
		r.Use(RequestSizeLimit(api.MaxBodySize))
		r.Use(RateLimit(srv.cfg.RateLimitRPS, srv.cfg.RateLimitBurst, srv.log))

		srv.deps.Health.RegisterRoutes(r)
		srv.deps.Records.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(srv.deps.JWTSecret, srv.log))
			srv.deps.Issuance.RegisterRoutes(r)
			srv.deps.Records.RegisterRoutes(r)
		})
	})

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Load() {
		api.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}

	if srv.deps.Datastore != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := srv.deps.Datastore.Ping(ctx); err != nil {
			srv.log.Warn("Datastore not reachable", "datastore", srv.deps.Datastore.Name(), "err", err)
			api.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "datastore unavailable"})
			return
		}
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (srv *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Swap(false) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "already draining"})
		return
	}

	srv.log.Info("Server marked as not ready", "drainDuration", srv.cfg.DrainDuration)
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "draining"})
}

func (srv *Server) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if srv.isReady.Swap(true) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "already ready"})
		return
	}

	srv.log.Info("Server marked as ready")
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// IsReady reports whether the server accepts traffic from load balancers.
func (srv *Server) IsReady() bool {
	return srv.isReady.Load()
}

func (srv *Server) RunInBackground() {
	if srv.metricsSrv != nil {
		go func() {
			srv.log.With("metricsAddress", srv.cfg.MetricsAddr).Info("Starting metrics server")
			err := srv.metricsSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				srv.log.Error("HTTP server failed", "err", err)
			}
		}()
	}

	go func() {
		srv.log.Info("Starting HTTP server", "listenAddress", srv.cfg.ListenAddr)
		if err := srv.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error("HTTP server failed", "err", err)
		}
	}()
}

// Shutdown marks the server not ready, waits DrainDuration for load balancers
// to notice, then stops both servers.
func (srv *Server) Shutdown() {
	if srv.isReady.Swap(false) && srv.cfg.DrainDuration > 0 {
		srv.log.Info("Draining before shutdown", "duration", srv.cfg.DrainDuration)
		time.Sleep(srv.cfg.DrainDuration)
	}

	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()
	if err := srv.srv.Shutdown(ctx); err != nil {
		srv.log.Error("Graceful HTTP server shutdown failed", "err", err)
	} else {
		srv.log.Info("HTTP server gracefully stopped")
	}

	if srv.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
		defer cancel()

		if err := srv.metricsSrv.Shutdown(ctx); err != nil {
			srv.log.Error("Graceful metrics server shutdown failed", "err", err)
		} else {
			srv.log.Info("Metrics server gracefully stopped")
		}
	}
}
