package api

import (
	"log/slog"
	"time"
)

// HTTPServerConfig configures the BlockWard API server.
type HTTPServerConfig struct {
	ListenAddr string

	// MetricsAddr serves /metrics on a separate listener. Empty disables it.
	MetricsAddr string

	// EnablePprof mounts net/http/pprof under /debug.
	EnablePprof bool

	Log *slog.Logger

	// DrainDuration is how long /readyz reports 503 before shutdown starts.
	DrainDuration time.Duration

	// GracefulShutdownDuration caps the wait for in-flight issuance requests.
	GracefulShutdownDuration time.Duration

	ReadTimeout time.Duration

	// WriteTimeout must exceed CHAIN_TIMEOUT, otherwise an issuance response
	// is cut off while the mint is still being confirmed.
	WriteTimeout time.Duration

	// RateLimitRPS and RateLimitBurst bound requests on the /api routes.
	// Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// writeMargin leaves room for encoding the response after the handler is done.
const writeMargin = 30 * time.Second

// CoverRequestBudget raises WriteTimeout so a request running for budget can
// still be answered.
func (c *HTTPServerConfig) CoverRequestBudget(budget time.Duration) {
	if floor := budget + writeMargin; c.WriteTimeout < floor {
		c.WriteTimeout = floor
	}
}
