// Package health implements the chain health check.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/blockward/blockward-backend/api"
	"github.com/blockward/blockward-backend/chain"
	"github.com/blockward/blockward-backend/config"
	"github.com/blockward/blockward-backend/interfaces"
	"github.com/blockward/blockward-backend/metrics"
)

// Handler verifies the RPC endpoint is reachable and reports the platform
// signer's address and balance.
type Handler struct {
	cfg     *config.ChainEnvironment
	keys    interfaces.KeySource
	chains  interfaces.ChainFactory
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewHandler(cfg *config.ChainEnvironment, keys interfaces.KeySource, chains interfaces.ChainFactory, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		keys:    keys,
		chains:  chains,
		metrics: m,
		log:     log,
	}
}

// RegisterRoutes mounts the check for every method.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/api/health/chain", h.HandleChainHealth)
}

// HandleChainHealth checks the active network.
//
// URL format: ANY /api/health/chain
//
// Response: JSON, see api.HealthResponse. Missing settings are reported as
// api.HealthConfigResponse without any network call.
func (h *Handler) HandleChainHealth(w http.ResponseWriter, r *http.Request) {
	network := h.cfg.Active()
	hasRPC := network.RPCURL != ""
	hasKey := h.keys.Configured()

	if !hasRPC || !hasKey {
		h.log.Error("Chain health check is missing configuration",
			"network", network.Mode, "hasRPC", hasRPC, "hasKey", hasKey)
		h.metrics.ObserveHealthCheck("misconfigured")
		api.WriteJSON(w, http.StatusInternalServerError, api.HealthConfigResponse{
			Error:  "Missing RPC URL or platform private key",
			HasRPC: hasRPC,
			HasKey: hasKey,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.ChainTimeout)
	defer cancel()

	resp, err := h.check(ctx, network)
	if err != nil {
		h.log.Error("Chain health check failed", "network", network.Mode, "err", err)
		h.metrics.ObserveHealthCheck("error")
		api.WriteError(w, api.ChainError("Chain health check failed", err))
		return
	}

	h.metrics.ObserveHealthCheck("ok")
	api.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) check(ctx context.Context, network config.Network) (*api.HealthResponse, error) {
	key, err := h.keys.PrivateKey(ctx)
	if err != nil {
		return nil, err
	}
	address := crypto.PubkeyToAddress(key.PublicKey)

	client, err := h.chains.Dial(ctx, network.RPCURL)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var chainID, balance *big.Int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := client.ChainID(gctx)
		if err != nil {
			return fmt.Errorf("fetching chain id: %w", err)
		}
		chainID = id
		return nil
	})
	g.Go(func() error {
		bal, err := client.BalanceAt(gctx, address, nil)
		if err != nil {
			return fmt.Errorf("fetching balance of %s: %w", address.Hex(), err)
		}
		balance = bal
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &api.HealthResponse{
		Success: true,
		Address: address.Hex(),
		Balance: chain.FormatEther(balance),
		ChainID: chainID.Uint64(),
		Network: chain.NetworkLabel(chainID),
		RPCURL:  api.RedactURL(network.RPCURL),
	}, nil
}
