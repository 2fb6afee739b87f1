// Package issuance mints BlockWards and records them.
package issuance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-chi/chi/v5"

	"github.com/blockward/blockward-backend/api"
	"github.com/blockward/blockward-backend/api/auth"
	"github.com/blockward/blockward-backend/chain"
	"github.com/blockward/blockward-backend/config"
	"github.com/blockward/blockward-backend/idempotency"
	"github.com/blockward/blockward-backend/interfaces"
	"github.com/blockward/blockward-backend/keysource"
	"github.com/blockward/blockward-backend/metadata"
	"github.com/blockward/blockward-backend/metrics"
)

// IdempotencyKeyHeader carries a client-chosen key deduplicating retries.
const IdempotencyKeyHeader = "Idempotency-Key"

const failedToIssue = "Failed to issue BlockWard"

// DefaultPersistTimeout bounds token id resolution and the record write that
// follow a broadcast mint.
const DefaultPersistTimeout = 30 * time.Second

// RequestBudget is the longest an issuance request can take: one chain budget
// for dial, mint and confirmation, then the persistence budget.
func RequestBudget(chainTimeout time.Duration) time.Duration {
	return chainTimeout + DefaultPersistTimeout
}

// HandlerConfig holds the issuance dependencies.
type HandlerConfig struct {
	Chain     *config.ChainEnvironment
	Keys      interfaces.KeySource
	Chains    interfaces.ChainFactory
	Store     interfaces.Datastore
	Publisher interfaces.MetadataPublisher
	Guard     interfaces.IdempotencyGuard
	Metrics   *metrics.Metrics
	Log       *slog.Logger

	// PersistTimeout defaults to DefaultPersistTimeout.
	PersistTimeout time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler processes issuance requests.
type Handler struct {
	cfg HandlerConfig
	log *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Publisher == nil {
		cfg.Publisher = metadata.DataURIPublisher{}
	}
	if cfg.Guard == nil {
		cfg.Guard = idempotency.NopGuard{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = DefaultPersistTimeout
	}
	return &Handler{cfg: cfg, log: cfg.Log}
}

// RegisterRoutes mounts the issuance endpoint. The router is expected to run
// auth.Middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/blockwards/issue", h.HandleIssue)
}

// storedResponse is what the idempotency guard keeps per key.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// HandleIssue mints one BlockWard to one student and stores its record.
//
// URL format: POST /api/blockwards/issue
//
// Request body: JSON, see api.IssueRequest
//
// Response: JSON, see api.IssueResponse. Failures are api.ErrorResponse.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := api.ValidateIssueRequest(r.Body)
	if err != nil {
		h.fail(w, api.AsRequestError(err, failedToIssue))
		return
	}

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		h.fail(w, api.AuthError("Missing issuer identity"))
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	if key != "" {
		key = scopedKey(claims.Subject, key)
		stored, err := h.cfg.Guard.Begin(ctx, key)
		switch {
		case errors.Is(err, interfaces.ErrRequestInFlight):
			h.fail(w, api.ConflictError("A request with this Idempotency-Key is still in progress"))
			return
		case err != nil:
			h.log.Error("Idempotency guard unavailable", "err", err)
			h.fail(w, api.PersistenceError(failedToIssue, err))
			return
		case stored != nil:
			h.replay(w, stored)
			return
		}
	}

	resp, broadcast, err := h.issue(ctx, req, claims)

	var status int
	var body any
	if err != nil {
		reqErr := api.AsRequestError(err, failedToIssue)
		h.log.Error("BlockWard issuance failed",
			"studentId", req.StudentID,
			"kind", reqErr.Kind,
			"err", err)
		h.cfg.Metrics.ObserveIssuance(string(reqErr.Kind))
		status, body = reqErr.StatusCode, api.ErrorResponse{Error: reqErr.Message, Details: reqErr.Details()}
	} else {
		h.cfg.Metrics.ObserveIssuance("success")
		status, body = http.StatusOK, resp
	}

	if key != "" {
		h.settle(context.WithoutCancel(ctx), key, broadcast, status, body)
	}
	api.WriteJSON(w, status, body)
}

// scopedKey keeps one issuer's keys from matching another issuer's responses.
func scopedKey(issuerID, key string) string {
	return issuerID + ":" + key
}

// settle stores the outcome of any request that reached the chain so a retry
// cannot mint twice, and frees the key otherwise.
func (h *Handler) settle(ctx context.Context, key string, broadcast bool, status int, body any) {
	if !broadcast {
		if err := h.cfg.Guard.Release(ctx, key); err != nil {
			h.log.Warn("Failed to release idempotency key", "err", err)
		}
		return
	}

	payload, err := json.Marshal(body)
	if err == nil {
		payload, err = json.Marshal(storedResponse{Status: status, Body: payload})
	}
	if err == nil {
		err = h.cfg.Guard.Complete(ctx, key, payload)
	}
	if err != nil {
		h.log.Error("Failed to store idempotent response", "err", err)
	}
}

func (h *Handler) replay(w http.ResponseWriter, stored []byte) {
	var resp storedResponse
	if err := json.Unmarshal(stored, &resp); err != nil {
		h.log.Error("Corrupt idempotent response", "err", err)
		h.fail(w, api.PersistenceError(failedToIssue, err))
		return
	}
	h.cfg.Metrics.ObserveReplay()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func (h *Handler) fail(w http.ResponseWriter, err *api.RequestError) {
	h.cfg.Metrics.ObserveIssuance(string(err.Kind))
	api.WriteError(w, err)
}

// issue runs the issuance flow. broadcast reports whether a mint transaction
// was sent, after which the request must not be retried blindly.
func (h *Handler) issue(ctx context.Context, req api.ValidatedRequest, claims *auth.Claims) (resp *api.IssueResponse, broadcast bool, err error) {
	network := h.cfg.Chain.Active()

	if !h.cfg.Keys.Configured() {
		return nil, false, api.ConfigurationError("Platform private key is not configured")
	}
	if network.Contract == "" {
		return nil, false, api.ConfigurationError(fmt.Sprintf("BlockWard contract address is not configured for %s", network.Mode))
	}
	if !common.IsHexAddress(network.Contract) {
		return nil, false, api.ConfigurationError(fmt.Sprintf("BlockWard contract address for %s is invalid", network.Mode))
	}
	if network.RPCURL == "" {
		return nil, false, api.ConfigurationError(fmt.Sprintf("RPC URL is not configured for %s", network.Mode))
	}

	student, err := h.cfg.Store.StudentProfile(ctx, req.StudentID)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, false, api.NotFoundError("Student not found")
	}
	if err != nil {
		return nil, false, api.PersistenceError(failedToIssue, fmt.Errorf("loading student: %w", err))
	}
	if student.WalletAddress == "" {
		return nil, false, api.ValidationError("Student does not have a wallet address")
	}
	if !common.IsHexAddress(student.WalletAddress) {
		return nil, false, api.ValidationError("Student wallet address is invalid")
	}
	to := common.HexToAddress(student.WalletAddress)

	issuedAt := h.cfg.Now().UTC()
	uri, err := h.cfg.Publisher.Publish(ctx, metadata.Build(metadata.Award{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StudentName: student.FullName(),
		IssuedAt:    issuedAt,
	}))
	if err != nil {
		return nil, false, api.MetadataError(failedToIssue, err)
	}

	signer, err := h.cfg.Keys.PrivateKey(ctx)
	if errors.Is(err, keysource.ErrNoKey) || errors.Is(err, keysource.ErrInvalidKey) {
		return nil, false, api.ConfigurationError(err.Error())
	}
	if err != nil {
		return nil, false, api.ChainError(failedToIssue, fmt.Errorf("resolving signing key: %w", err))
	}

	// Dial, mint and confirmation share one deadline.
	deadline := time.Now().Add(h.cfg.Chain.ChainTimeout)
	chainCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	client, err := h.cfg.Chains.Dial(chainCtx, network.RPCURL)
	if err != nil {
		return nil, false, api.ChainError(failedToIssue, err)
	}
	defer client.Close()

	token, err := h.cfg.Chains.TokenFor(chainCtx, client, common.HexToAddress(network.Contract), signer)
	if err != nil {
		return nil, false, api.ChainError(failedToIssue, err)
	}

	tx, err := token.Mint(chainCtx, to, uri)
	if err != nil {
		return nil, false, api.ChainError(failedToIssue, fmt.Errorf("submitting mint: %w", err))
	}

	log := h.log.With("txHash", tx.Hash().Hex(), "studentId", student.ID, "network", network.Mode)
	log.Info("Mint transaction broadcast")

	// The transaction exists from here on; the caller going away must not
	// abort waiting for it or recording it.
	waitCtx, cancelWait := context.WithDeadline(context.WithoutCancel(ctx), deadline)
	defer cancelWait()

	record := &interfaces.BlockWardRecord{
		StudentID:     student.ID,
		StudentName:   student.FullName(),
		StudentWallet: to.Hex(),
		Category:      req.Category,
		Title:         req.Title,
		Description:   req.Description,
		MetadataURI:   uri,
		TxHash:        tx.Hash().Hex(),
		Network:       network.Label,
		IssuedAt:      issuedAt,
	}

	start := time.Now()
	receipt, err := token.WaitMined(waitCtx, tx)

	// The wait may have used up the chain budget; the record still gets written.
	persistCtx, cancelPersist := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.PersistTimeout)
	defer cancelPersist()
	h.fillIssuer(persistCtx, record, claims)

	if err != nil {
		h.recordFailure(persistCtx, log, record, receipt, err)
		return nil, true, api.ChainError(failedToIssue, fmt.Errorf("mint %s not confirmed: %w", record.TxHash, err))
	}
	h.cfg.Metrics.ObserveMint(time.Since(start))

	record.BlockNumber = receipt.BlockNumber.Uint64()
	record.Status = interfaces.RecordActive

	tokenID, tokenErr := h.resolveTokenID(persistCtx, log, token, receipt)
	if tokenErr != nil {
		log.Error("Mint confirmed but token id is unknown", "err", tokenErr)
	} else {
		record.TokenID = tokenID
	}

	if err := h.cfg.Store.CreateRecord(persistCtx, record); err != nil {
		log.Error("Mint confirmed but record was not saved",
			"tokenId", record.TokenID,
			"blockNumber", record.BlockNumber,
			"err", err)
		return nil, true, api.PersistenceError(failedToIssue,
			fmt.Errorf("mint %s confirmed as token %s but record was not saved: %w", record.TxHash, record.TokenID, err))
	}
	if tokenErr != nil {
		return nil, true, api.ChainError(failedToIssue,
			fmt.Errorf("mint %s confirmed but token id could not be determined: %w", record.TxHash, tokenErr))
	}

	log.Info("BlockWard issued", "tokenId", record.TokenID, "blockNumber", record.BlockNumber, "recordId", record.ID)

	return &api.IssueResponse{
		Success:     true,
		TxHash:      record.TxHash,
		TokenID:     record.TokenID,
		Network:     network.Label,
		ExplorerURL: network.ExplorerTxURL(record.TxHash),
		BlockNumber: record.BlockNumber,
	}, true, nil
}

// resolveTokenID reads the id from the Minted event, or from tokenCounter()
// in counter mode and when the receipt has no Minted log.
func (h *Handler) resolveTokenID(ctx context.Context, log *slog.Logger, token interfaces.AwardToken, receipt *types.Receipt) (string, error) {
	if h.cfg.Chain.TokenIDMode == config.TokenIDFromCounter {
		return counterTokenID(ctx, token)
	}

	ev, err := token.MintedFromReceipt(receipt)
	if errors.Is(err, chain.ErrNoMintedEvent) {
		log.Warn("Receipt has no Minted event, reading tokenCounter")
		return counterTokenID(ctx, token)
	}
	if err != nil {
		return "", err
	}
	return ev.TokenID.String(), nil
}

// counterTokenID uses the value of tokenCounter() read after confirmation as
// the token id. Mints confirmed between ours and this read shift the result,
// so concurrent requests can report the same id.
func counterTokenID(ctx context.Context, token interfaces.AwardToken) (string, error) {
	counter, err := token.TokenCounter(ctx)
	if err != nil {
		return "", fmt.Errorf("reading tokenCounter: %w", err)
	}
	return counter.String(), nil
}

// fillIssuer copies the issuer profile into record, falling back to the token claims.
func (h *Handler) fillIssuer(ctx context.Context, record *interfaces.BlockWardRecord, claims *auth.Claims) {
	record.IssuerID = claims.Subject
	record.IssuerName = claims.Name
	record.SchoolName = claims.School

	issuer, err := h.cfg.Store.IssuerProfile(ctx, claims.Subject)
	if err != nil {
		h.log.Warn("Issuer profile unavailable, using token claims", "issuerId", claims.Subject, "err", err)
		return
	}
	if issuer.FullName != "" {
		record.IssuerName = issuer.FullName
	}
	if issuer.SchoolName != "" {
		record.SchoolName = issuer.SchoolName
	}
}

func (h *Handler) recordFailure(ctx context.Context, log *slog.Logger, record *interfaces.BlockWardRecord, receipt *types.Receipt, cause error) {
	record.Status = interfaces.RecordFailed
	record.FailureReason = cause.Error()
	if receipt != nil && receipt.BlockNumber != nil {
		record.BlockNumber = receipt.BlockNumber.Uint64()
	}

	log.Error("Mint transaction failed", "err", cause)
	h.cfg.Metrics.ObserveFailedRecord()

	if err := h.cfg.Store.CreateRecord(ctx, record); err != nil {
		log.Error("Failed to record failed mint", "err", err)
	}
}
