// Package records serves stored BlockWard records.
package records

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/blockward/blockward-backend/api"
	"github.com/blockward/blockward-backend/config"
	"github.com/blockward/blockward-backend/interfaces"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// Handler reads records from the datastore.
type Handler struct {
	store interfaces.Datastore
	log   *slog.Logger
}

func NewHandler(store interfaces.Datastore, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// RegisterRoutes mounts the authenticated record endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/students/{studentId}/blockwards", h.HandleStudentRecords)
	r.Get("/api/blockwards/{id}", h.HandleRecord)
}

// RegisterPublicRoutes mounts endpoints that need no issuer token.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/api/blockwards/{id}/qrcode", h.HandleQRCode)
}

// HandleStudentRecords lists a student's records, newest first.
//
// URL format: GET /api/students/{studentId}/blockwards
func (h *Handler) HandleStudentRecords(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")

	list, err := h.store.RecordsForStudent(r.Context(), studentID)
	if err != nil {
		h.log.Error("Failed to list records", "studentId", studentID, "err", err)
		api.WriteError(w, api.PersistenceError("Failed to list BlockWards", err))
		return
	}
	if list == nil {
		list = []interfaces.BlockWardRecord{}
	}

	api.WriteJSON(w, http.StatusOK, api.RecordsResponse{StudentID: studentID, Records: list})
}

// HandleRecord returns one record.
//
// URL format: GET /api/blockwards/{id}
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	record, reqErr := h.record(r)
	if reqErr != nil {
		api.WriteError(w, reqErr)
		return
	}
	api.WriteJSON(w, http.StatusOK, record)
}

// HandleQRCode renders a PNG QR code linking the record's transaction on the
// block explorer. The optional size query parameter sets the edge in pixels.
//
// URL format: GET /api/blockwards/{id}/qrcode?size=256
func (h *Handler) HandleQRCode(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < minQRSize || n > maxQRSize {
			api.WriteError(w, api.ValidationError("size must be an integer between 64 and 1024"))
			return
		}
		size = n
	}

	record, reqErr := h.record(r)
	if reqErr != nil {
		api.WriteError(w, reqErr)
		return
	}
	if record.TxHash == "" {
		api.WriteError(w, api.NotFoundError("BlockWard has no transaction"))
		return
	}

	png, err := qrcode.Encode(config.ExplorerTxURLFor(record.Network, record.TxHash), qrcode.Medium, size)
	if err != nil {
		h.log.Error("Failed to render QR code", "id", record.ID, "err", err)
		api.WriteError(w, api.ChainError("Failed to render QR code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) record(r *http.Request) (*interfaces.BlockWardRecord, *api.RequestError) {
	id := chi.URLParam(r, "id")

	record, err := h.store.Record(r.Context(), id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, api.NotFoundError("BlockWard not found")
	}
	if err != nil {
		h.log.Error("Failed to load record", "id", id, "err", err)
		return nil, api.PersistenceError("Failed to load BlockWard", err)
	}
	return record, nil
}
