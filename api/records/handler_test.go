package records

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockward/blockward-backend/api"
	"github.com/blockward/blockward-backend/interfaces"
	"github.com/blockward/blockward-backend/store"
)

func newTestHandler(t *testing.T) (*Handler, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	return NewHandler(mem, slog.New(slog.NewTextHandler(io.Discard, nil))), mem
}

func get(h *Handler, path string) *httptest.ResponseRecorder {
	mux := chi.NewRouter()
	h.RegisterRoutes(mux)
	h.RegisterPublicRoutes(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func addRecord(t *testing.T, mem *store.MemoryStore, id, studentID, txHash string, issuedAt time.Time) {
	t.Helper()
	require.NoError(t, mem.CreateRecord(context.Background(), &interfaces.BlockWardRecord{
		ID:        id,
		StudentID: studentID,
		Title:     "Award " + id,
		Category:  "academic",
		TokenID:   "1",
		TxHash:    txHash,
		Network:   "polygon-amoy",
		IssuedAt:  issuedAt,
		Status:    interfaces.RecordActive,
	}))
}

func TestStudentRecords(t *testing.T) {
	h, mem := newTestHandler(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	addRecord(t, mem, "a", "student-1", "0x01", base)
	addRecord(t, mem, "b", "student-1", "0x02", base.Add(time.Hour))
	addRecord(t, mem, "c", "student-2", "0x03", base)

	w := get(h, "/api/students/student-1/blockwards")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.RecordsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "student-1", resp.StudentID)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "b", resp.Records[0].ID)
	assert.Equal(t, "a", resp.Records[1].ID)
}

func TestStudentRecords_Empty(t *testing.T) {
	h, _ := newTestHandler(t)

	w := get(h, "/api/students/nobody/blockwards")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"studentId":"nobody","records":[]}`, w.Body.String())
}

func TestRecord(t *testing.T) {
	h, mem := newTestHandler(t)
	addRecord(t, mem, "a", "student-1", "0x01", time.Now())

	w := get(h, "/api/blockwards/a")
	require.Equal(t, http.StatusOK, w.Code)

	var rec interfaces.BlockWardRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
	assert.Equal(t, "0x01", rec.TxHash)
	assert.Equal(t, "Award a", rec.Title)

	w = get(h, "/api/blockwards/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQRCode(t *testing.T) {
	h, mem := newTestHandler(t)
	addRecord(t, mem, "a", "student-1", "0x01", time.Now())

	w := get(h, "/api/blockwards/a/qrcode?size=128")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	cfg, err := png.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestQRCode_Errors(t *testing.T) {
	h, mem := newTestHandler(t)
	addRecord(t, mem, "a", "student-1", "0x01", time.Now())

	tests := []struct {
		path string
		want int
	}{
		{"/api/blockwards/missing/qrcode", http.StatusNotFound},
		{"/api/blockwards/a/qrcode?size=abc", http.StatusBadRequest},
		{"/api/blockwards/a/qrcode?size=10", http.StatusBadRequest},
		{"/api/blockwards/a/qrcode?size=5000", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, get(h, tt.path).Code)
		})
	}
}
