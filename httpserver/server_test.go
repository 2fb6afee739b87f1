package httpserver

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockward/blockward-backend/api"
	"github.com/blockward/blockward-backend/api/auth"
	"github.com/blockward/blockward-backend/api/health"
	"github.com/blockward/blockward-backend/api/issuance"
	"github.com/blockward/blockward-backend/api/records"
	"github.com/blockward/blockward-backend/chain/chaintest"
	"github.com/blockward/blockward-backend/config"
	"github.com/blockward/blockward-backend/interfaces"
	"github.com/blockward/blockward-backend/keysource"
	"github.com/blockward/blockward-backend/metrics"
	"github.com/blockward/blockward-backend/store"
)

var jwtSecret = []byte("test-secret")

type unreachableStore struct {
	*store.MemoryStore
}

func (unreachableStore) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func newTestServer(t *testing.T, cfg *api.HTTPServerConfig, ds interfaces.Datastore) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	keys := keysource.NewStatic(hex.EncodeToString(crypto.FromECDSA(key)))

	contract := common.HexToAddress("0x00000000000000000000000000000000000b1ad0")
	chainCfg := &config.ChainEnvironment{
		Network:      config.NetworkAmoy,
		AmoyRPCURL:   "http://amoy.invalid",
		AmoyContract: contract.Hex(),
		TokenIDMode:  config.TokenIDFromEvent,
		ChainTimeout: 5 * time.Second,
	}
	factory := &chaintest.StaticFactory{Token: &chaintest.FakeToken{Contract: contract}}
	reg := metrics.NewRegistry()
	m := metrics.NewMetrics("blockward", reg)

	if cfg.Log == nil {
		cfg.Log = logger
	}
	srv, err := New(cfg, Dependencies{
		Health: health.NewHandler(&config.ChainEnvironment{Network: config.NetworkAmoy, ChainTimeout: time.Second}, keysource.NewStatic(""), factory, m, logger),
		Issuance: issuance.NewHandler(issuance.HandlerConfig{
			Chain:   chainCfg,
			Keys:    keys,
			Chains:  factory,
			Store:   ds,
			Metrics: m,
			Log:     logger,
		}),
		Records:   records.NewHandler(ds, logger),
		Datastore: ds,
		JWTSecret: jwtSecret,
		Registry:  reg,
	})
	require.NoError(t, err)
	return srv
}

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.PutStudent(context.Background(), &interfaces.StudentProfile{
		ID:            "student-1",
		WalletAddress: "0x1111111111111111111111111111111111111111",
		FirstName:     "Ada",
		LastName:      "Lovelace",
	}))
	return mem
}

func do(srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(w, req)
	return w
}

func issuerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.NewToken(jwtSecret, "issuer-1", "Grace Hopper", "Springfield High", "teacher", time.Hour)
	require.NoError(t, err)
	return token
}

func TestNew_RequiresHandlers(t *testing.T) {
	_, err := New(&api.HTTPServerConfig{}, Dependencies{})
	assert.Error(t, err)
}

func TestLifecycleEndpoints(t *testing.T) {
	srv := newTestServer(t, &api.HTTPServerConfig{}, store.NewMemoryStore())

	w := do(srv, http.MethodGet, "/livez", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/readyz", "", "").Code)

	w = do(srv, http.MethodGet, "/drain", "", "")
	assert.JSONEq(t, `{"status":"draining"}`, w.Body.String())
	assert.False(t, srv.IsReady())
	assert.Equal(t, http.StatusServiceUnavailable, do(srv, http.MethodGet, "/readyz", "", "").Code)

	w = do(srv, http.MethodGet, "/drain", "", "")
	assert.JSONEq(t, `{"status":"already draining"}`, w.Body.String())

	w = do(srv, http.MethodGet, "/undrain", "", "")
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	assert.True(t, srv.IsReady())
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/readyz", "", "").Code)
}

func TestReadiness_DatastoreDown(t *testing.T) {
	srv := newTestServer(t, &api.HTTPServerConfig{}, unreachableStore{store.NewMemoryStore()})

	w := do(srv, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "datastore unavailable")
}

func TestHealthRouteIsPublic(t *testing.T) {
	srv := newTestServer(t, &api.HTTPServerConfig{}, store.NewMemoryStore())

	w := do(srv, http.MethodGet, "/api/health/chain", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"has_rpc":false`)
}

func TestIssueRequiresToken(t *testing.T) {
	srv := newTestServer(t, &api.HTTPServerConfig{}, seededStore(t))
	body := `{"studentId":"student-1","title":"Science Fair Winner","category":"academic"}`

	w := do(srv, http.MethodPost, "/api/blockwards/issue", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(srv, http.MethodPost, "/api/blockwards/issue", body, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(srv, http.MethodPost, "/api/blockwards/issue", body, issuerToken(t))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestRecordRoutes(t *testing.T) {
	mem := seededStore(t)
	require.NoError(t, mem.CreateRecord(context.Background(), &interfaces.BlockWardRecord{
		ID:        "rec-1",
		StudentID: "student-1",
		TxHash:    "0xabc",
		Network:   "polygon-amoy",
		Status:    interfaces.RecordActive,
	}))
	srv := newTestServer(t, &api.HTTPServerConfig{}, mem)

	assert.Equal(t, http.StatusUnauthorized, do(srv, http.MethodGet, "/api/blockwards/rec-1", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(srv, http.MethodGet, "/api/students/student-1/blockwards", "", "").Code)

	token := issuerToken(t)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/api/blockwards/rec-1", "", token).Code)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/api/students/student-1/blockwards", "", token).Code)

	w := do(srv, http.MethodGet, "/api/blockwards/rec-1/qrcode", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, &api.HTTPServerConfig{RateLimitRPS: 0.001, RateLimitBurst: 1}, store.NewMemoryStore())

	assert.Equal(t, http.StatusInternalServerError, do(srv, http.MethodGet, "/api/health/chain", "", "").Code)
	w := do(srv, http.MethodGet, "/api/health/chain", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Lifecycle routes are not limited.
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/livez", "", "").Code)
}

func TestRequestSizeLimit(t *testing.T) {
	srv := newTestServer(t, &api.HTTPServerConfig{}, seededStore(t))

	body := `{"studentId":"student-1","title":"` + strings.Repeat("x", api.MaxBodySize) + `","category":"c"}`
	w := do(srv, http.MethodPost, "/api/blockwards/issue", body, issuerToken(t))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
