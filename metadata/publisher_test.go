package metadata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIPFSNode(t *testing.T, status int) (*httptest.Server, chan []byte) {
	uploaded := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The client checks the node version before adding files.
		if r.URL.Path == "/api/v0/version" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Version":"0.29.0","Commit":"","Repo":"15","System":"amd64/linux","Golang":"go1.22.5"}`))
			return
		}
		if r.URL.Path != "/api/v0/add" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "true", r.URL.Query().Get("pin"))

		reader, err := r.MultipartReader()
		require.NoError(t, err)
		part, err := reader.NextPart()
		require.NoError(t, err)
		body, _ := io.ReadAll(part)
		uploaded <- body

		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"Message":"pinning failed","Code":0,"Type":"error"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Name":"","Hash":"QmTestCid","Size":"42"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, uploaded
}

func TestIPFSPublisher_Publish(t *testing.T) {
	srv, uploaded := newIPFSNode(t, http.StatusOK)

	p := NewIPFSPublisher(srv.URL, "", 5*time.Second, slog.Default())
	uri, err := p.Publish(context.Background(), Build(Award{Title: "Chess Champion", Category: "sports"}))
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmTestCid", uri)
	assert.Contains(t, string(<-uploaded), `"name":"Chess Champion"`)
}

func TestIPFSPublisher_Gateway(t *testing.T) {
	srv, _ := newIPFSNode(t, http.StatusOK)

	p := NewIPFSPublisher(srv.URL, "https://gateway.example/", 5*time.Second, slog.Default())
	uri, err := p.Publish(context.Background(), Build(Award{Title: "t", Category: "c"}))
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/ipfs/QmTestCid", uri)
}

func TestIPFSPublisher_NodeError(t *testing.T) {
	srv, _ := newIPFSNode(t, http.StatusInternalServerError)

	p := NewIPFSPublisher(srv.URL, "", 5*time.Second, slog.Default())
	_, err := p.Publish(context.Background(), Build(Award{Title: "t", Category: "c"}))
	assert.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, DataURIPublisher{}, NewPublisher("", "", slog.Default()))
	assert.IsType(t, &IPFSPublisher{}, NewPublisher("http://127.0.0.1:5001", "", slog.Default()))
}
