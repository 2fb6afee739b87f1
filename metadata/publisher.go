package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/blockward/blockward-backend/interfaces"
)

// DataURIPublisher inlines metadata into the token URI. Nothing leaves the process.
type DataURIPublisher struct{}

func (DataURIPublisher) Publish(ctx context.Context, m *interfaces.TokenMetadata) (string, error) {
	return EncodeDataURI(m)
}

func (DataURIPublisher) Name() string {
	return "data-uri"
}

// IPFSPublisher pins metadata through an IPFS HTTP API node.
type IPFSPublisher struct {
	shell   *shell.Shell
	apiURL  string
	gateway string
	log     *slog.Logger
}

// NewIPFSPublisher connects to the node at apiURL. When gateway is set, published
// URIs point at gateway/ipfs/<cid>; otherwise they use the ipfs:// scheme.
func NewIPFSPublisher(apiURL, gateway string, timeout time.Duration, log *slog.Logger) *IPFSPublisher {
	sh := shell.NewShell(apiURL)
	if timeout > 0 {
		sh.SetTimeout(timeout)
	}
	return &IPFSPublisher{
		shell:   sh,
		apiURL:  apiURL,
		gateway: strings.TrimRight(gateway, "/"),
		log:     log,
	}
}

func (p *IPFSPublisher) Publish(ctx context.Context, m *interfaces.TokenMetadata) (string, error) {
	start := time.Now()

	payload, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}

	cid, err := p.shell.Add(bytes.NewReader(payload), shell.Pin(true))
	if err != nil {
		p.log.Error("Failed to add metadata to IPFS",
			slog.String("api", p.apiURL),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return "", fmt.Errorf("failed to add metadata to IPFS: %w", err)
	}

	p.log.Debug("Pinned metadata in IPFS",
		slog.String("cid", cid),
		slog.Int("size", len(payload)),
		slog.Duration("duration", time.Since(start)))

	if p.gateway != "" {
		return p.gateway + "/ipfs/" + cid, nil
	}
	return "ipfs://" + cid, nil
}

func (p *IPFSPublisher) Name() string {
	return "ipfs-" + p.apiURL
}

// NewPublisher returns an IPFS publisher when apiURL is set and a data URI publisher otherwise.
func NewPublisher(apiURL, gateway string, log *slog.Logger) interfaces.MetadataPublisher {
	if apiURL == "" {
		return DataURIPublisher{}
	}
	return NewIPFSPublisher(apiURL, gateway, 30*time.Second, log)
}
