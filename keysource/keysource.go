// Package keysource resolves the platform signing key from the environment or Vault.
package keysource

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hashicorp/vault/api"

	"github.com/blockward/blockward-backend/config"
	"github.com/blockward/blockward-backend/interfaces"
)

var (
	// ErrNoKey is returned when no signing key is configured.
	ErrNoKey = errors.New("platform signing key is not configured")

	// ErrInvalidKey is returned when the configured key is not a secp256k1 private key.
	ErrInvalidKey = errors.New("invalid platform signing key")
)

// ParseKey parses a hex private key with or without a 0x prefix.
func ParseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, ErrNoKey
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return key, nil
}

// Static serves a key given as configuration.
type Static struct {
	hexKey string
}

func NewStatic(hexKey string) *Static {
	return &Static{hexKey: hexKey}
}

func (s *Static) Configured() bool {
	return strings.TrimSpace(s.hexKey) != ""
}

func (s *Static) PrivateKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	return ParseKey(s.hexKey)
}

func (s *Static) Name() string {
	return "env"
}

// Vault reads the key from a KV v2 secret.
type Vault struct {
	client *api.Client
	kv     *api.KVv2
	path   string
	field  string
	log    *slog.Logger
}

// NewVault creates a Vault key source.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - token: Vault token with read access to the secret
//   - mountPath: KV v2 mount (e.g. "secret")
//   - path: secret path within the mount (e.g. "blockward/platform")
//   - field: key of the secret holding the hex private key
func NewVault(address, token, mountPath, path, field string, log *slog.Logger) (*Vault, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address
	cfg.HttpClient = &http.Client{Timeout: 30 * time.Second}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	path = strings.Trim(path, "/")

	return &Vault{
		client: client,
		kv:     client.KVv2(mountPath),
		path:   path,
		field:  field,
		log:    log,
	}, nil
}

func (v *Vault) Configured() bool {
	return v.path != ""
}

func (v *Vault) PrivateKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	secret, err := v.kv.Get(ctx, v.path)
	if err != nil {
		v.log.Error("Failed to read signing key from Vault",
			slog.String("path", v.path),
			"err", err)
		if errors.Is(err, api.ErrSecretNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoKey, err)
		}
		return nil, fmt.Errorf("reading Vault secret: %w", err)
	}

	raw, ok := secret.Data[v.field]
	if !ok {
		return nil, fmt.Errorf("%w: field %q missing in Vault secret", ErrNoKey, v.field)
	}
	hexKey, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not a string", ErrInvalidKey, v.field)
	}
	return ParseKey(hexKey)
}

func (v *Vault) Name() string {
	return "vault-" + v.path
}

// FromConfig prefers PLATFORM_PRIVATE_KEY and falls back to Vault when a key path is set.
func FromConfig(cfg *config.ChainEnvironment, log *slog.Logger) (interfaces.KeySource, error) {
	if cfg.PlatformPrivateKey != "" || cfg.VaultKeyPath == "" {
		return NewStatic(cfg.PlatformPrivateKey), nil
	}
	return NewVault(cfg.VaultAddr, cfg.VaultToken, cfg.VaultKVMount, cfg.VaultKeyPath, cfg.VaultKeyField, log)
}
