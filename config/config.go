// Package config loads the chain and integration settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
)

// Token id modes.
const (
	// TokenIDFromEvent reads the id from the Minted event of the mint receipt.
	TokenIDFromEvent = "event"

	// TokenIDFromCounter reads tokenCounter() after confirmation. Concurrent
	// mints can observe the same counter value.
	TokenIDFromCounter = "counter"
)

const (
	NetworkMainnet = "mainnet"
	NetworkAmoy    = "amoy"
)

// ChainEnvironment holds the settings handlers need per request. Missing chain
// values are not an error at load time; handlers report them.
type ChainEnvironment struct {
	Network            string        `env:"NETWORK,default=amoy"`
	AmoyRPCURL         string        `env:"POLYGON_AMOY_RPC_URL"`
	MainnetRPCURL      string        `env:"POLYGON_MAINNET_RPC_URL"`
	PlatformPrivateKey string        `env:"PLATFORM_PRIVATE_KEY"`
	AmoyContract       string        `env:"BLOCKWARD_CONTRACT_AMOY"`
	MainnetContract    string        `env:"BLOCKWARD_CONTRACT_MAINNET"`
	TokenIDMode        string        `env:"TOKEN_ID_MODE,default=event"`
	ChainTimeout       time.Duration `env:"CHAIN_TIMEOUT,default=2m"`

	// Custodial key in Vault KV v2, used when PLATFORM_PRIVATE_KEY is empty.
	VaultAddr     string `env:"VAULT_ADDR"`
	VaultToken    string `env:"VAULT_TOKEN"`
	VaultKVMount  string `env:"VAULT_KV_MOUNT,default=secret"`
	VaultKeyPath  string `env:"VAULT_KEY_PATH"`
	VaultKeyField string `env:"VAULT_KEY_FIELD,default=private_key"`

	IPFSAPIURL     string `env:"IPFS_API_URL"`
	IPFSGatewayURL string `env:"IPFS_GATEWAY_URL"`

	RedisURL       string        `env:"REDIS_URL"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,default=24h"`

	JWTSecret string `env:"JWT_SECRET"`
}

// Network is the resolved configuration of the active network.
type Network struct {
	Mode            string
	Label           string
	RPCURL          string
	Contract        string
	ExplorerBaseURL string
}

// ExplorerTxURL links a transaction on the network's block explorer.
func (n Network) ExplorerTxURL(txHash string) string {
	return n.ExplorerBaseURL + "/tx/" + txHash
}

const (
	LabelAmoy    = "polygon-amoy"
	LabelMainnet = "polygon-mainnet"

	explorerAmoy    = "https://amoy.polygonscan.com"
	explorerMainnet = "https://polygonscan.com"
)

// ExplorerTxURLFor links a transaction of a stored record by its network label.
func ExplorerTxURLFor(label, txHash string) string {
	if label == LabelMainnet {
		return explorerMainnet + "/tx/" + txHash
	}
	return explorerAmoy + "/tx/" + txHash
}

// Load reads the process environment.
func Load() (*ChainEnvironment, error) {
	var cfg ChainEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFrom reads an explicit environment set.
func LoadFrom(es env.EnvSet) (*ChainEnvironment, error) {
	var cfg ChainEnvironment

	if err := env.Unmarshal(es, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values whose absence is not a per-request condition.
func (c *ChainEnvironment) Validate() error {
	switch c.TokenIDMode {
	case TokenIDFromEvent, TokenIDFromCounter:
	default:
		return fmt.Errorf("invalid TOKEN_ID_MODE: %q", c.TokenIDMode)
	}

	if c.ChainTimeout <= 0 {
		return fmt.Errorf("CHAIN_TIMEOUT must be positive, got %s", c.ChainTimeout)
	}

	if c.VaultKeyPath != "" && c.VaultAddr == "" {
		return fmt.Errorf("VAULT_KEY_PATH is set but VAULT_ADDR is empty")
	}

	return nil
}

// IsMainnet reports whether NETWORK selects mainnet. Every other value is the testnet.
func (c *ChainEnvironment) IsMainnet() bool {
	return strings.EqualFold(strings.TrimSpace(c.Network), NetworkMainnet)
}

// Active resolves the settings of the selected network.
func (c *ChainEnvironment) Active() Network {
	if c.IsMainnet() {
		return Network{
			Mode:            NetworkMainnet,
			Label:           LabelMainnet,
			RPCURL:          c.MainnetRPCURL,
			Contract:        c.MainnetContract,
			ExplorerBaseURL: explorerMainnet,
		}
	}
	return Network{
		Mode:            NetworkAmoy,
		Label:           LabelAmoy,
		RPCURL:          c.AmoyRPCURL,
		Contract:        c.AmoyContract,
		ExplorerBaseURL: explorerAmoy,
	}
}
