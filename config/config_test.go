package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, NetworkAmoy, cfg.Network)
	assert.Equal(t, TokenIDFromEvent, cfg.TokenIDMode)
	assert.Equal(t, 2*time.Minute, cfg.ChainTimeout)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "secret", cfg.VaultKVMount)
	assert.Empty(t, cfg.PlatformPrivateKey)
}

func TestLoadFrom_InvalidTokenIDMode(t *testing.T) {
	_, err := LoadFrom(map[string]string{"TOKEN_ID_MODE": "guess"})
	assert.ErrorContains(t, err, "TOKEN_ID_MODE")
}

func TestLoadFrom_VaultPathWithoutAddr(t *testing.T) {
	_, err := LoadFrom(map[string]string{"VAULT_KEY_PATH": "blockward/platform"})
	assert.ErrorContains(t, err, "VAULT_ADDR")
}

func TestActive(t *testing.T) {
	es := map[string]string{
		"POLYGON_AMOY_RPC_URL":       "https://rpc-amoy.example",
		"POLYGON_MAINNET_RPC_URL":    "https://rpc-mainnet.example",
		"BLOCKWARD_CONTRACT_AMOY":    "0xaaaa",
		"BLOCKWARD_CONTRACT_MAINNET": "0xbbbb",
	}

	tests := []struct {
		network      string
		wantRPC      string
		wantLabel    string
		wantTxURL    string
		wantContract string
	}{
		{"", "https://rpc-amoy.example", "polygon-amoy", "https://amoy.polygonscan.com/tx/0x01", "0xaaaa"},
		{"amoy", "https://rpc-amoy.example", "polygon-amoy", "https://amoy.polygonscan.com/tx/0x01", "0xaaaa"},
		{"testnet", "https://rpc-amoy.example", "polygon-amoy", "https://amoy.polygonscan.com/tx/0x01", "0xaaaa"},
		{"mainnet", "https://rpc-mainnet.example", "polygon-mainnet", "https://polygonscan.com/tx/0x01", "0xbbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			vars := map[string]string{}
			for k, v := range es {
				vars[k] = v
			}
			if tt.network != "" {
				vars["NETWORK"] = tt.network
			}
			cfg, err := LoadFrom(vars)
			require.NoError(t, err)

			net := cfg.Active()
			assert.Equal(t, tt.wantRPC, net.RPCURL)
			assert.Equal(t, tt.wantLabel, net.Label)
			assert.Equal(t, tt.wantContract, net.Contract)
			assert.Equal(t, tt.wantTxURL, net.ExplorerTxURL("0x01"))
			assert.Equal(t, tt.wantTxURL, ExplorerTxURLFor(net.Label, "0x01"))
		})
	}
}
