package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/blockward/blockward-backend/interfaces"
)

// Factory builds RPC clients and token bindings. Nothing is cached: every call
// returns fresh objects built from its arguments.
type Factory struct{}

// NewFactory creates a factory dialing real JSON-RPC endpoints.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Dial(ctx context.Context, rpcURL string) (interfaces.ChainClient, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing RPC endpoint: %w", err)
	}
	return client, nil
}

// TokenFor binds the token at address. A non-nil signer is wrapped into
// transact options for the chain id reported by client.
func (f *Factory) TokenFor(ctx context.Context, client interfaces.ChainClient, address common.Address, signer *ecdsa.PrivateKey) (interfaces.AwardToken, error) {
	return NewToken(ctx, client, address, signer)
}

// NewToken is the factory-free form of Factory.TokenFor.
func NewToken(ctx context.Context, client interfaces.ChainClient, address common.Address, signer *ecdsa.PrivateKey) (*TokenClient, error) {
	token, err := NewTokenClient(client, client, address)
	if err != nil {
		return nil, err
	}
	if signer == nil {
		return token, nil
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(signer, chainID)
	if err != nil {
		return nil, fmt.Errorf("creating transactor: %w", err)
	}
	token.SetTransactOpts(auth)
	return token, nil
}
