package interfaces

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// MintedEvent is a decoded Minted(to, tokenId, uri) log.
type MintedEvent struct {
	To          common.Address `json:"to"`
	TokenID     *big.Int       `json:"tokenId"`
	URI         string         `json:"uri"`
	TxHash      common.Hash    `json:"txHash"`
	BlockNumber uint64         `json:"blockNumber"`
}

// ChainClient is a connected RPC endpoint. *ethclient.Client satisfies it.
type ChainClient interface {
	bind.ContractBackend
	bind.DeployBackend

	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	Close()
}

// AwardToken is the BlockWard token contract as used by the service.
type AwardToken interface {
	// Address returns the contract address.
	Address() common.Address

	// Mint submits mint(to, uri). It does not wait for confirmation.
	Mint(ctx context.Context, to common.Address, uri string) (*types.Transaction, error)

	// WaitMined blocks until the transaction is included in a block.
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

	// MintedFromReceipt decodes the Minted event emitted by this contract in receipt.
	MintedFromReceipt(receipt *types.Receipt) (*MintedEvent, error)

	// TokenCounter reads tokenCounter().
	TokenCounter(ctx context.Context) (*big.Int, error)

	// BalanceOf reads balanceOf(owner).
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)

	// TokenOfOwnerByIndex reads tokenOfOwnerByIndex(owner, index).
	TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error)

	// MintedEvents returns Minted events in [fromBlock, toBlock].
	MintedEvents(ctx context.Context, fromBlock, toBlock uint64) ([]MintedEvent, error)
}

// ChainFactory creates chain objects per request from explicit configuration.
type ChainFactory interface {
	// Dial connects to the RPC endpoint.
	Dial(ctx context.Context, rpcURL string) (ChainClient, error)

	// TokenFor binds the token contract at address. When signer is non-nil
	// the returned token can send transactions signed by it.
	TokenFor(ctx context.Context, client ChainClient, address common.Address, signer *ecdsa.PrivateKey) (AwardToken, error)
}

// KeySource provides the custodial platform signing key.
type KeySource interface {
	// Configured reports whether a key source is set up, without any network call.
	Configured() bool

	// PrivateKey resolves the key.
	PrivateKey(ctx context.Context) (*ecdsa.PrivateKey, error)

	// Name returns identifier for logging.
	Name() string
}
