// Package chain talks to the BlockWard token contract over JSON-RPC.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/blockward/blockward-backend/bindings/blockward"
	"github.com/blockward/blockward-backend/interfaces"
)

var (
	// ErrNoTransactOpts is returned when a transaction is attempted without first setting transaction options.
	ErrNoTransactOpts = errors.New("no authorized transactor available")

	// ErrNoMintedEvent is returned when a receipt carries no Minted log from the token contract.
	ErrNoMintedEvent = errors.New("no Minted event in receipt")

	// ErrTxReverted is returned when a mined transaction has a failed status.
	ErrTxReverted = errors.New("transaction reverted")
)

// TokenClient implements interfaces.AwardToken for a deployed BlockWard contract.
type TokenClient struct {
	contract *blockward.BlockWard
	backend  bind.DeployBackend
	address  common.Address
	auth     *bind.TransactOpts
}

// NewTokenClient creates a client for the contract at address. It requires a
// ContractBackend for calls and a DeployBackend for waiting on transactions.
func NewTokenClient(client bind.ContractBackend, backend bind.DeployBackend, address common.Address) (*TokenClient, error) {
	contract, err := blockward.NewBlockWard(address, client)
	if err != nil {
		return nil, err
	}

	return &TokenClient{
		contract: contract,
		backend:  backend,
		address:  address,
	}, nil
}

// SetTransactOpts sets the signer used by Mint.
func (c *TokenClient) SetTransactOpts(auth *bind.TransactOpts) {
	c.auth = auth
}

func (c *TokenClient) Address() common.Address {
	return c.address
}

// Mint submits mint(to, uri) and returns as soon as the transaction is broadcast.
func (c *TokenClient) Mint(ctx context.Context, to common.Address, uri string) (*types.Transaction, error) {
	if c.auth == nil {
		return nil, ErrNoTransactOpts
	}

	opts := *c.auth
	opts.Context = ctx
	return c.contract.Mint(&opts, to, uri)
}

// WaitMined waits for one confirmation. A reverted transaction returns its
// receipt together with ErrTxReverted.
func (c *TokenClient) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTxReverted, tx.Hash().Hex())
	}
	return receipt, nil
}

func (c *TokenClient) MintedFromReceipt(receipt *types.Receipt) (*interfaces.MintedEvent, error) {
	return ParseMintedReceipt(c.address, receipt)
}

func (c *TokenClient) TokenCounter(ctx context.Context) (*big.Int, error) {
	return c.contract.TokenCounter(&bind.CallOpts{Context: ctx})
}

func (c *TokenClient) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return c.contract.BalanceOf(&bind.CallOpts{Context: ctx}, owner)
}

func (c *TokenClient) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	return c.contract.TokenOfOwnerByIndex(&bind.CallOpts{Context: ctx}, owner, index)
}

// MintedEvents returns every Minted event in [fromBlock, toBlock].
func (c *TokenClient) MintedEvents(ctx context.Context, fromBlock, toBlock uint64) ([]interfaces.MintedEvent, error) {
	it, err := c.contract.FilterMinted(&bind.FilterOpts{Start: fromBlock, End: &toBlock, Context: ctx}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("filtering Minted events: %w", err)
	}
	defer it.Close()

	var events []interfaces.MintedEvent
	for it.Next() {
		events = append(events, mintedEvent(it.Event))
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("iterating Minted events: %w", err)
	}
	return events, nil
}

// ParseMintedReceipt returns the first Minted event emitted by contract in receipt.
func ParseMintedReceipt(contract common.Address, receipt *types.Receipt) (*interfaces.MintedEvent, error) {
	if receipt == nil {
		return nil, ErrNoMintedEvent
	}

	filterer, err := blockward.NewBlockWardFilterer(contract, nil)
	if err != nil {
		return nil, err
	}
	parsed, err := blockward.BlockWardMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	mintedID := parsed.Events["Minted"].ID

	for _, log := range receipt.Logs {
		if log == nil || log.Address != contract || len(log.Topics) == 0 || log.Topics[0] != mintedID {
			continue
		}
		ev, err := filterer.ParseMinted(*log)
		if err != nil {
			return nil, fmt.Errorf("decoding Minted log: %w", err)
		}
		event := mintedEvent(ev)
		return &event, nil
	}
	return nil, ErrNoMintedEvent
}

func mintedEvent(ev *blockward.BlockWardMinted) interfaces.MintedEvent {
	return interfaces.MintedEvent{
		To:          ev.To,
		TokenID:     ev.TokenId,
		URI:         ev.Uri,
		TxHash:      ev.Raw.TxHash,
		BlockNumber: ev.Raw.BlockNumber,
	}
}
