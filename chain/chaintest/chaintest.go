// Package chaintest provides simulated chains and in-memory token fakes for tests.
package chaintest

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"

	"github.com/blockward/blockward-backend/bindings/blockward"
	"github.com/blockward/blockward-backend/chain"
	"github.com/blockward/blockward-backend/interfaces"
)

// ChainID of the simulated backend.
var ChainID = big.NewInt(1337)

// SetupTestChain starts a simulated backend with one account funded with 10 ether.
func SetupTestChain() (*simulated.Backend, *bind.TransactOpts, *ecdsa.PrivateKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, nil, nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, ChainID)
	if err != nil {
		return nil, nil, nil, err
	}

	balance := new(big.Int)
	balance.SetString("10000000000000000000", 10) // 10 ETH

	genesisAlloc := map[common.Address]types.Account{
		auth.From: {Balance: balance},
	}

	backend := simulated.NewBackend(genesisAlloc, simulated.WithBlockGasLimit(8000000))
	return backend, auth, privateKey, nil
}

// SetupTokenChain is SetupTestChain with a minimal BlockWard token deployed
// at contract. See TokenRuntime for what the token implements.
func SetupTokenChain(contract common.Address) (*simulated.Backend, *bind.TransactOpts, *ecdsa.PrivateKey, error) {
	code, err := TokenRuntime()
	if err != nil {
		return nil, nil, nil, err
	}

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, nil, nil, err
	}
	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, ChainID)
	if err != nil {
		return nil, nil, nil, err
	}

	balance := new(big.Int)
	balance.SetString("10000000000000000000", 10) // 10 ETH

	backend := simulated.NewBackend(map[common.Address]types.Account{
		auth.From: {Balance: balance},
		contract:  {Code: code, Balance: new(big.Int)},
	}, simulated.WithBlockGasLimit(8000000))
	return backend, auth, privateKey, nil
}

// EVM opcodes used by TokenRuntime.
const (
	opAdd          = 0x01
	opSub          = 0x03
	opEq           = 0x14
	opShr          = 0x1c
	opCalldataLoad = 0x35
	opCalldataSize = 0x36
	opCalldataCopy = 0x37
	opMstore       = 0x52
	opSload        = 0x54
	opSstore       = 0x55
	opJumpi        = 0x57
	opJumpdest     = 0x5b
	opPush1        = 0x60
	opPush4        = 0x63
	opPush32       = 0x7f
	opDup1         = 0x80
	opLog3         = 0xa3
	opReturn       = 0xf3
	opRevert       = 0xfd
)

// TokenRuntime returns runtime bytecode of a token that implements
// tokenCounter() and mint(address,string). Storage slot 0 holds the counter.
// mint assigns the current counter as token id, increments the counter, emits
// Minted(to, tokenId, uri) and returns the id. Any other call reverts.
func TokenRuntime() ([]byte, error) {
	parsed, err := blockward.BlockWardMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	mintSel := parsed.Methods["mint"].ID
	counterSel := parsed.Methods["tokenCounter"].ID
	minted := parsed.Events["Minted"].ID

	var code []byte
	emit := func(b ...byte) { code = append(code, b...) }

	// selector := calldataload(0) >> 224
	emit(opPush1, 0x00, opCalldataLoad, opPush1, 0xe0, opShr)

	emit(opDup1, opPush4)
	emit(mintSel...)
	emit(opEq, opPush1, 0x00)
	mintJump := len(code) - 1
	emit(opJumpi)

	emit(opDup1, opPush4)
	emit(counterSel...)
	emit(opEq, opPush1, 0x00)
	counterJump := len(code) - 1
	emit(opJumpi)

	emit(opPush1, 0x00, opDup1, opRevert)

	// tokenCounter(): return sload(0)
	code[counterJump] = byte(len(code))
	emit(opJumpdest)
	emit(opPush1, 0x00, opSload, opPush1, 0x00, opMstore)
	emit(opPush1, 0x20, opPush1, 0x00, opReturn)

	// mint(to, uri)
	code[mintJump] = byte(len(code))
	emit(opJumpdest)
	// id := sload(0); sstore(0, id+1)
	emit(opPush1, 0x00, opSload)
	emit(opDup1, opPush1, 0x01, opAdd, opPush1, 0x00, opSstore)
	// Event data is the abi encoded uri: offset word 0x20, then the length
	// word and padded bytes copied from calldata after the uri offset.
	emit(opPush1, 0x20, opPush1, 0x00, opMstore)
	emit(opPush1, 0x44, opCalldataSize, opSub)
	emit(opPush1, 0x44, opPush1, 0x20, opCalldataCopy)
	// log3(0, calldatasize-36, Minted, to, id)
	emit(opDup1)
	emit(opPush1, 0x04, opCalldataLoad)
	emit(opPush32)
	emit(minted.Bytes()...)
	emit(opPush1, 0x24, opCalldataSize, opSub)
	emit(opPush1, 0x00)
	emit(opLog3)
	// return id
	emit(opPush1, 0x00, opMstore)
	emit(opPush1, 0x20, opPush1, 0x00, opReturn)

	return code, nil
}

// Client adapts a simulated client to interfaces.ChainClient.
func Client(backend *simulated.Backend) interfaces.ChainClient {
	return simClient{backend.Client()}
}

type simClient struct {
	simulated.Client
}

// Close is a no-op; the backend owns the connection.
func (simClient) Close() {}

// StaticFactory hands out preconfigured chain objects and counts dials.
type StaticFactory struct {
	Client  interfaces.ChainClient
	Token   interfaces.AwardToken
	DialErr error

	mu      sync.Mutex
	dials   int
	signers []*ecdsa.PrivateKey
}

func (f *StaticFactory) Dial(ctx context.Context, rpcURL string) (interfaces.ChainClient, error) {
	f.mu.Lock()
	f.dials++
	f.mu.Unlock()
	if f.DialErr != nil {
		return nil, f.DialErr
	}
	if f.Client == nil {
		return nopClient{}, nil
	}
	return f.Client, nil
}

func (f *StaticFactory) TokenFor(ctx context.Context, client interfaces.ChainClient, address common.Address, signer *ecdsa.PrivateKey) (interfaces.AwardToken, error) {
	f.mu.Lock()
	f.signers = append(f.signers, signer)
	f.mu.Unlock()
	if f.Token == nil {
		return nil, errors.New("no token configured")
	}
	return f.Token, nil
}

// Dials returns how many times Dial was called.
func (f *StaticFactory) Dials() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

// nopClient satisfies ChainClient for fakes that never touch RPC.
type nopClient struct {
	interfaces.ChainClient
}

func (nopClient) Close() {}

// EncodeMintedLog builds the log the BlockWard contract emits for a mint.
func EncodeMintedLog(contract, to common.Address, tokenID *big.Int, uri string) (*types.Log, error) {
	parsed, err := blockward.BlockWardMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	event := parsed.Events["Minted"]
	data, err := event.Inputs.NonIndexed().Pack(uri)
	if err != nil {
		return nil, fmt.Errorf("packing Minted data: %w", err)
	}
	return &types.Log{
		Address: contract,
		Topics: []common.Hash{
			event.ID,
			common.BytesToHash(to.Bytes()),
			common.BigToHash(tokenID),
		},
		Data: data,
	}, nil
}

// Mint is one call recorded by FakeToken.
type Mint struct {
	To      common.Address
	URI     string
	TokenID *big.Int
	TxHash  common.Hash
	Block   uint64
}

// FakeToken is an in-memory interfaces.AwardToken. Token ids start at 0 and
// tokenCounter() reports how many mints are included in a block.
//
// With MineAfter > 1 no transaction is mined until that many mints were
// submitted; they are then included together, as happens when concurrent
// mints land in the same block.
type FakeToken struct {
	Contract  common.Address
	MineAfter int
	MintErr   error
	WaitErr   error
	Revert    bool
	NoEvent   bool

	mu      sync.Mutex
	cond    *sync.Cond
	nonce   uint64
	mined   int64
	block   uint64 // last mined block
	mints   []Mint
	pending map[common.Hash]int
}

func (f *FakeToken) init() {
	if f.cond == nil {
		f.cond = sync.NewCond(&f.mu)
		f.pending = make(map[common.Hash]int)
		f.block = 100
	}
}

func (f *FakeToken) Address() common.Address {
	return f.Contract
}

func (f *FakeToken) Mint(ctx context.Context, to common.Address, uri string) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.init()

	if f.MintErr != nil {
		return nil, f.MintErr
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    f.nonce,
		To:       &f.Contract,
		Gas:      200000,
		GasPrice: big.NewInt(1),
		Data:     []byte(uri),
	})
	f.nonce++

	f.pending[tx.Hash()] = len(f.mints)
	f.mints = append(f.mints, Mint{
		To:      to,
		URI:     uri,
		TokenID: big.NewInt(int64(len(f.mints))),
		TxHash:  tx.Hash(),
	})
	f.cond.Broadcast()
	return tx, nil
}

func (f *FakeToken) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.init()

	idx, ok := f.pending[tx.Hash()]
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", tx.Hash().Hex())
	}
	for len(f.mints) < f.MineAfter {
		f.cond.Wait()
	}
	if int64(len(f.mints)) > f.mined {
		f.block++
		for i := f.mined; i < int64(len(f.mints)); i++ {
			f.mints[i].Block = f.block
		}
		f.mined = int64(len(f.mints))
	}

	if f.WaitErr != nil {
		return nil, f.WaitErr
	}

	m := f.mints[idx]
	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      m.TxHash,
		BlockNumber: new(big.Int).SetUint64(m.Block),
	}
	if f.Revert {
		receipt.Status = types.ReceiptStatusFailed
		return receipt, fmt.Errorf("%w: %s", chain.ErrTxReverted, m.TxHash.Hex())
	}
	if !f.NoEvent {
		log, err := EncodeMintedLog(f.Contract, m.To, m.TokenID, m.URI)
		if err != nil {
			return nil, err
		}
		log.TxHash = m.TxHash
		log.BlockNumber = m.Block
		receipt.Logs = []*types.Log{log}
	}
	return receipt, nil
}

func (f *FakeToken) MintedFromReceipt(receipt *types.Receipt) (*interfaces.MintedEvent, error) {
	return chain.ParseMintedReceipt(f.Contract, receipt)
}

func (f *FakeToken) TokenCounter(ctx context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return big.NewInt(f.mined), nil
}

func (f *FakeToken) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(0)
	for i, m := range f.mints {
		if int64(i) < f.mined && m.To == owner {
			n++
		}
	}
	return big.NewInt(n), nil
}

func (f *FakeToken) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(0)
	for i, m := range f.mints {
		if int64(i) >= f.mined || m.To != owner {
			continue
		}
		if n == index.Int64() {
			return new(big.Int).Set(m.TokenID), nil
		}
		n++
	}
	return nil, errors.New("owner index out of bounds")
}

func (f *FakeToken) MintedEvents(ctx context.Context, fromBlock, toBlock uint64) ([]interfaces.MintedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []interfaces.MintedEvent
	for i, m := range f.mints {
		if int64(i) >= f.mined {
			break
		}
		if m.Block < fromBlock || m.Block > toBlock {
			continue
		}
		events = append(events, interfaces.MintedEvent{
			To:          m.To,
			TokenID:     new(big.Int).Set(m.TokenID),
			URI:         m.URI,
			TxHash:      m.TxHash,
			BlockNumber: m.Block,
		})
	}
	return events, nil
}

// Mints returns the submitted mints in order.
func (f *FakeToken) Mints() []Mint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Mint(nil), f.mints...)
}
