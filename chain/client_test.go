package chain_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockward/blockward-backend/chain"
	"github.com/blockward/blockward-backend/chain/chaintest"
)

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000b10c0")
	studentAddr  = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func TestParseMintedReceipt(t *testing.T) {
	log, err := chaintest.EncodeMintedLog(contractAddr, studentAddr, big.NewInt(42), "data:application/json;base64,e30=")
	require.NoError(t, err)
	log.TxHash = common.HexToHash("0xabc")
	log.BlockNumber = 7

	transfer := &types.Log{Address: contractAddr, Topics: []common.Hash{crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))}}
	receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful, Logs: []*types.Log{transfer, log}}

	ev, err := chain.ParseMintedReceipt(contractAddr, receipt)
	require.NoError(t, err)
	assert.Equal(t, studentAddr, ev.To)
	assert.Equal(t, "42", ev.TokenID.String())
	assert.Equal(t, "data:application/json;base64,e30=", ev.URI)
	assert.Equal(t, common.HexToHash("0xabc"), ev.TxHash)
	assert.Equal(t, uint64(7), ev.BlockNumber)
}

func TestParseMintedReceipt_OtherContract(t *testing.T) {
	other := common.HexToAddress("0x2222222222222222222222222222222222222222")
	log, err := chaintest.EncodeMintedLog(other, studentAddr, big.NewInt(1), "uri")
	require.NoError(t, err)

	_, err = chain.ParseMintedReceipt(contractAddr, &types.Receipt{Logs: []*types.Log{log}})
	assert.ErrorIs(t, err, chain.ErrNoMintedEvent)

	_, err = chain.ParseMintedReceipt(contractAddr, nil)
	assert.ErrorIs(t, err, chain.ErrNoMintedEvent)
}

func TestTokenClient_MintWithoutSigner(t *testing.T) {
	backend, _, _, err := chaintest.SetupTestChain()
	require.NoError(t, err)
	defer backend.Close()

	token, err := chain.NewToken(context.Background(), chaintest.Client(backend), contractAddr, nil)
	require.NoError(t, err)

	_, err = token.Mint(context.Background(), studentAddr, "uri")
	assert.ErrorIs(t, err, chain.ErrNoTransactOpts)
}

func TestTokenClient_MintOnSimulatedChain(t *testing.T) {
	backend, _, key, err := chaintest.SetupTokenChain(contractAddr)
	require.NoError(t, err)
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	token, err := chain.NewToken(ctx, chaintest.Client(backend), contractAddr, key)
	require.NoError(t, err)
	assert.Equal(t, contractAddr, token.Address())

	uris := []string{"data:application/json;base64,eyJuYW1lIjoiQSJ9", "ipfs://QmSecondAwardMetadataWithALongerUriThanOneWord"}
	var txs []*types.Transaction
	for _, uri := range uris {
		tx, err := token.Mint(ctx, studentAddr, uri)
		require.NoError(t, err)
		txs = append(txs, tx)
	}
	backend.Commit()

	for i, tx := range txs {
		receipt, err := token.WaitMined(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), receipt.BlockNumber.Uint64())

		ev, err := token.MintedFromReceipt(receipt)
		require.NoError(t, err)
		assert.Equal(t, studentAddr, ev.To)
		assert.Equal(t, int64(i), ev.TokenID.Int64())
		assert.Equal(t, uris[i], ev.URI)
		assert.Equal(t, tx.Hash(), ev.TxHash)
	}

	counter, err := token.TokenCounter(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counter.Int64())

	events, err := token.MintedEvents(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, txs[0].Hash(), events[0].TxHash)
	assert.Equal(t, "1", events[1].TokenID.String())
	assert.Equal(t, uris[1], events[1].URI)
}

// A mint sent to an address without code is mined but emits nothing.
func TestTokenClient_MintWithoutContractCode(t *testing.T) {
	backend, auth, _, err := chaintest.SetupTestChain()
	require.NoError(t, err)
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := chaintest.Client(backend)
	token, err := chain.NewTokenClient(client, client, contractAddr)
	require.NoError(t, err)
	// Gas estimation refuses calls to addresses without code.
	auth.GasLimit = 100000
	token.SetTransactOpts(auth)

	tx, err := token.Mint(ctx, studentAddr, "uri")
	require.NoError(t, err)
	backend.Commit()

	receipt, err := token.WaitMined(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), receipt.TxHash)

	_, err = token.MintedFromReceipt(receipt)
	assert.ErrorIs(t, err, chain.ErrNoMintedEvent)

	_, err = token.TokenCounter(ctx)
	assert.Error(t, err)
}

func TestFactory_DialUnsupportedScheme(t *testing.T) {
	_, err := chain.NewFactory().Dial(context.Background(), "ftp://example.com")
	assert.Error(t, err)
}
