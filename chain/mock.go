package chain

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/blockward/blockward-backend/interfaces"
)

// MockFactory mocks the ChainFactory interface
type MockFactory struct {
	mock.Mock
}

// Dial mocks the Dial method
func (m *MockFactory) Dial(ctx context.Context, rpcURL string) (interfaces.ChainClient, error) {
	args := m.Called(ctx, rpcURL)
	client, _ := args.Get(0).(interfaces.ChainClient)
	return client, args.Error(1)
}

// TokenFor mocks the TokenFor method
func (m *MockFactory) TokenFor(ctx context.Context, client interfaces.ChainClient, address common.Address, signer *ecdsa.PrivateKey) (interfaces.AwardToken, error) {
	args := m.Called(ctx, client, address, signer)
	token, _ := args.Get(0).(interfaces.AwardToken)
	return token, args.Error(1)
}
