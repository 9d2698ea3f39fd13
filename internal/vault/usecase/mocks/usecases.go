package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MockKeyUseCase is a mock implementation of KeyUseCase for testing.
type MockKeyUseCase struct {
	mock.Mock
}

func (m *MockKeyUseCase) EnableProtection(
	ctx context.Context,
	userID uuid.UUID,
	password string,
) (*vaultDomain.UserKeyPair, error) {
	args := m.Called(ctx, userID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.UserKeyPair), args.Error(1)
}

func (m *MockKeyUseCase) Unlock(ctx context.Context, userID uuid.UUID, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}

func (m *MockKeyUseCase) Lock(userID uuid.UUID) {
	m.Called(userID)
}

func (m *MockKeyUseCase) LockAll() {
	m.Called()
}

func (m *MockKeyUseCase) IsUnlocked(userID uuid.UUID) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

func (m *MockKeyUseCase) EscrowBackup(ctx context.Context, userID uuid.UUID, keyURI string) ([]byte, error) {
	args := m.Called(ctx, userID, keyURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
