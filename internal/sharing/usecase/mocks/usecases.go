package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	sharingUsecase "github.com/hearthledger/hearthledger/internal/sharing/usecase"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MockShareUseCase is a mock implementation of ShareUseCase for testing.
type MockShareUseCase struct {
	mock.Mock
}

func (m *MockShareUseCase) CreateShare(
	ctx context.Context,
	input *sharingUsecase.CreateShareInput,
) (*sharingDomain.DataShare, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.DataShare), args.Error(1)
}

func (m *MockShareUseCase) ApplyBlanketShares(
	ctx context.Context,
	entityType vaultDomain.EntityType,
	entityID uuid.UUID,
	ownerID uuid.UUID,
	dek []byte,
) ([]*sharingDomain.ShareOutcome, error) {
	args := m.Called(ctx, entityType, entityID, ownerID, dek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.ShareOutcome), args.Error(1)
}

func (m *MockShareUseCase) ListShares(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*sharingDomain.DataShare, error) {
	args := m.Called(ctx, entityID, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.DataShare), args.Error(1)
}

func (m *MockShareUseCase) UpdatePermissions(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
	permissions sharingDomain.Permissions,
) error {
	args := m.Called(ctx, entityID, entityType, recipientID, permissions)
	return args.Error(0)
}

func (m *MockShareUseCase) RevokeShare(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) error {
	args := m.Called(ctx, entityID, entityType, recipientID)
	return args.Error(0)
}

func (m *MockShareUseCase) RevokeAllForEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	args := m.Called(ctx, entityID, entityType)
	return args.Error(0)
}

// MockDefaultUseCase is a mock implementation of DefaultUseCase for testing.
type MockDefaultUseCase struct {
	mock.Mock
}

func (m *MockDefaultUseCase) SetDefault(
	ctx context.Context,
	ownerID uuid.UUID,
	recipientID uuid.UUID,
	entityType vaultDomain.EntityType,
	permissions sharingDomain.Permissions,
) (*sharingDomain.SharingDefault, error) {
	args := m.Called(ctx, ownerID, recipientID, entityType, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.SharingDefault), args.Error(1)
}

func (m *MockDefaultUseCase) ListDefaults(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.SharingDefault, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.SharingDefault), args.Error(1)
}

func (m *MockDefaultUseCase) DeleteDefault(
	ctx context.Context,
	ownerID uuid.UUID,
	recipientID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	args := m.Called(ctx, ownerID, recipientID, entityType)
	return args.Error(0)
}
