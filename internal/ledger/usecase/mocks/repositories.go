// Package mocks provides mock implementations for testing ledger use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	ledgerDomain "github.com/hearthledger/hearthledger/internal/ledger/domain"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	sharingUsecase "github.com/hearthledger/hearthledger/internal/sharing/usecase"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MockEntityRepository is a mock implementation of EntityRepository for testing.
type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) Create(ctx context.Context, entity *ledgerDomain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) Get(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) (*ledgerDomain.Entity, error) {
	args := m.Called(ctx, entityID, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerDomain.Entity), args.Error(1)
}

func (m *MockEntityRepository) ListVisible(
	ctx context.Context,
	userID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*ledgerDomain.Entity, error) {
	args := m.Called(ctx, userID, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledgerDomain.Entity), args.Error(1)
}

func (m *MockEntityRepository) Update(ctx context.Context, entity *ledgerDomain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	args := m.Called(ctx, entityID, entityType)
	return args.Error(0)
}

// MockShareUseCase is a mock implementation of the sharing ShareUseCase for testing.
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
