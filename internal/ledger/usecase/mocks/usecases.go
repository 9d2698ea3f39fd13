package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	ledgerDomain "github.com/hearthledger/hearthledger/internal/ledger/domain"
	ledgerUsecase "github.com/hearthledger/hearthledger/internal/ledger/usecase"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MockEntityUseCase is a mock implementation of EntityUseCase for testing.
type MockEntityUseCase struct {
	mock.Mock
}

func (m *MockEntityUseCase) CreateEntity(
	ctx context.Context,
	input *ledgerUsecase.CreateEntityInput,
) (*ledgerDomain.Entity, []*sharingDomain.ShareOutcome, error) {
	args := m.Called(ctx, input)
	var entity *ledgerDomain.Entity
	if args.Get(0) != nil {
		entity = args.Get(0).(*ledgerDomain.Entity)
	}
	var outcomes []*sharingDomain.ShareOutcome
	if args.Get(1) != nil {
		outcomes = args.Get(1).([]*sharingDomain.ShareOutcome)
	}
	return entity, outcomes, args.Error(2)
}

func (m *MockEntityUseCase) GetEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
) (*ledgerDomain.Entity, error) {
	args := m.Called(ctx, entityID, entityType, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerDomain.Entity), args.Error(1)
}

func (m *MockEntityUseCase) ListEntities(
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

func (m *MockEntityUseCase) UpdateEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
	data map[string]any,
) (*ledgerDomain.Entity, error) {
	args := m.Called(ctx, entityID, entityType, userID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerDomain.Entity), args.Error(1)
}

func (m *MockEntityUseCase) DeleteEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
) error {
	args := m.Called(ctx, entityID, entityType, userID)
	return args.Error(0)
}
