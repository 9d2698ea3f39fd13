// Package mocks provides mock implementations for testing sharing use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MockShareRepository is a mock implementation of ShareRepository for testing.
type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, share *sharingDomain.DataShare) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockShareRepository) GetByEntityAndRecipient(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) (*sharingDomain.DataShare, error) {
	args := m.Called(ctx, entityID, entityType, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.DataShare), args.Error(1)
}

func (m *MockShareRepository) ListByEntity(
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

func (m *MockShareRepository) UpdatePermissions(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
	permissions sharingDomain.Permissions,
) error {
	args := m.Called(ctx, entityID, entityType, recipientID, permissions)
	return args.Error(0)
}

func (m *MockShareRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) error {
	args := m.Called(ctx, entityID, entityType, recipientID)
	return args.Error(0)
}

func (m *MockShareRepository) DeleteByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	args := m.Called(ctx, entityID, entityType)
	return args.Error(0)
}

// MockDefaultRepository is a mock implementation of DefaultRepository for testing.
type MockDefaultRepository struct {
	mock.Mock
}

func (m *MockDefaultRepository) Upsert(ctx context.Context, def *sharingDomain.SharingDefault) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockDefaultRepository) ListByOwnerAndType(
	ctx context.Context,
	ownerID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*sharingDomain.SharingDefault, error) {
	args := m.Called(ctx, ownerID, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.SharingDefault), args.Error(1)
}

func (m *MockDefaultRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.SharingDefault, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharingDomain.SharingDefault), args.Error(1)
}

func (m *MockDefaultRepository) Delete(
	ctx context.Context,
	ownerID uuid.UUID,
	recipientID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	args := m.Called(ctx, ownerID, recipientID, entityType)
	return args.Error(0)
}

// MockDekUseCase is a mock implementation of the vault DekUseCase for testing.
type MockDekUseCase struct {
	mock.Mock
}

func (m *MockDekUseCase) CreateEntityDek(
	ctx context.Context,
	entityType vaultDomain.EntityType,
	entityID uuid.UUID,
	ownerID uuid.UUID,
) ([]byte, error) {
	args := m.Called(ctx, entityType, entityID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDekUseCase) ResolveDek(
	ctx context.Context,
	entityType vaultDomain.EntityType,
	entityID uuid.UUID,
	ownerID uuid.UUID,
	requestingUserID uuid.UUID,
) ([]byte, error) {
	args := m.Called(ctx, entityType, entityID, ownerID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDekUseCase) DeleteEntityDek(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	args := m.Called(ctx, entityID, entityType)
	return args.Error(0)
}
