// Package mocks provides mock implementations for testing vault use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MockDekRepository is a mock implementation of DekRepository for testing.
type MockDekRepository struct {
	mock.Mock
}

func (m *MockDekRepository) Create(ctx context.Context, dek *vaultDomain.EntityDek) error {
	args := m.Called(ctx, dek)
	return args.Error(0)
}

func (m *MockDekRepository) Get(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) (*vaultDomain.EntityDek, error) {
	args := m.Called(ctx, entityID, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.EntityDek), args.Error(1)
}

func (m *MockDekRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	args := m.Called(ctx, entityID, entityType)
	return args.Error(0)
}

// MockUserKeyRepository is a mock implementation of UserKeyRepository for testing.
type MockUserKeyRepository struct {
	mock.Mock
}

func (m *MockUserKeyRepository) Create(ctx context.Context, keyPair *vaultDomain.UserKeyPair) error {
	args := m.Called(ctx, keyPair)
	return args.Error(0)
}

func (m *MockUserKeyRepository) Get(ctx context.Context, userID uuid.UUID) (*vaultDomain.UserKeyPair, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.UserKeyPair), args.Error(1)
}

// MockShareReader is a mock implementation of ShareReader for testing.
type MockShareReader struct {
	mock.Mock
}

func (m *MockShareReader) GetByEntityAndRecipient(
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
