// Package usecase implements the ledger business logic: entity lifecycle with
// transparent field encryption, single-entity decryption, and bulk list
// decryption with per-item access filtering.
package usecase

import (
	"context"

	"github.com/google/uuid"

	ledgerDomain "github.com/hearthledger/hearthledger/internal/ledger/domain"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// EntityRepository defines the interface for entity persistence.
type EntityRepository interface {
	Create(ctx context.Context, entity *ledgerDomain.Entity) error
	Get(ctx context.Context, entityID uuid.UUID, entityType vaultDomain.EntityType) (*ledgerDomain.Entity, error)
	ListVisible(
		ctx context.Context,
		userID uuid.UUID,
		entityType vaultDomain.EntityType,
	) ([]*ledgerDomain.Entity, error)
	Update(ctx context.Context, entity *ledgerDomain.Entity) error
	Delete(ctx context.Context, entityID uuid.UUID, entityType vaultDomain.EntityType) error
}

// CreateEntityInput carries the parameters for entity creation.
type CreateEntityInput struct {
	Type    vaultDomain.EntityType
	OwnerID uuid.UUID
	Data    map[string]any
	// Encrypt controls whether sensitive fields are sealed under a fresh DEK.
	// Plaintext entities get no DEK and no shares.
	Encrypt bool
}

// EntityUseCase manages the entity lifecycle. Reads always return decrypted
// payloads; callers never see encrypted triples.
type EntityUseCase interface {
	// CreateEntity persists the entity, minting a DEK and encrypting sensitive
	// fields when input.Encrypt is set, then applies the owner's sharing
	// defaults. Everything happens in one transaction: a locked session fails
	// the whole create with vaultDomain.ErrSessionLocked and nothing is stored.
	CreateEntity(
		ctx context.Context,
		input *CreateEntityInput,
	) (*ledgerDomain.Entity, []*sharingDomain.ShareOutcome, error)

	// GetEntity returns the entity with sensitive fields decrypted for the
	// requesting user. Fails with vaultDomain.ErrSessionLocked or
	// vaultDomain.ErrNoAccess when the user cannot decrypt it.
	GetEntity(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		userID uuid.UUID,
	) (*ledgerDomain.Entity, error)

	// ListEntities returns the entities of one type the user can actually
	// read right now: plaintext entities pass through, decryptable entities
	// are decrypted, and anything the user cannot decrypt (locked session, no
	// share, missing DEK) is silently excluded. Input order is preserved.
	ListEntities(
		ctx context.Context,
		userID uuid.UUID,
		entityType vaultDomain.EntityType,
	) ([]*ledgerDomain.Entity, error)

	// UpdateEntity replaces the entity payload, re-encrypting sensitive fields
	// under the existing DEK when the entity is encrypted. Owner only.
	UpdateEntity(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		userID uuid.UUID,
		data map[string]any,
	) (*ledgerDomain.Entity, error)

	// DeleteEntity removes the entity with its DEK record and every share, in
	// one transaction. Owner only.
	DeleteEntity(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		userID uuid.UUID,
	) error
}
