// Package usecase implements the sharing business logic: explicit per-entity
// grants, blanket sharing defaults applied at entity creation, permission
// updates, and revocation.
package usecase

import (
	"context"

	"github.com/google/uuid"

	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// ShareRepository defines the interface for data share persistence.
type ShareRepository interface {
	Create(ctx context.Context, share *sharingDomain.DataShare) error
	GetByEntityAndRecipient(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		recipientID uuid.UUID,
	) (*sharingDomain.DataShare, error)
	ListByEntity(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
	) ([]*sharingDomain.DataShare, error)
	UpdatePermissions(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		recipientID uuid.UUID,
		permissions sharingDomain.Permissions,
	) error
	Delete(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		recipientID uuid.UUID,
	) error
	DeleteByEntity(ctx context.Context, entityID uuid.UUID, entityType vaultDomain.EntityType) error
}

// DefaultRepository defines the interface for sharing default persistence.
type DefaultRepository interface {
	Upsert(ctx context.Context, def *sharingDomain.SharingDefault) error
	ListByOwnerAndType(
		ctx context.Context,
		ownerID uuid.UUID,
		entityType vaultDomain.EntityType,
	) ([]*sharingDomain.SharingDefault, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*sharingDomain.SharingDefault, error)
	Delete(
		ctx context.Context,
		ownerID uuid.UUID,
		recipientID uuid.UUID,
		entityType vaultDomain.EntityType,
	) error
}

// CreateShareInput carries the parameters for an explicit share.
type CreateShareInput struct {
	EntityType  vaultDomain.EntityType
	EntityID    uuid.UUID
	OwnerID     uuid.UUID
	RecipientID uuid.UUID
	Permissions sharingDomain.Permissions
}

// ShareUseCase manages per-entity decrypt grants.
type ShareUseCase interface {
	// CreateShare grants the recipient decrypt access to the entity. The
	// owner's session must be unlocked to recover the DEK being re-wrapped.
	// Fails with sharingDomain.ErrRecipientKeyMissing when the recipient has
	// no registered public key.
	CreateShare(ctx context.Context, input *CreateShareInput) (*sharingDomain.DataShare, error)

	// ApplyBlanketShares fans the freshly minted DEK out to every recipient
	// the owner has a sharing default for. Recipients without key pairs are
	// skipped, never failed: a missing key must not block entity creation.
	ApplyBlanketShares(
		ctx context.Context,
		entityType vaultDomain.EntityType,
		entityID uuid.UUID,
		ownerID uuid.UUID,
		dek []byte,
	) ([]*sharingDomain.ShareOutcome, error)

	// ListShares returns every grant on the entity.
	ListShares(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
	) ([]*sharingDomain.DataShare, error)

	// UpdatePermissions changes the permission flags on an existing grant.
	UpdatePermissions(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		recipientID uuid.UUID,
		permissions sharingDomain.Permissions,
	) error

	// RevokeShare removes the recipient's grant and its wrapped key copy.
	RevokeShare(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		recipientID uuid.UUID,
	) error

	// RevokeAllForEntity removes every grant on the entity; used when the
	// entity itself is deleted.
	RevokeAllForEntity(ctx context.Context, entityID uuid.UUID, entityType vaultDomain.EntityType) error
}

// DefaultUseCase manages the owner's standing sharing instructions.
type DefaultUseCase interface {
	// SetDefault creates or replaces the default for (recipient, entity type).
	// Defaults may target recipients without key pairs; those are skipped at
	// apply time instead of rejected here.
	SetDefault(
		ctx context.Context,
		ownerID uuid.UUID,
		recipientID uuid.UUID,
		entityType vaultDomain.EntityType,
		permissions sharingDomain.Permissions,
	) (*sharingDomain.SharingDefault, error)

	// ListDefaults returns all of the owner's defaults.
	ListDefaults(ctx context.Context, ownerID uuid.UUID) ([]*sharingDomain.SharingDefault, error)

	// DeleteDefault removes one default. Existing shares are untouched.
	DeleteDefault(
		ctx context.Context,
		ownerID uuid.UUID,
		recipientID uuid.UUID,
		entityType vaultDomain.EntityType,
	) error
}
