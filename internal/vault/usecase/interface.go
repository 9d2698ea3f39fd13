// Package usecase implements the key-material business logic: user key pair
// lifecycle, password sessions, per-entity DEK minting, and the single
// authorization chokepoint that resolves a usable DEK for a requesting user.
package usecase

import (
	"context"

	"github.com/google/uuid"

	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// DekRepository defines the interface for DEK record persistence.
type DekRepository interface {
	Create(ctx context.Context, dek *vaultDomain.EntityDek) error
	Get(ctx context.Context, entityID uuid.UUID, entityType vaultDomain.EntityType) (*vaultDomain.EntityDek, error)
	Delete(ctx context.Context, entityID uuid.UUID, entityType vaultDomain.EntityType) error
}

// UserKeyRepository defines the interface for user key pair persistence.
type UserKeyRepository interface {
	Create(ctx context.Context, keyPair *vaultDomain.UserKeyPair) error
	Get(ctx context.Context, userID uuid.UUID) (*vaultDomain.UserKeyPair, error)
}

// ShareReader looks up the data share granting a recipient access to an
// entity. Defined here so the access resolver depends only on what it reads.
type ShareReader interface {
	GetByEntityAndRecipient(
		ctx context.Context,
		entityID uuid.UUID,
		entityType vaultDomain.EntityType,
		recipientID uuid.UUID,
	) (*sharingDomain.DataShare, error)
}

// KeyUseCase manages user key pairs and password sessions.
type KeyUseCase interface {
	// EnableProtection creates the user's key pair and opens their session.
	// Returns vaultDomain.ErrKeyPairExists if the user already has one.
	EnableProtection(ctx context.Context, userID uuid.UUID, password string) (*vaultDomain.UserKeyPair, error)

	// Unlock verifies the password, unseals the private key, and stores it in
	// the session store.
	Unlock(ctx context.Context, userID uuid.UUID, password string) error

	// Lock clears the user's session key.
	Lock(userID uuid.UUID)

	// LockAll clears every session key (app exit, auto-lock timeout).
	LockAll()

	// IsUnlocked reports whether the user currently has a live session key.
	IsUnlocked(userID uuid.UUID) bool

	// EscrowBackup produces a KMS-protected recovery blob of the user's
	// stored key pair.
	EscrowBackup(ctx context.Context, userID uuid.UUID, keyURI string) ([]byte, error)
}

// DekUseCase mints and resolves per-entity Data Encryption Keys.
type DekUseCase interface {
	// CreateEntityDek mints the entity's DEK, persists it wrapped under the
	// owner's public key, and returns the plaintext key for immediate field
	// encryption. Fails with vaultDomain.ErrSessionLocked when the owner's
	// session is locked: no entity can be protected while its owner is locked,
	// and callers must treat that as a hard failure of the whole create.
	CreateEntityDek(
		ctx context.Context,
		entityType vaultDomain.EntityType,
		entityID uuid.UUID,
		ownerID uuid.UUID,
	) ([]byte, error)

	// ResolveDek determines whether the requesting user may decrypt the
	// entity and returns the usable DEK. Owners need their own session;
	// recipients need a data share plus their own session. Everyone else gets
	// vaultDomain.ErrNoAccess. This is the only path to a usable DEK.
	ResolveDek(
		ctx context.Context,
		entityType vaultDomain.EntityType,
		entityID uuid.UUID,
		ownerID uuid.UUID,
		requestingUserID uuid.UUID,
	) ([]byte, error)

	// DeleteEntityDek removes the DEK record when its entity is destroyed.
	DeleteEntityDek(ctx context.Context, entityID uuid.UUID, entityType vaultDomain.EntityType) error
}
