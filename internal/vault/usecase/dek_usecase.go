package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/errors"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
	vaultService "github.com/hearthledger/hearthledger/internal/vault/service"
)

type dekUseCase struct {
	dekRepo        DekRepository
	userKeyRepo    UserKeyRepository
	shareReader    ShareReader
	keyWrapper     vaultService.KeyWrapper
	keyPairManager vaultService.KeyPairManager
	sessionStore   vaultService.SessionStore
}

// CreateEntityDek mints a fresh DEK for the entity, persists it wrapped under
// the owner's public key, and returns the plaintext key so the caller can
// encrypt fields before discarding it.
func (d *dekUseCase) CreateEntityDek(
	ctx context.Context,
	entityType vaultDomain.EntityType,
	entityID uuid.UUID,
	ownerID uuid.UUID,
) ([]byte, error) {
	// Fail closed before generating any key material
	if _, ok := d.sessionStore.Get(ownerID); !ok {
		return nil, vaultDomain.ErrSessionLocked
	}

	keyPair, err := d.userKeyRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	publicKey, err := d.keyPairManager.ParsePublicKey(keyPair.PublicKey)
	if err != nil {
		return nil, err
	}

	dekKey, err := vaultService.GenerateDek()
	if err != nil {
		return nil, err
	}
	wrapped, err := d.keyWrapper.Wrap(publicKey, dekKey)
	if err != nil {
		vaultDomain.Zero(dekKey)
		return nil, err
	}

	dek := &vaultDomain.EntityDek{
		EntityID:   entityID,
		EntityType: entityType,
		OwnerID:    ownerID,
		WrappedKey: wrapped,
		CreatedAt:  time.Now().UTC(),
	}
	if err := d.dekRepo.Create(ctx, dek); err != nil {
		vaultDomain.Zero(dekKey)
		return nil, err
	}

	return dekKey, nil
}

// ResolveDek returns the usable DEK for the requesting user, or an error
// describing exactly why they cannot have it. Owners unwrap the DEK record
// with their own session key; share recipients unwrap the share's copy with
// theirs. Anyone else is denied without touching key material.
func (d *dekUseCase) ResolveDek(
	ctx context.Context,
	entityType vaultDomain.EntityType,
	entityID uuid.UUID,
	ownerID uuid.UUID,
	requestingUserID uuid.UUID,
) ([]byte, error) {
	if requestingUserID == ownerID {
		privateKey, ok := d.sessionStore.Get(requestingUserID)
		if !ok {
			return nil, vaultDomain.ErrSessionLocked
		}
		dek, err := d.dekRepo.Get(ctx, entityID, entityType)
		if err != nil {
			return nil, err
		}
		return d.keyWrapper.Unwrap(privateKey, dek.WrappedKey)
	}

	// Non-owners need a share row before their session state even matters,
	// so an unshared entity looks identical whether they are locked or not.
	share, err := d.shareReader.GetByEntityAndRecipient(ctx, entityID, entityType, requestingUserID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, vaultDomain.ErrNoAccess
		}
		return nil, err
	}

	privateKey, ok := d.sessionStore.Get(requestingUserID)
	if !ok {
		return nil, vaultDomain.ErrSessionLocked
	}
	return d.keyWrapper.Unwrap(privateKey, share.WrappedKey)
}

// DeleteEntityDek removes the DEK record when the entity is destroyed.
// Missing records are fine: plaintext entities never had one.
func (d *dekUseCase) DeleteEntityDek(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	err := d.dekRepo.Delete(ctx, entityID, entityType)
	if errors.Is(err, errors.ErrNotFound) {
		return nil
	}
	return err
}

// NewDekUseCase creates a new DekUseCase instance.
func NewDekUseCase(
	dekRepo DekRepository,
	userKeyRepo UserKeyRepository,
	shareReader ShareReader,
	keyWrapper vaultService.KeyWrapper,
	keyPairManager vaultService.KeyPairManager,
	sessionStore vaultService.SessionStore,
) DekUseCase {
	return &dekUseCase{
		dekRepo:        dekRepo,
		userKeyRepo:    userKeyRepo,
		shareReader:    shareReader,
		keyWrapper:     keyWrapper,
		keyPairManager: keyPairManager,
		sessionStore:   sessionStore,
	}
}
