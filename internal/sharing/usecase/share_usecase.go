package usecase

import (
	"context"
	"crypto/rsa"
	"time"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/errors"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
	vaultService "github.com/hearthledger/hearthledger/internal/vault/service"
	vaultUsecase "github.com/hearthledger/hearthledger/internal/vault/usecase"
)

type shareUseCase struct {
	shareRepo      ShareRepository
	defaultRepo    DefaultRepository
	userKeyRepo    vaultUsecase.UserKeyRepository
	dekUseCase     vaultUsecase.DekUseCase
	keyWrapper     vaultService.KeyWrapper
	keyPairManager vaultService.KeyPairManager
}

// CreateShare re-wraps the entity's DEK under the recipient's public key and
// persists the grant. The owner resolves the DEK through their own session,
// so sharing requires the owner to be unlocked.
func (s *shareUseCase) CreateShare(
	ctx context.Context,
	input *CreateShareInput,
) (*sharingDomain.DataShare, error) {
	if input.RecipientID == input.OwnerID {
		return nil, sharingDomain.ErrSelfShare
	}

	// 1. Recipient must have a public key to wrap under
	recipientPublicKey, err := s.recipientPublicKey(ctx, input.RecipientID)
	if err != nil {
		return nil, err
	}

	// 2. Recover the plaintext DEK through the owner's session
	dek, err := s.dekUseCase.ResolveDek(ctx, input.EntityType, input.EntityID, input.OwnerID, input.OwnerID)
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(dek)

	// 3. Wrap the DEK for the recipient and persist the grant
	wrapped, err := s.keyWrapper.Wrap(recipientPublicKey, dek)
	if err != nil {
		return nil, err
	}

	share := &sharingDomain.DataShare{
		ID:          uuid.Must(uuid.NewV7()),
		EntityID:    input.EntityID,
		EntityType:  input.EntityType,
		OwnerID:     input.OwnerID,
		RecipientID: input.RecipientID,
		WrappedKey:  wrapped,
		Permissions: input.Permissions,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.shareRepo.Create(ctx, share); err != nil {
		return nil, err
	}

	return share, nil
}

// ApplyBlanketShares consults the owner's defaults for the entity type and
// creates a grant per recipient. The caller already holds the plaintext DEK
// from the mint, so no session lookup happens here.
func (s *shareUseCase) ApplyBlanketShares(
	ctx context.Context,
	entityType vaultDomain.EntityType,
	entityID uuid.UUID,
	ownerID uuid.UUID,
	dek []byte,
) ([]*sharingDomain.ShareOutcome, error) {
	defaults, err := s.defaultRepo.ListByOwnerAndType(ctx, ownerID, entityType)
	if err != nil {
		return nil, err
	}

	outcomes := make([]*sharingDomain.ShareOutcome, 0, len(defaults))
	for _, def := range defaults {
		recipientPublicKey, err := s.recipientPublicKey(ctx, def.RecipientID)
		if err != nil {
			// A recipient without a usable key, missing or corrupt, is
			// skipped; only infrastructure failures abort the fan-out.
			if errors.Is(err, sharingDomain.ErrRecipientKeyMissing) ||
				errors.Is(err, sharingDomain.ErrRecipientKeyUnusable) {
				outcomes = append(outcomes, &sharingDomain.ShareOutcome{
					RecipientID: def.RecipientID,
					Status:      sharingDomain.OutcomeSkippedNoKey,
				})
				continue
			}
			return nil, err
		}

		wrapped, err := s.keyWrapper.Wrap(recipientPublicKey, dek)
		if err != nil {
			return nil, err
		}

		share := &sharingDomain.DataShare{
			ID:          uuid.Must(uuid.NewV7()),
			EntityID:    entityID,
			EntityType:  entityType,
			OwnerID:     ownerID,
			RecipientID: def.RecipientID,
			WrappedKey:  wrapped,
			Permissions: def.Permissions,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.shareRepo.Create(ctx, share); err != nil {
			return nil, err
		}

		outcomes = append(outcomes, &sharingDomain.ShareOutcome{
			RecipientID: def.RecipientID,
			Status:      sharingDomain.OutcomeShared,
			Share:       share,
		})
	}

	return outcomes, nil
}

func (s *shareUseCase) ListShares(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*sharingDomain.DataShare, error) {
	return s.shareRepo.ListByEntity(ctx, entityID, entityType)
}

func (s *shareUseCase) UpdatePermissions(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
	permissions sharingDomain.Permissions,
) error {
	return s.shareRepo.UpdatePermissions(ctx, entityID, entityType, recipientID, permissions)
}

func (s *shareUseCase) RevokeShare(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) error {
	return s.shareRepo.Delete(ctx, entityID, entityType, recipientID)
}

func (s *shareUseCase) RevokeAllForEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	return s.shareRepo.DeleteByEntity(ctx, entityID, entityType)
}

// recipientPublicKey loads and parses the recipient's public key, translating
// a missing key pair into ErrRecipientKeyMissing and a stored key that fails
// to parse into ErrRecipientKeyUnusable.
func (s *shareUseCase) recipientPublicKey(ctx context.Context, recipientID uuid.UUID) (*rsa.PublicKey, error) {
	keyPair, err := s.userKeyRepo.Get(ctx, recipientID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, sharingDomain.ErrRecipientKeyMissing
		}
		return nil, err
	}

	publicKey, err := s.keyPairManager.ParsePublicKey(keyPair.PublicKey)
	if err != nil {
		return nil, sharingDomain.ErrRecipientKeyUnusable
	}
	return publicKey, nil
}

// NewShareUseCase creates a new ShareUseCase instance.
func NewShareUseCase(
	shareRepo ShareRepository,
	defaultRepo DefaultRepository,
	userKeyRepo vaultUsecase.UserKeyRepository,
	dekUseCase vaultUsecase.DekUseCase,
	keyWrapper vaultService.KeyWrapper,
	keyPairManager vaultService.KeyPairManager,
) ShareUseCase {
	return &shareUseCase{
		shareRepo:      shareRepo,
		defaultRepo:    defaultRepo,
		userKeyRepo:    userKeyRepo,
		dekUseCase:     dekUseCase,
		keyWrapper:     keyWrapper,
		keyPairManager: keyPairManager,
	}
}
