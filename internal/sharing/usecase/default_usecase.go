package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

type defaultUseCase struct {
	defaultRepo DefaultRepository
}

// SetDefault creates or replaces the owner's standing instruction for one
// (recipient, entity type) pair. No key material is touched: the wrap happens
// later, when an entity is actually created.
func (d *defaultUseCase) SetDefault(
	ctx context.Context,
	ownerID uuid.UUID,
	recipientID uuid.UUID,
	entityType vaultDomain.EntityType,
	permissions sharingDomain.Permissions,
) (*sharingDomain.SharingDefault, error) {
	if recipientID == ownerID {
		return nil, sharingDomain.ErrSelfShare
	}

	def := &sharingDomain.SharingDefault{
		ID:          uuid.Must(uuid.NewV7()),
		OwnerID:     ownerID,
		RecipientID: recipientID,
		EntityType:  entityType,
		Permissions: permissions,
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.defaultRepo.Upsert(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

func (d *defaultUseCase) ListDefaults(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.SharingDefault, error) {
	return d.defaultRepo.ListByOwner(ctx, ownerID)
}

func (d *defaultUseCase) DeleteDefault(
	ctx context.Context,
	ownerID uuid.UUID,
	recipientID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	return d.defaultRepo.Delete(ctx, ownerID, recipientID, entityType)
}

// NewDefaultUseCase creates a new DefaultUseCase instance.
func NewDefaultUseCase(defaultRepo DefaultRepository) DefaultUseCase {
	return &defaultUseCase{defaultRepo: defaultRepo}
}
