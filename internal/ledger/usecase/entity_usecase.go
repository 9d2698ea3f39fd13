package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hearthledger/hearthledger/internal/database"
	ledgerDomain "github.com/hearthledger/hearthledger/internal/ledger/domain"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	sharingUsecase "github.com/hearthledger/hearthledger/internal/sharing/usecase"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
	vaultService "github.com/hearthledger/hearthledger/internal/vault/service"
	vaultUsecase "github.com/hearthledger/hearthledger/internal/vault/usecase"
)

// listDecryptConcurrency bounds the worker count for bulk list decryption.
const listDecryptConcurrency = 8

type entityUseCase struct {
	txManager    database.TxManager
	entityRepo   EntityRepository
	dekUseCase   vaultUsecase.DekUseCase
	shareUseCase sharingUsecase.ShareUseCase
	fieldCodec   vaultService.FieldCodec
}

// CreateEntity persists a new entity. For encrypted entities the DEK mint,
// field encryption, row insert, and blanket share fan-out run in one
// transaction so a locked session leaves nothing behind.
func (e *entityUseCase) CreateEntity(
	ctx context.Context,
	input *CreateEntityInput,
) (*ledgerDomain.Entity, []*sharingDomain.ShareOutcome, error) {
	now := time.Now().UTC()
	entity := &ledgerDomain.Entity{
		ID:          uuid.Must(uuid.NewV7()),
		Type:        input.Type,
		OwnerID:     input.OwnerID,
		IsEncrypted: input.Encrypt,
		Data:        input.Data,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if !input.Encrypt {
		if err := e.entityRepo.Create(ctx, entity); err != nil {
			return nil, nil, err
		}
		return entity, nil, nil
	}

	var outcomes []*sharingDomain.ShareOutcome
	err := e.txManager.WithTx(ctx, func(ctx context.Context) error {
		dek, err := e.dekUseCase.CreateEntityDek(ctx, input.Type, entity.ID, input.OwnerID)
		if err != nil {
			return err
		}
		defer vaultDomain.Zero(dek)

		encrypted, err := e.fieldCodec.Encrypt(input.Type, input.Data, dek)
		if err != nil {
			return err
		}

		stored := *entity
		stored.Data = encrypted
		if err := e.entityRepo.Create(ctx, &stored); err != nil {
			return err
		}

		outcomes, err = e.shareUseCase.ApplyBlanketShares(ctx, input.Type, entity.ID, input.OwnerID, dek)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	// Return the caller's plaintext view, not the stored triples
	return entity, outcomes, nil
}

// GetEntity returns the decrypted entity for the requesting user.
func (e *entityUseCase) GetEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
) (*ledgerDomain.Entity, error) {
	entity, err := e.entityRepo.Get(ctx, entityID, entityType)
	if err != nil {
		return nil, err
	}

	if !entity.IsEncrypted {
		if entity.OwnerID != userID {
			return nil, vaultDomain.ErrNoAccess
		}
		return entity, nil
	}

	dek, err := e.dekUseCase.ResolveDek(ctx, entityType, entityID, entity.OwnerID, userID)
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(dek)

	entity.Data = e.fieldCodec.Decrypt(entityType, entity.Data, dek)
	return entity, nil
}

// ListEntities fetches every visible entity of the type and decrypts them in
// parallel. Items the user cannot decrypt right now are dropped, not errored:
// a locked session yields a shorter list, never a failed one.
func (e *entityUseCase) ListEntities(
	ctx context.Context,
	userID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*ledgerDomain.Entity, error) {
	entities, err := e.entityRepo.ListVisible(ctx, userID, entityType)
	if err != nil {
		return nil, err
	}

	return e.decryptEntityList(ctx, entityType, entities, userID)
}

// decryptEntityList resolves and decrypts each encrypted item for the user.
// Without an authenticated user only plaintext items survive. Each per-item
// outcome is binary: decrypted-and-included or excluded.
func (e *entityUseCase) decryptEntityList(
	ctx context.Context,
	entityType vaultDomain.EntityType,
	entities []*ledgerDomain.Entity,
	userID uuid.UUID,
) ([]*ledgerDomain.Entity, error) {
	if userID == uuid.Nil {
		plaintext := make([]*ledgerDomain.Entity, 0, len(entities))
		for _, entity := range entities {
			if !entity.IsEncrypted {
				plaintext = append(plaintext, entity)
			}
		}
		return plaintext, nil
	}

	results := make([]*ledgerDomain.Entity, len(entities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listDecryptConcurrency)

	for i, entity := range entities {
		g.Go(func() error {
			if !entity.IsEncrypted {
				results[i] = entity
				return nil
			}

			dek, err := e.dekUseCase.ResolveDek(gctx, entityType, entity.ID, entity.OwnerID, userID)
			if err != nil {
				// Undecryptable items are excluded, whatever the reason
				slog.Debug("excluding entity from list",
					"entity_id", entity.ID,
					"entity_type", entityType,
					"error", err,
				)
				return nil
			}
			defer vaultDomain.Zero(dek)

			entity.Data = e.fieldCodec.Decrypt(entityType, entity.Data, dek)
			results[i] = entity
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Keep input order, drop the holes left by excluded items
	decrypted := make([]*ledgerDomain.Entity, 0, len(results))
	for _, entity := range results {
		if entity != nil {
			decrypted = append(decrypted, entity)
		}
	}
	return decrypted, nil
}

// UpdateEntity replaces the payload, re-encrypting under the existing DEK for
// encrypted entities. The DEK never rotates on update.
func (e *entityUseCase) UpdateEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
	data map[string]any,
) (*ledgerDomain.Entity, error) {
	entity, err := e.entityRepo.Get(ctx, entityID, entityType)
	if err != nil {
		return nil, err
	}
	if entity.OwnerID != userID {
		return nil, ledgerDomain.ErrNotOwner
	}

	entity.UpdatedAt = time.Now().UTC()

	if !entity.IsEncrypted {
		entity.Data = data
		if err := e.entityRepo.Update(ctx, entity); err != nil {
			return nil, err
		}
		return entity, nil
	}

	dek, err := e.dekUseCase.ResolveDek(ctx, entityType, entityID, entity.OwnerID, userID)
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(dek)

	encrypted, err := e.fieldCodec.Encrypt(entityType, data, dek)
	if err != nil {
		return nil, err
	}

	stored := *entity
	stored.Data = encrypted
	if err := e.entityRepo.Update(ctx, &stored); err != nil {
		return nil, err
	}

	entity.Data = data
	return entity, nil
}

// DeleteEntity removes the entity, its DEK record, and all of its shares in
// one transaction.
func (e *entityUseCase) DeleteEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
) error {
	entity, err := e.entityRepo.Get(ctx, entityID, entityType)
	if err != nil {
		return err
	}
	if entity.OwnerID != userID {
		return ledgerDomain.ErrNotOwner
	}

	return e.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := e.shareUseCase.RevokeAllForEntity(ctx, entityID, entityType); err != nil {
			return err
		}
		if err := e.dekUseCase.DeleteEntityDek(ctx, entityID, entityType); err != nil {
			return err
		}
		return e.entityRepo.Delete(ctx, entityID, entityType)
	})
}

// NewEntityUseCase creates a new EntityUseCase instance.
func NewEntityUseCase(
	txManager database.TxManager,
	entityRepo EntityRepository,
	dekUseCase vaultUsecase.DekUseCase,
	shareUseCase sharingUsecase.ShareUseCase,
	fieldCodec vaultService.FieldCodec,
) EntityUseCase {
	return &entityUseCase{
		txManager:    txManager,
		entityRepo:   entityRepo,
		dekUseCase:   dekUseCase,
		shareUseCase: shareUseCase,
		fieldCodec:   fieldCodec,
	}
}
