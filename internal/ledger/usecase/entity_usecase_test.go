package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dbMocks "github.com/hearthledger/hearthledger/internal/database/mocks"
	ledgerDomain "github.com/hearthledger/hearthledger/internal/ledger/domain"
	"github.com/hearthledger/hearthledger/internal/ledger/usecase"
	ledgerMocks "github.com/hearthledger/hearthledger/internal/ledger/usecase/mocks"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	sharingMocks "github.com/hearthledger/hearthledger/internal/sharing/usecase/mocks"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
	"github.com/hearthledger/hearthledger/internal/vault/service"
)

type entityFixture struct {
	entityRepo   *ledgerMocks.MockEntityRepository
	dekUseCase   *sharingMocks.MockDekUseCase
	shareUseCase *ledgerMocks.MockShareUseCase
	useCase      usecase.EntityUseCase

	ownerID uuid.UUID
	dek     []byte
}

func newEntityFixture(t *testing.T) *entityFixture {
	t.Helper()

	dek, err := service.GenerateDek()
	require.NoError(t, err)

	f := &entityFixture{
		entityRepo:   &ledgerMocks.MockEntityRepository{},
		dekUseCase:   &sharingMocks.MockDekUseCase{},
		shareUseCase: &ledgerMocks.MockShareUseCase{},
		ownerID:      uuid.Must(uuid.NewV7()),
		dek:          dek,
	}
	f.useCase = usecase.NewEntityUseCase(
		dbMocks.NewMockTxManager(), f.entityRepo, f.dekUseCase, f.shareUseCase, service.NewFieldCodec(),
	)
	return f
}

// dekCopy returns a fresh copy because the use case zeroes resolved DEKs.
func (f *entityFixture) dekCopy() []byte {
	c := make([]byte, len(f.dek))
	copy(c, f.dek)
	return c
}

// encryptedAccount builds a stored encrypted account entity for the fixture DEK.
func (f *entityFixture) encryptedAccount(t *testing.T, name string, balance float64) *ledgerDomain.Entity {
	t.Helper()

	codec := service.NewFieldCodec()
	data, err := codec.Encrypt(vaultDomain.EntityTypeAccount, map[string]any{
		"name":     name,
		"balance":  balance,
		"currency": "USD",
	}, f.dek)
	require.NoError(t, err)

	return &ledgerDomain.Entity{
		ID:          uuid.Must(uuid.NewV7()),
		Type:        vaultDomain.EntityTypeAccount,
		OwnerID:     f.ownerID,
		IsEncrypted: true,
		Data:        data,
	}
}

func TestEntityUseCase_CreateEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Encrypted create seals sensitive fields and applies defaults", func(t *testing.T) {
		f := newEntityFixture(t)
		input := &usecase.CreateEntityInput{
			Type:    vaultDomain.EntityTypeAccount,
			OwnerID: f.ownerID,
			Data:    map[string]any{"name": "checking", "balance": 1500.5, "currency": "USD"},
			Encrypt: true,
		}

		f.dekUseCase.On("CreateEntityDek", ctx, vaultDomain.EntityTypeAccount, mock.Anything, f.ownerID).
			Return(f.dekCopy(), nil)

		var stored *ledgerDomain.Entity
		f.entityRepo.On("Create", ctx, mock.MatchedBy(func(entity *ledgerDomain.Entity) bool {
			stored = entity
			return entity.IsEncrypted && entity.OwnerID == f.ownerID
		})).Return(nil)

		recipientID := uuid.Must(uuid.NewV7())
		f.shareUseCase.On("ApplyBlanketShares",
			ctx, vaultDomain.EntityTypeAccount, mock.Anything, f.ownerID, mock.Anything).
			Return([]*sharingDomain.ShareOutcome{
				{RecipientID: recipientID, Status: sharingDomain.OutcomeShared},
			}, nil)

		entity, outcomes, err := f.useCase.CreateEntity(ctx, input)

		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		assert.Equal(t, sharingDomain.OutcomeShared, outcomes[0].Status)

		// Caller sees plaintext; storage sees triples
		assert.Equal(t, "checking", entity.Data["name"])
		assert.NotEqual(t, "checking", stored.Data["name"])
		assert.Equal(t, "USD", stored.Data["currency"])

		// Stored triples decrypt back to the input
		decrypted := service.NewFieldCodec().Decrypt(vaultDomain.EntityTypeAccount, stored.Data, f.dek)
		assert.Equal(t, "checking", decrypted["name"])
		assert.Equal(t, 1500.5, decrypted["balance"])
	})

	t.Run("Locked session fails the whole create", func(t *testing.T) {
		f := newEntityFixture(t)
		input := &usecase.CreateEntityInput{
			Type:    vaultDomain.EntityTypeAccount,
			OwnerID: f.ownerID,
			Data:    map[string]any{"name": "checking"},
			Encrypt: true,
		}

		f.dekUseCase.On("CreateEntityDek", ctx, vaultDomain.EntityTypeAccount, mock.Anything, f.ownerID).
			Return(nil, vaultDomain.ErrSessionLocked)

		_, _, err := f.useCase.CreateEntity(ctx, input)

		assert.ErrorIs(t, err, vaultDomain.ErrSessionLocked)
		f.entityRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.shareUseCase.AssertNotCalled(t, "ApplyBlanketShares",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Plaintext create skips DEK and shares", func(t *testing.T) {
		f := newEntityFixture(t)
		input := &usecase.CreateEntityInput{
			Type:    vaultDomain.EntityTypeAccount,
			OwnerID: f.ownerID,
			Data:    map[string]any{"name": "cash jar"},
			Encrypt: false,
		}

		f.entityRepo.On("Create", ctx, mock.MatchedBy(func(entity *ledgerDomain.Entity) bool {
			return !entity.IsEncrypted && entity.Data["name"] == "cash jar"
		})).Return(nil)

		entity, outcomes, err := f.useCase.CreateEntity(ctx, input)

		require.NoError(t, err)
		assert.Empty(t, outcomes)
		assert.False(t, entity.IsEncrypted)
		f.dekUseCase.AssertNotCalled(t, "CreateEntityDek",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEntityUseCase_GetEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner reads decrypted entity", func(t *testing.T) {
		f := newEntityFixture(t)
		entity := f.encryptedAccount(t, "savings", 9000)

		f.entityRepo.On("Get", ctx, entity.ID, entity.Type).Return(entity, nil)
		f.dekUseCase.On("ResolveDek", ctx, entity.Type, entity.ID, f.ownerID, f.ownerID).
			Return(f.dekCopy(), nil)

		got, err := f.useCase.GetEntity(ctx, entity.ID, entity.Type, f.ownerID)

		require.NoError(t, err)
		assert.Equal(t, "savings", got.Data["name"])
		assert.Equal(t, float64(9000), got.Data["balance"])
		assert.Equal(t, "USD", got.Data["currency"])
	})

	t.Run("Locked session propagates", func(t *testing.T) {
		f := newEntityFixture(t)
		entity := f.encryptedAccount(t, "savings", 9000)

		f.entityRepo.On("Get", ctx, entity.ID, entity.Type).Return(entity, nil)
		f.dekUseCase.On("ResolveDek", ctx, entity.Type, entity.ID, f.ownerID, f.ownerID).
			Return(nil, vaultDomain.ErrSessionLocked)

		_, err := f.useCase.GetEntity(ctx, entity.ID, entity.Type, f.ownerID)

		assert.ErrorIs(t, err, vaultDomain.ErrSessionLocked)
	})

	t.Run("Stranger gets no access", func(t *testing.T) {
		f := newEntityFixture(t)
		entity := f.encryptedAccount(t, "savings", 9000)
		strangerID := uuid.Must(uuid.NewV7())

		f.entityRepo.On("Get", ctx, entity.ID, entity.Type).Return(entity, nil)
		f.dekUseCase.On("ResolveDek", ctx, entity.Type, entity.ID, f.ownerID, strangerID).
			Return(nil, vaultDomain.ErrNoAccess)

		_, err := f.useCase.GetEntity(ctx, entity.ID, entity.Type, strangerID)

		assert.ErrorIs(t, err, vaultDomain.ErrNoAccess)
	})

	t.Run("Plaintext entity skips key resolution", func(t *testing.T) {
		f := newEntityFixture(t)
		entity := &ledgerDomain.Entity{
			ID:      uuid.Must(uuid.NewV7()),
			Type:    vaultDomain.EntityTypeAccount,
			OwnerID: f.ownerID,
			Data:    map[string]any{"name": "cash jar"},
		}

		f.entityRepo.On("Get", ctx, entity.ID, entity.Type).Return(entity, nil)

		got, err := f.useCase.GetEntity(ctx, entity.ID, entity.Type, f.ownerID)

		require.NoError(t, err)
		assert.Equal(t, "cash jar", got.Data["name"])
		f.dekUseCase.AssertNotCalled(t, "ResolveDek",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEntityUseCase_ListEntities(t *testing.T) {
	ctx := context.Background()

	t.Run("Includes decryptable and plaintext, excludes the rest", func(t *testing.T) {
		f := newEntityFixture(t)

		readable := f.encryptedAccount(t, "checking", 100)
		plaintext := &ledgerDomain.Entity{
			ID:      uuid.Must(uuid.NewV7()),
			Type:    vaultDomain.EntityTypeAccount,
			OwnerID: f.ownerID,
			Data:    map[string]any{"name": "cash jar"},
		}
		blocked := f.encryptedAccount(t, "hidden", 5000)
		blocked.OwnerID = uuid.Must(uuid.NewV7())

		f.entityRepo.On("ListVisible", ctx, f.ownerID, vaultDomain.EntityTypeAccount).
			Return([]*ledgerDomain.Entity{readable, plaintext, blocked}, nil)
		f.dekUseCase.On("ResolveDek", mock.Anything, readable.Type, readable.ID, f.ownerID, f.ownerID).
			Return(f.dekCopy(), nil)
		f.dekUseCase.On("ResolveDek", mock.Anything, blocked.Type, blocked.ID, blocked.OwnerID, f.ownerID).
			Return(nil, vaultDomain.ErrNoAccess)

		entities, err := f.useCase.ListEntities(ctx, f.ownerID, vaultDomain.EntityTypeAccount)

		require.NoError(t, err)
		require.Len(t, entities, 2)
		assert.Equal(t, readable.ID, entities[0].ID)
		assert.Equal(t, "checking", entities[0].Data["name"])
		assert.Equal(t, plaintext.ID, entities[1].ID)
	})

	t.Run("Locked session yields only plaintext items", func(t *testing.T) {
		f := newEntityFixture(t)

		encrypted := f.encryptedAccount(t, "checking", 100)
		plaintext := &ledgerDomain.Entity{
			ID:      uuid.Must(uuid.NewV7()),
			Type:    vaultDomain.EntityTypeAccount,
			OwnerID: f.ownerID,
			Data:    map[string]any{"name": "cash jar"},
		}

		f.entityRepo.On("ListVisible", ctx, f.ownerID, vaultDomain.EntityTypeAccount).
			Return([]*ledgerDomain.Entity{encrypted, plaintext}, nil)
		f.dekUseCase.On("ResolveDek", mock.Anything, encrypted.Type, encrypted.ID, f.ownerID, f.ownerID).
			Return(nil, vaultDomain.ErrSessionLocked)

		entities, err := f.useCase.ListEntities(ctx, f.ownerID, vaultDomain.EntityTypeAccount)

		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, plaintext.ID, entities[0].ID)
	})

	t.Run("No authenticated user yields only plaintext items", func(t *testing.T) {
		f := newEntityFixture(t)

		encrypted := f.encryptedAccount(t, "checking", 100)
		plaintext := &ledgerDomain.Entity{
			ID:      uuid.Must(uuid.NewV7()),
			Type:    vaultDomain.EntityTypeAccount,
			OwnerID: f.ownerID,
			Data:    map[string]any{"name": "cash jar"},
		}

		f.entityRepo.On("ListVisible", ctx, uuid.Nil, vaultDomain.EntityTypeAccount).
			Return([]*ledgerDomain.Entity{encrypted, plaintext}, nil)

		entities, err := f.useCase.ListEntities(ctx, uuid.Nil, vaultDomain.EntityTypeAccount)

		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, plaintext.ID, entities[0].ID)
		f.dekUseCase.AssertNotCalled(t, "ResolveDek")
	})

	t.Run("Empty list", func(t *testing.T) {
		f := newEntityFixture(t)
		f.entityRepo.On("ListVisible", ctx, f.ownerID, vaultDomain.EntityTypeAccount).
			Return([]*ledgerDomain.Entity{}, nil)

		entities, err := f.useCase.ListEntities(ctx, f.ownerID, vaultDomain.EntityTypeAccount)

		require.NoError(t, err)
		assert.Empty(t, entities)
	})
}

func TestEntityUseCase_UpdateEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner update re-encrypts under the same DEK", func(t *testing.T) {
		f := newEntityFixture(t)
		entity := f.encryptedAccount(t, "old name", 100)

		f.entityRepo.On("Get", ctx, entity.ID, entity.Type).Return(entity, nil)
		f.dekUseCase.On("ResolveDek", ctx, entity.Type, entity.ID, f.ownerID, f.ownerID).
			Return(f.dekCopy(), nil)

		var stored *ledgerDomain.Entity
		f.entityRepo.On("Update", ctx, mock.MatchedBy(func(e *ledgerDomain.Entity) bool {
			stored = e
			return e.ID == entity.ID
		})).Return(nil)

		updated, err := f.useCase.UpdateEntity(ctx, entity.ID, entity.Type, f.ownerID, map[string]any{
			"name":     "new name",
			"balance":  250.0,
			"currency": "EUR",
		})

		require.NoError(t, err)
		assert.Equal(t, "new name", updated.Data["name"])

		decrypted := service.NewFieldCodec().Decrypt(vaultDomain.EntityTypeAccount, stored.Data, f.dek)
		assert.Equal(t, "new name", decrypted["name"])
		assert.Equal(t, 250.0, decrypted["balance"])
	})

	t.Run("Non-owner cannot update", func(t *testing.T) {
		f := newEntityFixture(t)
		entity := f.encryptedAccount(t, "old name", 100)
		strangerID := uuid.Must(uuid.NewV7())

		f.entityRepo.On("Get", ctx, entity.ID, entity.Type).Return(entity, nil)

		_, err := f.useCase.UpdateEntity(ctx, entity.ID, entity.Type, strangerID, map[string]any{"name": "x"})

		assert.ErrorIs(t, err, ledgerDomain.ErrNotOwner)
		f.entityRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestEntityUseCase_DeleteEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner delete cascades shares and DEK", func(t *testing.T) {
		f := newEntityFixture(t)
		entity := f.encryptedAccount(t, "gone", 0)

		f.entityRepo.On("Get", ctx, entity.ID, entity.Type).Return(entity, nil)
		f.shareUseCase.On("RevokeAllForEntity", ctx, entity.ID, entity.Type).Return(nil)
		f.dekUseCase.On("DeleteEntityDek", ctx, entity.ID, entity.Type).Return(nil)
		f.entityRepo.On("Delete", ctx, entity.ID, entity.Type).Return(nil)

		require.NoError(t, f.useCase.DeleteEntity(ctx, entity.ID, entity.Type, f.ownerID))
		f.shareUseCase.AssertExpectations(t)
		f.dekUseCase.AssertExpectations(t)
		f.entityRepo.AssertExpectations(t)
	})

	t.Run("Non-owner cannot delete", func(t *testing.T) {
		f := newEntityFixture(t)
		entity := f.encryptedAccount(t, "gone", 0)
		strangerID := uuid.Must(uuid.NewV7())

		f.entityRepo.On("Get", ctx, entity.ID, entity.Type).Return(entity, nil)

		err := f.useCase.DeleteEntity(ctx, entity.ID, entity.Type, strangerID)

		assert.ErrorIs(t, err, ledgerDomain.ErrNotOwner)
		f.entityRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}
