package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

func testDefault() *sharingDomain.SharingDefault {
	return &sharingDomain.SharingDefault{
		ID:          uuid.Must(uuid.NewV7()),
		OwnerID:     uuid.Must(uuid.NewV7()),
		RecipientID: uuid.Must(uuid.NewV7()),
		EntityType:  vaultDomain.EntityTypeTransaction,
		Permissions: sharingDomain.Permissions{View: true},
		CreatedAt:   time.Now().UTC(),
	}
}

func TestPostgreSQLDefaultRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLDefaultRepository(db)
	def := testDefault()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sharing_defaults")).
		WithArgs(
			def.ID, def.OwnerID, def.RecipientID, def.EntityType,
			true, false, false, def.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Upsert(context.Background(), def))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDefaultRepository_ListByOwnerAndType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLDefaultRepository(db)
	def := testDefault()

	t.Run("returns defaults", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "owner_id", "recipient_id", "entity_type",
			"can_view", "can_combine", "can_reports", "created_at",
		}).AddRow(def.ID, def.OwnerID, def.RecipientID, def.EntityType, true, false, false, def.CreatedAt)

		mock.ExpectQuery(regexp.QuoteMeta("FROM sharing_defaults")).
			WithArgs(def.OwnerID, def.EntityType).
			WillReturnRows(rows)

		defaults, err := repo.ListByOwnerAndType(context.Background(), def.OwnerID, def.EntityType)
		require.NoError(t, err)
		require.Len(t, defaults, 1)
		assert.Equal(t, def.RecipientID, defaults[0].RecipientID)
		assert.True(t, defaults[0].Permissions.View)
	})

	t.Run("no defaults is an empty list", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "owner_id", "recipient_id", "entity_type",
			"can_view", "can_combine", "can_reports", "created_at",
		})

		mock.ExpectQuery(regexp.QuoteMeta("FROM sharing_defaults")).
			WithArgs(def.OwnerID, vaultDomain.EntityTypeAccount).
			WillReturnRows(rows)

		defaults, err := repo.ListByOwnerAndType(context.Background(), def.OwnerID, vaultDomain.EntityTypeAccount)
		require.NoError(t, err)
		assert.Empty(t, defaults)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDefaultRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLDefaultRepository(db)
	def := testDefault()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sharing_defaults")).
			WithArgs(def.OwnerID, def.RecipientID, def.EntityType).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), def.OwnerID, def.RecipientID, def.EntityType))
	})

	t.Run("no such default", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sharing_defaults")).
			WithArgs(def.OwnerID, def.RecipientID, def.EntityType).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), def.OwnerID, def.RecipientID, def.EntityType)
		assert.ErrorIs(t, err, sharingDomain.ErrDefaultNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
