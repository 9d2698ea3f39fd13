package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

func TestPostgreSQLUserKeyRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLUserKeyRepository(db)

	keyPair := &vaultDomain.UserKeyPair{
		UserID:              uuid.Must(uuid.NewV7()),
		PublicKey:           []byte("public-pem"),
		EncryptedPrivateKey: []byte("sealed-private"),
		Salt:                []byte("salt"),
		Nonce:               []byte("nonce"),
		PasswordHash:        "hash",
		CreatedAt:           time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_keys")).
		WithArgs(
			keyPair.UserID,
			keyPair.PublicKey,
			keyPair.EncryptedPrivateKey,
			keyPair.Salt,
			keyPair.Nonce,
			keyPair.PasswordHash,
			keyPair.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), keyPair)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserKeyRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLUserKeyRepository(db)

	userID := uuid.Must(uuid.NewV7())

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"user_id", "public_key", "encrypted_private_key", "salt", "nonce", "password_hash", "created_at",
		}).AddRow(userID, []byte("pub"), []byte("sealed"), []byte("salt"), []byte("nonce"), "hash", time.Now().UTC())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, public_key, encrypted_private_key")).
			WithArgs(userID).
			WillReturnRows(rows)

		keyPair, err := repo.Get(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, userID, keyPair.UserID)
		assert.Equal(t, []byte("pub"), keyPair.PublicKey)
		assert.Equal(t, "hash", keyPair.PasswordHash)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, public_key, encrypted_private_key")).
			WithArgs(userID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), userID)
		assert.ErrorIs(t, err, vaultDomain.ErrUserKeysNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
