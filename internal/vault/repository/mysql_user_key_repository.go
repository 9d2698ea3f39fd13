package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/database"
	apperrors "github.com/hearthledger/hearthledger/internal/errors"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MySQLUserKeyRepository implements user key pair persistence for MySQL.
type MySQLUserKeyRepository struct {
	db *sql.DB
}

// NewMySQLUserKeyRepository creates a new MySQL user key repository.
func NewMySQLUserKeyRepository(db *sql.DB) *MySQLUserKeyRepository {
	return &MySQLUserKeyRepository{db: db}
}

// Create inserts a user's key pair.
func (m *MySQLUserKeyRepository) Create(ctx context.Context, keyPair *vaultDomain.UserKeyPair) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO user_keys (user_id, public_key, encrypted_private_key, salt, nonce, password_hash, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		keyPair.UserID.String(),
		keyPair.PublicKey,
		keyPair.EncryptedPrivateKey,
		keyPair.Salt,
		keyPair.Nonce,
		keyPair.PasswordHash,
		keyPair.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create user keys")
	}
	return nil
}

// Get retrieves a user's key pair.
func (m *MySQLUserKeyRepository) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*vaultDomain.UserKeyPair, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT user_id, public_key, encrypted_private_key, salt, nonce, password_hash, created_at
			  FROM user_keys
			  WHERE user_id = ?`

	var keyPair vaultDomain.UserKeyPair
	var rawUserID string
	err := querier.QueryRowContext(ctx, query, userID.String()).Scan(
		&rawUserID,
		&keyPair.PublicKey,
		&keyPair.EncryptedPrivateKey,
		&keyPair.Salt,
		&keyPair.Nonce,
		&keyPair.PasswordHash,
		&keyPair.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vaultDomain.ErrUserKeysNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user keys")
	}

	if keyPair.UserID, err = uuid.Parse(rawUserID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse user id")
	}

	return &keyPair, nil
}
