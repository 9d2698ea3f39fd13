package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/database"
	apperrors "github.com/hearthledger/hearthledger/internal/errors"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// PostgreSQLUserKeyRepository implements user key pair persistence for PostgreSQL.
type PostgreSQLUserKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserKeyRepository creates a new PostgreSQL user key repository.
func NewPostgreSQLUserKeyRepository(db *sql.DB) *PostgreSQLUserKeyRepository {
	return &PostgreSQLUserKeyRepository{db: db}
}

// Create inserts a user's key pair. user_id is the primary key; a second
// insert for the same user conflicts.
func (p *PostgreSQLUserKeyRepository) Create(ctx context.Context, keyPair *vaultDomain.UserKeyPair) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO user_keys (user_id, public_key, encrypted_private_key, salt, nonce, password_hash, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		keyPair.UserID,
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
func (p *PostgreSQLUserKeyRepository) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*vaultDomain.UserKeyPair, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT user_id, public_key, encrypted_private_key, salt, nonce, password_hash, created_at
			  FROM user_keys
			  WHERE user_id = $1`

	var keyPair vaultDomain.UserKeyPair
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&keyPair.UserID,
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

	return &keyPair, nil
}
