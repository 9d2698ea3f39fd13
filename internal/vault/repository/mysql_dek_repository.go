package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/database"
	apperrors "github.com/hearthledger/hearthledger/internal/errors"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MySQLDekRepository implements DEK persistence for MySQL.
// UUIDs are stored as CHAR(36) and key material as VARBINARY.
type MySQLDekRepository struct {
	db *sql.DB
}

// NewMySQLDekRepository creates a new MySQL DEK repository.
func NewMySQLDekRepository(db *sql.DB) *MySQLDekRepository {
	return &MySQLDekRepository{db: db}
}

// Create inserts a new DEK record.
func (m *MySQLDekRepository) Create(ctx context.Context, dek *vaultDomain.EntityDek) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO entity_deks (entity_id, entity_type, owner_id, wrapped_key, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		dek.EntityID.String(),
		dek.EntityType,
		dek.OwnerID.String(),
		dek.WrappedKey,
		dek.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create dek")
	}
	return nil
}

// Get retrieves the DEK record for an entity.
func (m *MySQLDekRepository) Get(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) (*vaultDomain.EntityDek, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT entity_id, entity_type, owner_id, wrapped_key, created_at
			  FROM entity_deks
			  WHERE entity_id = ? AND entity_type = ?`

	var dek vaultDomain.EntityDek
	var rawEntityID, rawOwnerID string
	err := querier.QueryRowContext(ctx, query, entityID.String(), entityType).Scan(
		&rawEntityID,
		&dek.EntityType,
		&rawOwnerID,
		&dek.WrappedKey,
		&dek.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vaultDomain.ErrDekNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get dek")
	}

	if dek.EntityID, err = uuid.Parse(rawEntityID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse entity id")
	}
	if dek.OwnerID, err = uuid.Parse(rawOwnerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse owner id")
	}

	return &dek, nil
}

// Delete removes the DEK record.
func (m *MySQLDekRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM entity_deks WHERE entity_id = ? AND entity_type = ?`

	_, err := querier.ExecContext(ctx, query, entityID.String(), entityType)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete dek")
	}
	return nil
}
