// Package repository implements persistence for DEK records and user key pairs.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/database"
	apperrors "github.com/hearthledger/hearthledger/internal/errors"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// PostgreSQLDekRepository implements DEK persistence for PostgreSQL.
// Uses native UUID and BYTEA types with transaction support via database.GetTx().
type PostgreSQLDekRepository struct {
	db *sql.DB
}

// NewPostgreSQLDekRepository creates a new PostgreSQL DEK repository.
func NewPostgreSQLDekRepository(db *sql.DB) *PostgreSQLDekRepository {
	return &PostgreSQLDekRepository{db: db}
}

// Create inserts a new DEK record. The (entity_id, entity_type) primary key
// enforces the one-DEK-per-entity invariant.
func (p *PostgreSQLDekRepository) Create(ctx context.Context, dek *vaultDomain.EntityDek) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO entity_deks (entity_id, entity_type, owner_id, wrapped_key, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		dek.EntityID,
		dek.EntityType,
		dek.OwnerID,
		dek.WrappedKey,
		dek.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create dek")
	}
	return nil
}

// Get retrieves the DEK record for an entity.
func (p *PostgreSQLDekRepository) Get(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) (*vaultDomain.EntityDek, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT entity_id, entity_type, owner_id, wrapped_key, created_at
			  FROM entity_deks
			  WHERE entity_id = $1 AND entity_type = $2`

	var dek vaultDomain.EntityDek
	err := querier.QueryRowContext(ctx, query, entityID, entityType).Scan(
		&dek.EntityID,
		&dek.EntityType,
		&dek.OwnerID,
		&dek.WrappedKey,
		&dek.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vaultDomain.ErrDekNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get dek")
	}

	return &dek, nil
}

// Delete removes the DEK record; called only when the entity itself is destroyed.
func (p *PostgreSQLDekRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM entity_deks WHERE entity_id = $1 AND entity_type = $2`

	_, err := querier.ExecContext(ctx, query, entityID, entityType)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete dek")
	}
	return nil
}
