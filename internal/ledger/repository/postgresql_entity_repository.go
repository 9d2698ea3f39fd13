// Package repository implements persistence for ledger entities.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/database"
	apperrors "github.com/hearthledger/hearthledger/internal/errors"
	ledgerDomain "github.com/hearthledger/hearthledger/internal/ledger/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// PostgreSQLEntityRepository implements entity persistence for PostgreSQL.
// Payloads are stored as JSONB; encrypted field triples travel inside the
// payload like any other JSON value.
type PostgreSQLEntityRepository struct {
	db *sql.DB
}

// NewPostgreSQLEntityRepository creates a new PostgreSQL entity repository.
func NewPostgreSQLEntityRepository(db *sql.DB) *PostgreSQLEntityRepository {
	return &PostgreSQLEntityRepository{db: db}
}

// Create inserts a new entity.
func (p *PostgreSQLEntityRepository) Create(ctx context.Context, entity *ledgerDomain.Entity) error {
	querier := database.GetTx(ctx, p.db)

	payload, err := json.Marshal(entity.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entity payload")
	}

	query := `INSERT INTO entities (id, entity_type, owner_id, is_encrypted, data, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entity.ID,
		entity.Type,
		entity.OwnerID,
		entity.IsEncrypted,
		payload,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return ledgerDomain.ErrEntityExists
		}
		return apperrors.Wrap(err, "failed to create entity")
	}
	return nil
}

// Get retrieves one entity.
func (p *PostgreSQLEntityRepository) Get(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) (*ledgerDomain.Entity, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, entity_type, owner_id, is_encrypted, data, created_at, updated_at
			  FROM entities
			  WHERE id = $1 AND entity_type = $2`

	entity, err := scanEntity(querier.QueryRowContext(ctx, query, entityID, entityType).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledgerDomain.ErrEntityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get entity")
	}
	return entity, nil
}

// ListVisible retrieves entities of one type the user can see: their own plus
// those shared with them, oldest first. Decryptability is decided later, per
// item, by the list decryptor.
func (p *PostgreSQLEntityRepository) ListVisible(
	ctx context.Context,
	userID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*ledgerDomain.Entity, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT e.id, e.entity_type, e.owner_id, e.is_encrypted, e.data, e.created_at, e.updated_at
			  FROM entities e
			  WHERE e.entity_type = $1
				  AND (e.owner_id = $2 OR EXISTS (
					  SELECT 1 FROM data_shares s
					  WHERE s.entity_id = e.id
						  AND s.entity_type = e.entity_type
						  AND s.recipient_id = $2
				  ))
			  ORDER BY e.created_at ASC`

	rows, err := querier.QueryContext(ctx, query, entityType, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list entities")
	}
	defer rows.Close()

	var entities []*ledgerDomain.Entity
	for rows.Next() {
		entity, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan entity")
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate entities")
	}

	return entities, nil
}

// Update replaces the entity payload and encryption flag.
func (p *PostgreSQLEntityRepository) Update(ctx context.Context, entity *ledgerDomain.Entity) error {
	querier := database.GetTx(ctx, p.db)

	payload, err := json.Marshal(entity.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entity payload")
	}

	query := `UPDATE entities
			  SET is_encrypted = $1, data = $2, updated_at = $3
			  WHERE id = $4 AND entity_type = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		entity.IsEncrypted,
		payload,
		entity.UpdatedAt,
		entity.ID,
		entity.Type,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update entity")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return ledgerDomain.ErrEntityNotFound
	}
	return nil
}

// Delete removes the entity row.
func (p *PostgreSQLEntityRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM entities WHERE id = $1 AND entity_type = $2`

	result, err := querier.ExecContext(ctx, query, entityID, entityType)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete entity")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return ledgerDomain.ErrEntityNotFound
	}
	return nil
}

// scanEntity scans one entity row, decoding the JSON payload.
func scanEntity(scan func(dest ...any) error) (*ledgerDomain.Entity, error) {
	var entity ledgerDomain.Entity
	var payload []byte
	err := scan(
		&entity.ID,
		&entity.Type,
		&entity.OwnerID,
		&entity.IsEncrypted,
		&payload,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &entity.Data); err != nil {
		return nil, err
	}
	return &entity, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
