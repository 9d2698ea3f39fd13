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

// MySQLEntityRepository implements entity persistence for MySQL.
// UUIDs are stored as CHAR(36) and payloads as JSON.
type MySQLEntityRepository struct {
	db *sql.DB
}

// NewMySQLEntityRepository creates a new MySQL entity repository.
func NewMySQLEntityRepository(db *sql.DB) *MySQLEntityRepository {
	return &MySQLEntityRepository{db: db}
}

// Create inserts a new entity.
func (m *MySQLEntityRepository) Create(ctx context.Context, entity *ledgerDomain.Entity) error {
	querier := database.GetTx(ctx, m.db)

	payload, err := json.Marshal(entity.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entity payload")
	}

	query := `INSERT INTO entities (id, entity_type, owner_id, is_encrypted, data, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entity.ID.String(),
		entity.Type,
		entity.OwnerID.String(),
		entity.IsEncrypted,
		payload,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return ledgerDomain.ErrEntityExists
		}
		return apperrors.Wrap(err, "failed to create entity")
	}
	return nil
}

// Get retrieves one entity.
func (m *MySQLEntityRepository) Get(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) (*ledgerDomain.Entity, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, entity_type, owner_id, is_encrypted, data, created_at, updated_at
			  FROM entities
			  WHERE id = ? AND entity_type = ?`

	entity, err := scanMySQLEntity(querier.QueryRowContext(ctx, query, entityID.String(), entityType).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledgerDomain.ErrEntityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get entity")
	}
	return entity, nil
}

// ListVisible retrieves entities of one type the user can see: their own plus
// those shared with them, oldest first.
func (m *MySQLEntityRepository) ListVisible(
	ctx context.Context,
	userID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*ledgerDomain.Entity, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT e.id, e.entity_type, e.owner_id, e.is_encrypted, e.data, e.created_at, e.updated_at
			  FROM entities e
			  WHERE e.entity_type = ?
				  AND (e.owner_id = ? OR EXISTS (
					  SELECT 1 FROM data_shares s
					  WHERE s.entity_id = e.id
						  AND s.entity_type = e.entity_type
						  AND s.recipient_id = ?
				  ))
			  ORDER BY e.created_at ASC`

	rows, err := querier.QueryContext(ctx, query, entityType, userID.String(), userID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list entities")
	}
	defer rows.Close()

	var entities []*ledgerDomain.Entity
	for rows.Next() {
		entity, err := scanMySQLEntity(rows.Scan)
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
func (m *MySQLEntityRepository) Update(ctx context.Context, entity *ledgerDomain.Entity) error {
	querier := database.GetTx(ctx, m.db)

	payload, err := json.Marshal(entity.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entity payload")
	}

	query := `UPDATE entities
			  SET is_encrypted = ?, data = ?, updated_at = ?
			  WHERE id = ? AND entity_type = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		entity.IsEncrypted,
		payload,
		entity.UpdatedAt,
		entity.ID.String(),
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
func (m *MySQLEntityRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM entities WHERE id = ? AND entity_type = ?`

	result, err := querier.ExecContext(ctx, query, entityID.String(), entityType)
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

// scanMySQLEntity scans one entity row, parsing CHAR(36) UUID columns and the
// JSON payload.
func scanMySQLEntity(scan func(dest ...any) error) (*ledgerDomain.Entity, error) {
	var entity ledgerDomain.Entity
	var rawID, rawOwnerID string
	var payload []byte
	err := scan(
		&rawID,
		&entity.Type,
		&rawOwnerID,
		&entity.IsEncrypted,
		&payload,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if entity.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if entity.OwnerID, err = uuid.Parse(rawOwnerID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &entity.Data); err != nil {
		return nil, err
	}
	return &entity, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
