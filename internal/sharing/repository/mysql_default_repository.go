package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/database"
	apperrors "github.com/hearthledger/hearthledger/internal/errors"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// MySQLDefaultRepository implements sharing default persistence for MySQL.
type MySQLDefaultRepository struct {
	db *sql.DB
}

// NewMySQLDefaultRepository creates a new MySQL sharing default repository.
func NewMySQLDefaultRepository(db *sql.DB) *MySQLDefaultRepository {
	return &MySQLDefaultRepository{db: db}
}

// Upsert creates or replaces the default for (owner, recipient, entity_type).
func (m *MySQLDefaultRepository) Upsert(ctx context.Context, def *sharingDomain.SharingDefault) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO sharing_defaults (id, owner_id, recipient_id, entity_type,
				  can_view, can_combine, can_reports, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE can_view = VALUES(can_view),
				  can_combine = VALUES(can_combine),
				  can_reports = VALUES(can_reports)`

	_, err := querier.ExecContext(
		ctx,
		query,
		def.ID.String(),
		def.OwnerID.String(),
		def.RecipientID.String(),
		def.EntityType,
		def.Permissions.View,
		def.Permissions.Combine,
		def.Permissions.Reports,
		def.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert sharing default")
	}
	return nil
}

// ListByOwnerAndType retrieves the owner's defaults for one entity type,
// oldest first.
func (m *MySQLDefaultRepository) ListByOwnerAndType(
	ctx context.Context,
	ownerID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*sharingDomain.SharingDefault, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, recipient_id, entity_type, can_view, can_combine, can_reports, created_at
			  FROM sharing_defaults
			  WHERE owner_id = ? AND entity_type = ?
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, ownerID.String(), entityType)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list sharing defaults")
	}
	defer rows.Close()

	return collectMySQLDefaults(rows)
}

// ListByOwner retrieves all of the owner's defaults across entity types.
func (m *MySQLDefaultRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.SharingDefault, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, recipient_id, entity_type, can_view, can_combine, can_reports, created_at
			  FROM sharing_defaults
			  WHERE owner_id = ?
			  ORDER BY entity_type ASC, created_at ASC`

	rows, err := querier.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list sharing defaults")
	}
	defer rows.Close()

	return collectMySQLDefaults(rows)
}

// Delete removes the default for (owner, recipient, entity_type).
func (m *MySQLDefaultRepository) Delete(
	ctx context.Context,
	ownerID uuid.UUID,
	recipientID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM sharing_defaults
			  WHERE owner_id = ? AND recipient_id = ? AND entity_type = ?`

	result, err := querier.ExecContext(ctx, query, ownerID.String(), recipientID.String(), entityType)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete sharing default")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return sharingDomain.ErrDefaultNotFound
	}
	return nil
}

func collectMySQLDefaults(rows *sql.Rows) ([]*sharingDomain.SharingDefault, error) {
	var defaults []*sharingDomain.SharingDefault
	for rows.Next() {
		var def sharingDomain.SharingDefault
		var rawID, rawOwnerID, rawRecipientID string
		if err := rows.Scan(
			&rawID,
			&rawOwnerID,
			&rawRecipientID,
			&def.EntityType,
			&def.Permissions.View,
			&def.Permissions.Combine,
			&def.Permissions.Reports,
			&def.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan sharing default")
		}

		var err error
		if def.ID, err = uuid.Parse(rawID); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse default id")
		}
		if def.OwnerID, err = uuid.Parse(rawOwnerID); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse owner id")
		}
		if def.RecipientID, err = uuid.Parse(rawRecipientID); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse recipient id")
		}
		defaults = append(defaults, &def)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate sharing defaults")
	}

	return defaults, nil
}
