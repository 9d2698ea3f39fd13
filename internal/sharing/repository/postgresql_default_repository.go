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

// PostgreSQLDefaultRepository implements sharing default persistence for PostgreSQL.
type PostgreSQLDefaultRepository struct {
	db *sql.DB
}

// NewPostgreSQLDefaultRepository creates a new PostgreSQL sharing default repository.
func NewPostgreSQLDefaultRepository(db *sql.DB) *PostgreSQLDefaultRepository {
	return &PostgreSQLDefaultRepository{db: db}
}

// Upsert creates or replaces the default for (owner, recipient, entity_type).
// Changing a default only affects future entity creations, so replacing in
// place is safe.
func (p *PostgreSQLDefaultRepository) Upsert(ctx context.Context, def *sharingDomain.SharingDefault) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO sharing_defaults (id, owner_id, recipient_id, entity_type,
				  can_view, can_combine, can_reports, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (owner_id, recipient_id, entity_type)
			  DO UPDATE SET can_view = EXCLUDED.can_view,
				  can_combine = EXCLUDED.can_combine,
				  can_reports = EXCLUDED.can_reports`

	_, err := querier.ExecContext(
		ctx,
		query,
		def.ID,
		def.OwnerID,
		def.RecipientID,
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
// oldest first. Consulted once per entity creation.
func (p *PostgreSQLDefaultRepository) ListByOwnerAndType(
	ctx context.Context,
	ownerID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*sharingDomain.SharingDefault, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, recipient_id, entity_type, can_view, can_combine, can_reports, created_at
			  FROM sharing_defaults
			  WHERE owner_id = $1 AND entity_type = $2
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, ownerID, entityType)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list sharing defaults")
	}
	defer rows.Close()

	var defaults []*sharingDomain.SharingDefault
	for rows.Next() {
		var def sharingDomain.SharingDefault
		if err := rows.Scan(
			&def.ID,
			&def.OwnerID,
			&def.RecipientID,
			&def.EntityType,
			&def.Permissions.View,
			&def.Permissions.Combine,
			&def.Permissions.Reports,
			&def.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan sharing default")
		}
		defaults = append(defaults, &def)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate sharing defaults")
	}

	return defaults, nil
}

// ListByOwner retrieves all of the owner's defaults across entity types.
func (p *PostgreSQLDefaultRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.SharingDefault, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, recipient_id, entity_type, can_view, can_combine, can_reports, created_at
			  FROM sharing_defaults
			  WHERE owner_id = $1
			  ORDER BY entity_type ASC, created_at ASC`

	rows, err := querier.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list sharing defaults")
	}
	defer rows.Close()

	var defaults []*sharingDomain.SharingDefault
	for rows.Next() {
		var def sharingDomain.SharingDefault
		if err := rows.Scan(
			&def.ID,
			&def.OwnerID,
			&def.RecipientID,
			&def.EntityType,
			&def.Permissions.View,
			&def.Permissions.Combine,
			&def.Permissions.Reports,
			&def.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan sharing default")
		}
		defaults = append(defaults, &def)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate sharing defaults")
	}

	return defaults, nil
}

// Delete removes the default for (owner, recipient, entity_type). Existing
// shares created from it are untouched.
func (p *PostgreSQLDefaultRepository) Delete(
	ctx context.Context,
	ownerID uuid.UUID,
	recipientID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM sharing_defaults
			  WHERE owner_id = $1 AND recipient_id = $2 AND entity_type = $3`

	result, err := querier.ExecContext(ctx, query, ownerID, recipientID, entityType)
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
