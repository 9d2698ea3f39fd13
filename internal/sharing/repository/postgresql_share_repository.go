// Package repository implements persistence for data shares and sharing defaults.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/database"
	apperrors "github.com/hearthledger/hearthledger/internal/errors"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// PostgreSQLShareRepository implements data share persistence for PostgreSQL.
// Uses native UUID and BYTEA types with transaction support via database.GetTx().
type PostgreSQLShareRepository struct {
	db *sql.DB
}

// NewPostgreSQLShareRepository creates a new PostgreSQL share repository.
func NewPostgreSQLShareRepository(db *sql.DB) *PostgreSQLShareRepository {
	return &PostgreSQLShareRepository{db: db}
}

// Create inserts a new data share. The unique index on
// (entity_id, entity_type, recipient_id) enforces one share per recipient.
func (p *PostgreSQLShareRepository) Create(ctx context.Context, share *sharingDomain.DataShare) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO data_shares (id, entity_id, entity_type, owner_id, recipient_id, wrapped_key,
				  can_view, can_combine, can_reports, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		share.ID,
		share.EntityID,
		share.EntityType,
		share.OwnerID,
		share.RecipientID,
		share.WrappedKey,
		share.Permissions.View,
		share.Permissions.Combine,
		share.Permissions.Reports,
		share.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return sharingDomain.ErrShareExists
		}
		return apperrors.Wrap(err, "failed to create share")
	}
	return nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// GetByEntityAndRecipient retrieves the share granting recipientID access to
// the entity.
func (p *PostgreSQLShareRepository) GetByEntityAndRecipient(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) (*sharingDomain.DataShare, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, entity_id, entity_type, owner_id, recipient_id, wrapped_key,
				  can_view, can_combine, can_reports, created_at
			  FROM data_shares
			  WHERE entity_id = $1 AND entity_type = $2 AND recipient_id = $3`

	var share sharingDomain.DataShare
	err := querier.QueryRowContext(ctx, query, entityID, entityType, recipientID).Scan(
		&share.ID,
		&share.EntityID,
		&share.EntityType,
		&share.OwnerID,
		&share.RecipientID,
		&share.WrappedKey,
		&share.Permissions.View,
		&share.Permissions.Combine,
		&share.Permissions.Reports,
		&share.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sharingDomain.ErrShareNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share")
	}

	return &share, nil
}

// ListByEntity retrieves all shares for an entity, oldest first.
func (p *PostgreSQLShareRepository) ListByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*sharingDomain.DataShare, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, entity_id, entity_type, owner_id, recipient_id, wrapped_key,
				  can_view, can_combine, can_reports, created_at
			  FROM data_shares
			  WHERE entity_id = $1 AND entity_type = $2
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, entityID, entityType)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares")
	}
	defer rows.Close()

	var shares []*sharingDomain.DataShare
	for rows.Next() {
		var share sharingDomain.DataShare
		if err := rows.Scan(
			&share.ID,
			&share.EntityID,
			&share.EntityType,
			&share.OwnerID,
			&share.RecipientID,
			&share.WrappedKey,
			&share.Permissions.View,
			&share.Permissions.Combine,
			&share.Permissions.Reports,
			&share.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan share")
		}
		shares = append(shares, &share)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate shares")
	}

	return shares, nil
}

// UpdatePermissions replaces the permission flags on an existing share.
func (p *PostgreSQLShareRepository) UpdatePermissions(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
	permissions sharingDomain.Permissions,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE data_shares
			  SET can_view = $1, can_combine = $2, can_reports = $3
			  WHERE entity_id = $4 AND entity_type = $5 AND recipient_id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		permissions.View,
		permissions.Combine,
		permissions.Reports,
		entityID,
		entityType,
		recipientID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update share permissions")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return sharingDomain.ErrShareNotFound
	}
	return nil
}

// Delete removes one recipient's share. Deleting the row is the whole of
// revocation: the wrapped key copy goes with it.
func (p *PostgreSQLShareRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM data_shares WHERE entity_id = $1 AND entity_type = $2 AND recipient_id = $3`

	result, err := querier.ExecContext(ctx, query, entityID, entityType, recipientID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return sharingDomain.ErrShareNotFound
	}
	return nil
}

// DeleteByEntity removes every share for an entity; called when the entity is
// destroyed.
func (p *PostgreSQLShareRepository) DeleteByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM data_shares WHERE entity_id = $1 AND entity_type = $2`

	_, err := querier.ExecContext(ctx, query, entityID, entityType)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete entity shares")
	}
	return nil
}
