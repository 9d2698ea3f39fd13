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

// MySQLShareRepository implements data share persistence for MySQL.
// UUIDs are stored as CHAR(36) and wrapped keys as VARBINARY.
type MySQLShareRepository struct {
	db *sql.DB
}

// NewMySQLShareRepository creates a new MySQL share repository.
func NewMySQLShareRepository(db *sql.DB) *MySQLShareRepository {
	return &MySQLShareRepository{db: db}
}

// Create inserts a new data share.
func (m *MySQLShareRepository) Create(ctx context.Context, share *sharingDomain.DataShare) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO data_shares (id, entity_id, entity_type, owner_id, recipient_id, wrapped_key,
				  can_view, can_combine, can_reports, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		share.ID.String(),
		share.EntityID.String(),
		share.EntityType,
		share.OwnerID.String(),
		share.RecipientID.String(),
		share.WrappedKey,
		share.Permissions.View,
		share.Permissions.Combine,
		share.Permissions.Reports,
		share.CreatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return sharingDomain.ErrShareExists
		}
		return apperrors.Wrap(err, "failed to create share")
	}
	return nil
}

// GetByEntityAndRecipient retrieves the share granting recipientID access to
// the entity.
func (m *MySQLShareRepository) GetByEntityAndRecipient(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) (*sharingDomain.DataShare, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, entity_id, entity_type, owner_id, recipient_id, wrapped_key,
				  can_view, can_combine, can_reports, created_at
			  FROM data_shares
			  WHERE entity_id = ? AND entity_type = ? AND recipient_id = ?`

	row := querier.QueryRowContext(ctx, query, entityID.String(), entityType, recipientID.String())
	share, err := scanMySQLShare(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sharingDomain.ErrShareNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share")
	}
	return share, nil
}

// ListByEntity retrieves all shares for an entity, oldest first.
func (m *MySQLShareRepository) ListByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*sharingDomain.DataShare, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, entity_id, entity_type, owner_id, recipient_id, wrapped_key,
				  can_view, can_combine, can_reports, created_at
			  FROM data_shares
			  WHERE entity_id = ? AND entity_type = ?
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, entityID.String(), entityType)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares")
	}
	defer rows.Close()

	var shares []*sharingDomain.DataShare
	for rows.Next() {
		share, err := scanMySQLShare(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan share")
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate shares")
	}

	return shares, nil
}

// UpdatePermissions replaces the permission flags on an existing share.
func (m *MySQLShareRepository) UpdatePermissions(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
	permissions sharingDomain.Permissions,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE data_shares
			  SET can_view = ?, can_combine = ?, can_reports = ?
			  WHERE entity_id = ? AND entity_type = ? AND recipient_id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		permissions.View,
		permissions.Combine,
		permissions.Reports,
		entityID.String(),
		entityType,
		recipientID.String(),
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

// Delete removes one recipient's share.
func (m *MySQLShareRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM data_shares WHERE entity_id = ? AND entity_type = ? AND recipient_id = ?`

	result, err := querier.ExecContext(ctx, query, entityID.String(), entityType, recipientID.String())
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

// DeleteByEntity removes every share for an entity.
func (m *MySQLShareRepository) DeleteByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM data_shares WHERE entity_id = ? AND entity_type = ?`

	_, err := querier.ExecContext(ctx, query, entityID.String(), entityType)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete entity shares")
	}
	return nil
}

// scanMySQLShare scans one data share row, parsing CHAR(36) UUID columns.
func scanMySQLShare(scan func(dest ...any) error) (*sharingDomain.DataShare, error) {
	var share sharingDomain.DataShare
	var rawID, rawEntityID, rawOwnerID, rawRecipientID string
	err := scan(
		&rawID,
		&rawEntityID,
		&share.EntityType,
		&rawOwnerID,
		&rawRecipientID,
		&share.WrappedKey,
		&share.Permissions.View,
		&share.Permissions.Combine,
		&share.Permissions.Reports,
		&share.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if share.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if share.EntityID, err = uuid.Parse(rawEntityID); err != nil {
		return nil, err
	}
	if share.OwnerID, err = uuid.Parse(rawOwnerID); err != nil {
		return nil, err
	}
	if share.RecipientID, err = uuid.Parse(rawRecipientID); err != nil {
		return nil, err
	}
	return &share, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
