// Package domain defines the sharing models: per-entity grants carrying a
// recipient-wrapped copy of the entity's DEK, standing per-type sharing
// defaults, and the permission set attached to each grant.
package domain

import (
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// Permissions is the grant's permission set. This subsystem only stores and
// returns the flags; enforcement of each flag's meaning happens in consuming
// code.
type Permissions struct {
	// View allows the recipient to see decrypted content.
	View bool `json:"view"`
	// Combine folds the entity into the owner household's aggregate calculations.
	Combine bool `json:"combine"`
	// Reports includes the entity in generated reports.
	Reports bool `json:"reports"`
}

// DataShare grants one recipient decrypt access to one entity. It carries its
// own copy of the entity's DEK wrapped under the recipient's public key, so
// revocation is simply deleting the row. One share exists per
// (entity, recipient) pair, and only for entities that have a DEK record.
type DataShare struct {
	ID          uuid.UUID
	EntityID    uuid.UUID
	EntityType  vaultDomain.EntityType
	OwnerID     uuid.UUID
	RecipientID uuid.UUID
	// WrappedKey is the entity's DEK wrapped under the recipient's public key.
	WrappedKey  []byte
	Permissions Permissions
	CreatedAt   time.Time
}
