package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityDek is the Data Encryption Key record for one protected entity.
// Exactly one exists per (EntityID, EntityType); it is minted at entity
// creation, never rotated, and destroyed only with the entity. The plaintext
// DEK is never persisted and must be zeroed from memory after use.
type EntityDek struct {
	EntityID   uuid.UUID  // The protected entity this key belongs to
	EntityType EntityType // The entity's type
	OwnerID    uuid.UUID  // The user who created the entity
	WrappedKey []byte     // The 32-byte DEK wrapped under the owner's public key (RSA-OAEP)
	CreatedAt  time.Time
}
