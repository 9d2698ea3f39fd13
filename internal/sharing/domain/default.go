package domain

import (
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// SharingDefault is a standing instruction: whenever the owner creates an
// entity of this type, automatically share it with the recipient using these
// permissions. Independent of any specific entity; consulted at creation time
// only.
type SharingDefault struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	RecipientID uuid.UUID
	EntityType  vaultDomain.EntityType
	Permissions Permissions
	CreatedAt   time.Time
}
