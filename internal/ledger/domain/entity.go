// Package domain defines the ledger entity model: household financial records
// whose sensitive fields may be stored encrypted.
package domain

import (
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// Entity is one household financial record. Data holds the full payload as
// decoded JSON; when IsEncrypted is true the sensitive fields inside it are
// stored as encrypted triples and everything else stays plaintext.
type Entity struct {
	ID          uuid.UUID
	Type        vaultDomain.EntityType
	OwnerID     uuid.UUID
	IsEncrypted bool
	Data        map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
