package domain

import (
	"github.com/hearthledger/hearthledger/internal/errors"
)

// Ledger error definitions.
var (
	// ErrEntityNotFound indicates no entity exists for the lookup.
	ErrEntityNotFound = errors.Wrap(errors.ErrNotFound, "entity not found")

	// ErrEntityExists indicates an entity with the same ID already exists.
	ErrEntityExists = errors.Wrap(errors.ErrConflict, "entity already exists")

	// ErrNotOwner indicates the acting user does not own the entity.
	ErrNotOwner = errors.Wrap(errors.ErrForbidden, "user does not own entity")
)
