package domain

import (
	"github.com/hearthledger/hearthledger/internal/errors"
)

// Sharing error definitions.
var (
	// ErrShareNotFound indicates no data share exists for the lookup.
	ErrShareNotFound = errors.Wrap(errors.ErrNotFound, "share not found")

	// ErrShareExists indicates a share already exists for (entity, recipient).
	ErrShareExists = errors.Wrap(errors.ErrConflict, "share already exists")

	// ErrDefaultNotFound indicates no sharing default exists for the lookup.
	ErrDefaultNotFound = errors.Wrap(errors.ErrNotFound, "sharing default not found")

	// ErrRecipientKeyMissing indicates the share target has no registered
	// public key. Explicit shares fail with this; blanket shares skip instead.
	ErrRecipientKeyMissing = errors.Wrap(errors.ErrInvalidInput, "recipient has no registered public key")

	// ErrRecipientKeyUnusable indicates the share target's stored public key
	// could not be parsed. Explicit shares fail with this; blanket shares skip
	// the recipient just as they do for a missing key.
	ErrRecipientKeyUnusable = errors.Wrap(errors.ErrInvalidInput, "recipient public key is unusable")

	// ErrSelfShare indicates an attempt to share an entity with its owner.
	ErrSelfShare = errors.Wrap(errors.ErrInvalidInput, "cannot share an entity with its owner")
)
