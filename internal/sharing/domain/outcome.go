package domain

import (
	"github.com/google/uuid"
)

// OutcomeStatus tags the result of one blanket-share fan-out target.
type OutcomeStatus string

const (
	// OutcomeShared means a data share was created for the recipient.
	OutcomeShared OutcomeStatus = "shared"
	// OutcomeSkippedNoKey means the recipient has no usable public key,
	// either unregistered or unparseable, and was silently skipped. Not an
	// error: sharing is best-effort and must never block entity creation.
	OutcomeSkippedNoKey OutcomeStatus = "skipped_no_key"
)

// ShareOutcome records what happened for one sharing default during blanket
// share application.
type ShareOutcome struct {
	RecipientID uuid.UUID
	Status      OutcomeStatus
	// Share is set only when Status is OutcomeShared.
	Share *DataShare
}
