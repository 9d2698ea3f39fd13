package domain

import (
	"github.com/hearthledger/hearthledger/internal/errors"
)

// Vault error definitions.
//
// "Cannot decrypt" and "cannot share" are expected, first-class outcomes in
// this subsystem, so they are sentinel errors rather than panics; list reads
// absorb them into item exclusion and single reads map them to 4xx responses.
var (
	// ErrSessionLocked indicates the acting user has no unlocked session key.
	// Every decrypt and DEK-mint path fails closed with this the instant the
	// session is cleared.
	ErrSessionLocked = errors.Wrap(errors.ErrLocked, "password session is locked")

	// ErrNoAccess indicates the requester is neither the entity's owner nor a
	// share recipient.
	ErrNoAccess = errors.Wrap(errors.ErrForbidden, "no decrypt access to entity")

	// ErrDekNotFound indicates the entity has no DEK record.
	ErrDekNotFound = errors.Wrap(errors.ErrNotFound, "dek not found")

	// ErrUserKeysNotFound indicates the user never enabled password protection.
	ErrUserKeysNotFound = errors.Wrap(errors.ErrNotFound, "user keys not found")

	// ErrKeyPairExists indicates the user already has a registered key pair.
	ErrKeyPairExists = errors.Wrap(errors.ErrConflict, "key pair already exists")

	// ErrInvalidPassword indicates the unlock password did not verify.
	ErrInvalidPassword = errors.Wrap(errors.ErrUnauthorized, "invalid password")

	// ErrMalformedField indicates a stored value is not a valid encrypted
	// field triple. The field codec absorbs this into a blank substitute.
	ErrMalformedField = errors.New("malformed encrypted field")

	// ErrDecryptionFailed indicates an AEAD open or key unwrap failed (wrong
	// key or tampered data). The cause is deliberately not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
