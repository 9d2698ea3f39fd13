// Package service provides the cryptographic services behind per-entity field
// encryption: AEAD field sealing, RSA key wrapping, password-sealed key pairs,
// and in-memory custody of unlocked session keys.
package service

import (
	"context"
	"crypto/rsa"

	"github.com/google/uuid"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// FieldCodec encrypts and decrypts exactly the sensitive fields of an entity
// payload, per the static schema in vault/domain.
type FieldCodec interface {
	// Encrypt replaces each sensitive field with its encrypted triple.
	// Unknown entity types and null/empty values pass through unchanged.
	Encrypt(entityType vaultDomain.EntityType, data map[string]any, dek []byte) (map[string]any, error)

	// Decrypt is total: any per-field failure (wrong key, tampering, malformed
	// value) degrades to "" for text fields and 0 for numeric fields.
	Decrypt(entityType vaultDomain.EntityType, data map[string]any, dek []byte) map[string]any
}

// KeyWrapper wraps and unwraps 32-byte DEKs under user public keys.
type KeyWrapper interface {
	Wrap(publicKey *rsa.PublicKey, key []byte) ([]byte, error)
	Unwrap(privateKey *rsa.PrivateKey, wrapped []byte) ([]byte, error)
}

// KeyPairManager creates and unseals password-protected user key pairs.
type KeyPairManager interface {
	// Generate creates a new key pair for the user, sealing the private key
	// under a key derived from password. The returned private key is live
	// material for immediate session use.
	Generate(userID uuid.UUID, password string) (*vaultDomain.UserKeyPair, *rsa.PrivateKey, error)

	// Unseal recovers the private key from a stored key pair using password.
	// Returns vaultDomain.ErrInvalidPassword when the password does not verify.
	Unseal(keyPair *vaultDomain.UserKeyPair, password string) (*rsa.PrivateKey, error)

	// ParsePublicKey decodes a stored PEM public key.
	ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error)
}

// SessionStore holds unlocked private key material per authenticated user,
// alive only between unlock and lock/logout. It performs no cryptography,
// only custody: material is never written to persistent storage and never logged.
type SessionStore interface {
	Set(userID uuid.UUID, key *rsa.PrivateKey)
	Get(userID uuid.UUID) (*rsa.PrivateKey, bool)
	Clear(userID uuid.UUID)
	ClearAll()
}

// EscrowService backs up and restores key-pair recovery blobs through a cloud
// KMS keeper, so a forgotten household password is not a permanent data loss.
type EscrowService interface {
	Backup(ctx context.Context, keyURI string, keyPair *vaultDomain.UserKeyPair) ([]byte, error)
	Restore(ctx context.Context, keyURI string, blob []byte) (*vaultDomain.UserKeyPair, error)
}
