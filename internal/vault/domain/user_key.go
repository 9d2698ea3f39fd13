package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserKeyPair holds a household member's asymmetric key material. The public
// key is stored in the clear; the private key is stored only sealed under a
// password-derived key and materializes in memory after a successful unlock.
type UserKeyPair struct {
	UserID uuid.UUID
	// PublicKey is the PKIX-encoded RSA public key, PEM format.
	PublicKey []byte
	// EncryptedPrivateKey is the PKCS#8 private key sealed with
	// ChaCha20-Poly1305 under an Argon2id password-derived key.
	EncryptedPrivateKey []byte
	// Salt is the Argon2id salt for the password-derived sealing key.
	Salt []byte
	// Nonce is the AEAD nonce used to seal the private key.
	Nonce []byte
	// PasswordHash is the Argon2id verifier used to reject wrong passwords
	// before attempting to unseal.
	PasswordHash string
	CreatedAt    time.Time
}
