package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// RSAKeyWrapper implements KeyWrapper using RSA-OAEP with SHA-256.
// A wrapped DEK can only be recovered by the holder of the matching private
// key, which in this system means the user whose session is unlocked.
type RSAKeyWrapper struct{}

// NewRSAKeyWrapper creates a new RSA key wrapper.
func NewRSAKeyWrapper() *RSAKeyWrapper {
	return &RSAKeyWrapper{}
}

// Wrap encrypts a symmetric key under the recipient's public key.
func (w *RSAKeyWrapper) Wrap(publicKey *rsa.PublicKey, key []byte) ([]byte, error) {
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, key, nil)
	if err != nil {
		return nil, vaultDomain.ErrDecryptionFailed
	}
	return wrapped, nil
}

// Unwrap recovers a symmetric key using the holder's private key. Failures
// (wrong key, corrupted blob) surface as ErrDecryptionFailed without detail.
func (w *RSAKeyWrapper) Unwrap(privateKey *rsa.PrivateKey, wrapped []byte) ([]byte, error) {
	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, privateKey, wrapped, nil)
	if err != nil {
		return nil, vaultDomain.ErrDecryptionFailed
	}
	return key, nil
}

// GenerateDek creates a cryptographically random 32-byte Data Encryption Key.
func GenerateDek() ([]byte, error) {
	dek := make([]byte, 32)
	if _, err := rand.Read(dek); err != nil {
		return nil, err
	}
	return dek, nil
}
