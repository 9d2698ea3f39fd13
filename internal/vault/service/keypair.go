package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// Argon2id parameters for the private-key sealing KDF. Interactive-grade:
// unlock happens on every app launch.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	kdfKeyLen  = 32

	rsaKeyBits = 2048
	saltSize   = 16
)

// RSAKeyPairManager implements KeyPairManager with RSA-2048 key pairs whose
// private half is sealed with ChaCha20-Poly1305 under an Argon2id
// password-derived key.
type RSAKeyPairManager struct {
	hasher *pwdhash.PasswordHasher
}

// NewRSAKeyPairManager creates a new key pair manager.
func NewRSAKeyPairManager() *RSAKeyPairManager {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		// This should never happen with a valid policy
		panic(err)
	}
	return &RSAKeyPairManager{hasher: hasher}
}

// Generate creates a new key pair for the user and seals the private key
// under the password. The live private key is returned so the caller can
// open a session in the same operation.
func (m *RSAKeyPairManager) Generate(
	userID uuid.UUID,
	password string,
) (*vaultDomain.UserKeyPair, *rsa.PrivateKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode public key: %w", err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	privateDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode private key: %w", err)
	}
	defer vaultDomain.Zero(privateDER)

	// Seal the private key under the password-derived key
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	sealKey := deriveSealKey(password, salt)
	defer vaultDomain.Zero(sealKey)

	aead, err := chacha20poly1305.New(sealKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sealing cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, privateDER, userID[:])

	passwordHash, err := m.hasher.Hash([]byte(password))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	keyPair := &vaultDomain.UserKeyPair{
		UserID:              userID,
		PublicKey:           publicPEM,
		EncryptedPrivateKey: sealed,
		Salt:                salt,
		Nonce:               nonce,
		PasswordHash:        passwordHash,
		CreatedAt:           time.Now().UTC(),
	}

	return keyPair, privateKey, nil
}

// Unseal recovers the live private key from a stored key pair. The password
// is checked against the stored verifier first so wrong passwords are
// rejected uniformly regardless of AEAD internals.
func (m *RSAKeyPairManager) Unseal(
	keyPair *vaultDomain.UserKeyPair,
	password string,
) (*rsa.PrivateKey, error) {
	if ok, err := m.hasher.Verify([]byte(password), keyPair.PasswordHash); err != nil || !ok {
		return nil, vaultDomain.ErrInvalidPassword
	}

	sealKey := deriveSealKey(password, keyPair.Salt)
	defer vaultDomain.Zero(sealKey)

	aead, err := chacha20poly1305.New(sealKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create sealing cipher: %w", err)
	}

	// A tampered user_keys row could carry a wrong-size nonce; Open panics on it.
	if len(keyPair.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("invalid sealing nonce length %d", len(keyPair.Nonce))
	}

	privateDER, err := aead.Open(nil, keyPair.Nonce, keyPair.EncryptedPrivateKey, keyPair.UserID[:])
	if err != nil {
		return nil, vaultDomain.ErrInvalidPassword
	}
	defer vaultDomain.Zero(privateDER)

	parsed, err := x509.ParsePKCS8PrivateKey(privateDER)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unexpected private key type %T", parsed)
	}

	return privateKey, nil
}

// ParsePublicKey decodes a stored PEM public key.
func (m *RSAKeyPairManager) ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("invalid public key PEM")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected public key type %T", parsed)
	}

	return publicKey, nil
}

// deriveSealKey derives the 32-byte private-key sealing key from the password.
func deriveSealKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, kdfTime, kdfMemory, kdfThreads, kdfKeyLen)
}
