package dto

import (
	"encoding/base64"
	"time"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// KeyPairResponse represents a user key pair in API responses. Only public
// material is exposed; the sealed private key never leaves the server.
type KeyPairResponse struct {
	UserID    string    `json:"user_id"`
	PublicKey string    `json:"public_key"`
	CreatedAt time.Time `json:"created_at"`
}

// MapKeyPairToResponse converts a domain key pair to an API response.
func MapKeyPairToResponse(keyPair *vaultDomain.UserKeyPair) KeyPairResponse {
	return KeyPairResponse{
		UserID:    keyPair.UserID.String(),
		PublicKey: string(keyPair.PublicKey),
		CreatedAt: keyPair.CreatedAt,
	}
}

// SessionStatusResponse reports whether the user's session is unlocked.
type SessionStatusResponse struct {
	Unlocked bool `json:"unlocked"`
}

// EscrowBackupResponse carries the KMS-protected recovery blob.
type EscrowBackupResponse struct {
	Blob string `json:"blob"`
}

// MapEscrowBlobToResponse converts a raw escrow blob to an API response.
func MapEscrowBlobToResponse(blob []byte) EscrowBackupResponse {
	return EscrowBackupResponse{
		Blob: base64.StdEncoding.EncodeToString(blob),
	}
}
