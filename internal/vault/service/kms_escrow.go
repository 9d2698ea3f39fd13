package service

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/secrets"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"

	// Register KMS provider drivers for escrow keepers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSEscrowService implements EscrowService using gocloud.dev/secrets.
// The escrow blob contains the stored (still password-sealed) key pair, so
// the KMS never sees live private key material; it protects the household
// against database loss, not against a forgotten password alone.
type KMSEscrowService struct{}

// NewKMSEscrowService creates a new escrow service.
func NewKMSEscrowService() *KMSEscrowService {
	return &KMSEscrowService{}
}

// Backup encrypts the stored key pair under the configured KMS key.
// Supports gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://.
func (e *KMSEscrowService) Backup(
	ctx context.Context,
	keyURI string,
	keyPair *vaultDomain.UserKeyPair,
) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open escrow keeper: %w", err)
	}
	defer keeper.Close()

	plaintext, err := json.Marshal(keyPair)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize key pair: %w", err)
	}

	blob, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt escrow blob: %w", err)
	}

	return blob, nil
}

// Restore decrypts an escrow blob back into a stored key pair.
func (e *KMSEscrowService) Restore(
	ctx context.Context,
	keyURI string,
	blob []byte,
) (*vaultDomain.UserKeyPair, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open escrow keeper: %w", err)
	}
	defer keeper.Close()

	plaintext, err := keeper.Decrypt(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt escrow blob: %w", err)
	}

	var keyPair vaultDomain.UserKeyPair
	if err := json.Unmarshal(plaintext, &keyPair); err != nil {
		return nil, fmt.Errorf("failed to parse escrow blob: %w", err)
	}

	return &keyPair, nil
}
