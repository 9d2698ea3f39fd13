package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/errors"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
	vaultService "github.com/hearthledger/hearthledger/internal/vault/service"
)

type keyUseCase struct {
	userKeyRepo    UserKeyRepository
	keyPairManager vaultService.KeyPairManager
	sessionStore   vaultService.SessionStore
	escrowService  vaultService.EscrowService
}

// EnableProtection creates the user's key pair and opens their session in the
// same step, so the user can encrypt immediately after opting in.
func (k *keyUseCase) EnableProtection(
	ctx context.Context,
	userID uuid.UUID,
	password string,
) (*vaultDomain.UserKeyPair, error) {
	// 1. Refuse to overwrite existing key material
	_, err := k.userKeyRepo.Get(ctx, userID)
	if err == nil {
		return nil, vaultDomain.ErrKeyPairExists
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	// 2. Generate and persist the sealed key pair
	keyPair, privateKey, err := k.keyPairManager.Generate(userID, password)
	if err != nil {
		return nil, err
	}
	if err := k.userKeyRepo.Create(ctx, keyPair); err != nil {
		return nil, err
	}

	// 3. Open the session with the freshly generated private key
	k.sessionStore.Set(userID, privateKey)

	return keyPair, nil
}

// Unlock verifies the password against the stored key pair, unseals the
// private key, and places it in the session store.
func (k *keyUseCase) Unlock(ctx context.Context, userID uuid.UUID, password string) error {
	keyPair, err := k.userKeyRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	privateKey, err := k.keyPairManager.Unseal(keyPair, password)
	if err != nil {
		return err
	}

	k.sessionStore.Set(userID, privateKey)
	return nil
}

func (k *keyUseCase) Lock(userID uuid.UUID) {
	k.sessionStore.Clear(userID)
}

func (k *keyUseCase) LockAll() {
	k.sessionStore.ClearAll()
}

func (k *keyUseCase) IsUnlocked(userID uuid.UUID) bool {
	_, ok := k.sessionStore.Get(userID)
	return ok
}

// EscrowBackup wraps the user's stored key pair in a KMS-protected recovery
// blob. The sealed private key stays sealed: the blob never contains usable
// key material without both the KMS key and the household password.
func (k *keyUseCase) EscrowBackup(ctx context.Context, userID uuid.UUID, keyURI string) ([]byte, error) {
	keyPair, err := k.userKeyRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return k.escrowService.Backup(ctx, keyURI, keyPair)
}

// NewKeyUseCase creates a new KeyUseCase instance.
func NewKeyUseCase(
	userKeyRepo UserKeyRepository,
	keyPairManager vaultService.KeyPairManager,
	sessionStore vaultService.SessionStore,
	escrowService vaultService.EscrowService,
) KeyUseCase {
	return &keyUseCase{
		userKeyRepo:    userKeyRepo,
		keyPairManager: keyPairManager,
		sessionStore:   sessionStore,
		escrowService:  escrowService,
	}
}
