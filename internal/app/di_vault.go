package app

import (
	"fmt"

	sharingRepository "github.com/hearthledger/hearthledger/internal/sharing/repository"
	vaultRepository "github.com/hearthledger/hearthledger/internal/vault/repository"
	vaultService "github.com/hearthledger/hearthledger/internal/vault/service"
	vaultUsecase "github.com/hearthledger/hearthledger/internal/vault/usecase"
)

// DekRepository returns the entity DEK repository instance.
func (c *Container) DekRepository() (vaultUsecase.DekRepository, error) {
	c.dekRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["dekRepo"] = fmt.Errorf("failed to get database for dek repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.dekRepo = vaultRepository.NewMySQLDekRepository(db)
		case "postgres":
			c.dekRepo = vaultRepository.NewPostgreSQLDekRepository(db)
		default:
			c.initErrors["dekRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["dekRepo"]; exists {
		return nil, err
	}
	return c.dekRepo, nil
}

// UserKeyRepository returns the user key pair repository instance.
func (c *Container) UserKeyRepository() (vaultUsecase.UserKeyRepository, error) {
	c.userKeyRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userKeyRepo"] = fmt.Errorf("failed to get database for user key repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.userKeyRepo = vaultRepository.NewMySQLUserKeyRepository(db)
		case "postgres":
			c.userKeyRepo = vaultRepository.NewPostgreSQLUserKeyRepository(db)
		default:
			c.initErrors["userKeyRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["userKeyRepo"]; exists {
		return nil, err
	}
	return c.userKeyRepo, nil
}

// initVaultServices creates the stateless crypto services and the session
// store. They have no failure modes, so one sync.Once covers them all.
func (c *Container) initVaultServices() {
	c.servicesInit.Do(func() {
		c.fieldCodec = vaultService.NewFieldCodec()
		c.keyPairManager = vaultService.NewRSAKeyPairManager()
		c.keyWrapper = vaultService.NewRSAKeyWrapper()
		c.sessionStore = vaultService.NewSessionStore()
		c.escrowService = vaultService.NewKMSEscrowService()
	})
}

// FieldCodec returns the field encryption codec.
func (c *Container) FieldCodec() vaultService.FieldCodec {
	c.initVaultServices()
	return c.fieldCodec
}

// SessionStore returns the in-memory session key store.
func (c *Container) SessionStore() vaultService.SessionStore {
	c.initVaultServices()
	return c.sessionStore
}

// KeyUseCase returns the key pair and session use case instance.
func (c *Container) KeyUseCase() (vaultUsecase.KeyUseCase, error) {
	c.keyUseCaseInit.Do(func() {
		userKeyRepo, err := c.UserKeyRepository()
		if err != nil {
			c.initErrors["keyUseCase"] = fmt.Errorf("failed to get user key repository for key use case: %w", err)
			return
		}
		c.initVaultServices()
		c.keyUseCase = vaultUsecase.NewKeyUseCase(
			userKeyRepo,
			c.keyPairManager,
			c.sessionStore,
			c.escrowService,
		)
	})
	if err, exists := c.initErrors["keyUseCase"]; exists {
		return nil, err
	}
	return c.keyUseCase, nil
}

// DekUseCase returns the DEK mint/resolve use case instance.
func (c *Container) DekUseCase() (vaultUsecase.DekUseCase, error) {
	c.dekUseCaseInit.Do(func() {
		dekRepo, err := c.DekRepository()
		if err != nil {
			c.initErrors["dekUseCase"] = fmt.Errorf("failed to get dek repository for dek use case: %w", err)
			return
		}
		userKeyRepo, err := c.UserKeyRepository()
		if err != nil {
			c.initErrors["dekUseCase"] = fmt.Errorf("failed to get user key repository for dek use case: %w", err)
			return
		}
		shareRepo, err := c.ShareRepository()
		if err != nil {
			c.initErrors["dekUseCase"] = fmt.Errorf("failed to get share repository for dek use case: %w", err)
			return
		}
		c.initVaultServices()
		c.dekUseCase = vaultUsecase.NewDekUseCase(
			dekRepo,
			userKeyRepo,
			shareRepo,
			c.keyWrapper,
			c.keyPairManager,
			c.sessionStore,
		)
	})
	if err, exists := c.initErrors["dekUseCase"]; exists {
		return nil, err
	}
	return c.dekUseCase, nil
}

// The share repositories must satisfy the vault's read-only share dependency.
var (
	_ vaultUsecase.ShareReader = (*sharingRepository.PostgreSQLShareRepository)(nil)
	_ vaultUsecase.ShareReader = (*sharingRepository.MySQLShareRepository)(nil)
)
