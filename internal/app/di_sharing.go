package app

import (
	"fmt"

	sharingRepository "github.com/hearthledger/hearthledger/internal/sharing/repository"
	sharingUsecase "github.com/hearthledger/hearthledger/internal/sharing/usecase"
)

// ShareRepository returns the data share repository instance.
func (c *Container) ShareRepository() (sharingUsecase.ShareRepository, error) {
	c.shareRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["shareRepo"] = fmt.Errorf("failed to get database for share repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.shareRepo = sharingRepository.NewMySQLShareRepository(db)
		case "postgres":
			c.shareRepo = sharingRepository.NewPostgreSQLShareRepository(db)
		default:
			c.initErrors["shareRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["shareRepo"]; exists {
		return nil, err
	}
	return c.shareRepo, nil
}

// DefaultRepository returns the sharing default repository instance.
func (c *Container) DefaultRepository() (sharingUsecase.DefaultRepository, error) {
	c.defaultRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["defaultRepo"] = fmt.Errorf("failed to get database for default repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.defaultRepo = sharingRepository.NewMySQLDefaultRepository(db)
		case "postgres":
			c.defaultRepo = sharingRepository.NewPostgreSQLDefaultRepository(db)
		default:
			c.initErrors["defaultRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["defaultRepo"]; exists {
		return nil, err
	}
	return c.defaultRepo, nil
}

// ShareUseCase returns the share use case instance, wrapped with business
// metrics.
func (c *Container) ShareUseCase() (sharingUsecase.ShareUseCase, error) {
	c.shareUseCaseInit.Do(func() {
		shareRepo, err := c.ShareRepository()
		if err != nil {
			c.initErrors["shareUseCase"] = fmt.Errorf("failed to get share repository for share use case: %w", err)
			return
		}
		defaultRepo, err := c.DefaultRepository()
		if err != nil {
			c.initErrors["shareUseCase"] = fmt.Errorf("failed to get default repository for share use case: %w", err)
			return
		}
		userKeyRepo, err := c.UserKeyRepository()
		if err != nil {
			c.initErrors["shareUseCase"] = fmt.Errorf("failed to get user key repository for share use case: %w", err)
			return
		}
		dekUseCase, err := c.DekUseCase()
		if err != nil {
			c.initErrors["shareUseCase"] = fmt.Errorf("failed to get dek use case for share use case: %w", err)
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["shareUseCase"] = fmt.Errorf("failed to get business metrics for share use case: %w", err)
			return
		}
		c.initVaultServices()

		useCase := sharingUsecase.NewShareUseCase(
			shareRepo,
			defaultRepo,
			userKeyRepo,
			dekUseCase,
			c.keyWrapper,
			c.keyPairManager,
		)
		c.shareUseCase = sharingUsecase.NewShareUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["shareUseCase"]; exists {
		return nil, err
	}
	return c.shareUseCase, nil
}

// DefaultUseCase returns the sharing default use case instance.
func (c *Container) DefaultUseCase() (sharingUsecase.DefaultUseCase, error) {
	c.defaultUseCaseInit.Do(func() {
		defaultRepo, err := c.DefaultRepository()
		if err != nil {
			c.initErrors["defaultUseCase"] = fmt.Errorf("failed to get default repository for default use case: %w", err)
			return
		}
		c.defaultUseCase = sharingUsecase.NewDefaultUseCase(defaultRepo)
	})
	if err, exists := c.initErrors["defaultUseCase"]; exists {
		return nil, err
	}
	return c.defaultUseCase, nil
}
