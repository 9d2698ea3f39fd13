package app

import (
	"fmt"

	ledgerRepository "github.com/hearthledger/hearthledger/internal/ledger/repository"
	ledgerUsecase "github.com/hearthledger/hearthledger/internal/ledger/usecase"
)

// EntityRepository returns the entity repository instance.
func (c *Container) EntityRepository() (ledgerUsecase.EntityRepository, error) {
	c.entityRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["entityRepo"] = fmt.Errorf("failed to get database for entity repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.entityRepo = ledgerRepository.NewMySQLEntityRepository(db)
		case "postgres":
			c.entityRepo = ledgerRepository.NewPostgreSQLEntityRepository(db)
		default:
			c.initErrors["entityRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["entityRepo"]; exists {
		return nil, err
	}
	return c.entityRepo, nil
}

// EntityUseCase returns the entity use case instance, wrapped with business
// metrics.
func (c *Container) EntityUseCase() (ledgerUsecase.EntityUseCase, error) {
	c.entityUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["entityUseCase"] = fmt.Errorf("failed to get tx manager for entity use case: %w", err)
			return
		}
		entityRepo, err := c.EntityRepository()
		if err != nil {
			c.initErrors["entityUseCase"] = fmt.Errorf("failed to get entity repository for entity use case: %w", err)
			return
		}
		dekUseCase, err := c.DekUseCase()
		if err != nil {
			c.initErrors["entityUseCase"] = fmt.Errorf("failed to get dek use case for entity use case: %w", err)
			return
		}
		shareUseCase, err := c.ShareUseCase()
		if err != nil {
			c.initErrors["entityUseCase"] = fmt.Errorf("failed to get share use case for entity use case: %w", err)
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["entityUseCase"] = fmt.Errorf("failed to get business metrics for entity use case: %w", err)
			return
		}

		useCase := ledgerUsecase.NewEntityUseCase(
			txManager,
			entityRepo,
			dekUseCase,
			shareUseCase,
			c.FieldCodec(),
		)
		c.entityUseCase = ledgerUsecase.NewEntityUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["entityUseCase"]; exists {
		return nil, err
	}
	return c.entityUseCase, nil
}
