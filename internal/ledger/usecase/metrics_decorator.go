package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	ledgerDomain "github.com/hearthledger/hearthledger/internal/ledger/domain"
	"github.com/hearthledger/hearthledger/internal/metrics"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// entityUseCaseWithMetrics decorates EntityUseCase with metrics instrumentation.
type entityUseCaseWithMetrics struct {
	next    EntityUseCase
	metrics metrics.BusinessMetrics
}

// NewEntityUseCaseWithMetrics wraps an EntityUseCase with metrics recording.
func NewEntityUseCaseWithMetrics(useCase EntityUseCase, m metrics.BusinessMetrics) EntityUseCase {
	return &entityUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (e *entityUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordOperation(ctx, "ledger", operation, status)
	e.metrics.RecordDuration(ctx, "ledger", operation, time.Since(start), status)
}

func (e *entityUseCaseWithMetrics) CreateEntity(
	ctx context.Context,
	input *CreateEntityInput,
) (*ledgerDomain.Entity, []*sharingDomain.ShareOutcome, error) {
	start := time.Now()
	entity, outcomes, err := e.next.CreateEntity(ctx, input)
	e.record(ctx, "entity_create", start, err)
	return entity, outcomes, err
}

func (e *entityUseCaseWithMetrics) GetEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
) (*ledgerDomain.Entity, error) {
	start := time.Now()
	entity, err := e.next.GetEntity(ctx, entityID, entityType, userID)
	e.record(ctx, "entity_get", start, err)
	return entity, err
}

func (e *entityUseCaseWithMetrics) ListEntities(
	ctx context.Context,
	userID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*ledgerDomain.Entity, error) {
	start := time.Now()
	entities, err := e.next.ListEntities(ctx, userID, entityType)
	e.record(ctx, "entity_list_decrypt", start, err)
	return entities, err
}

func (e *entityUseCaseWithMetrics) UpdateEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
	data map[string]any,
) (*ledgerDomain.Entity, error) {
	start := time.Now()
	entity, err := e.next.UpdateEntity(ctx, entityID, entityType, userID, data)
	e.record(ctx, "entity_update", start, err)
	return entity, err
}

func (e *entityUseCaseWithMetrics) DeleteEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	userID uuid.UUID,
) error {
	start := time.Now()
	err := e.next.DeleteEntity(ctx, entityID, entityType, userID)
	e.record(ctx, "entity_delete", start, err)
	return err
}
