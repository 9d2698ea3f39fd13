package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/metrics"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

// shareUseCaseWithMetrics decorates ShareUseCase with metrics instrumentation.
type shareUseCaseWithMetrics struct {
	next    ShareUseCase
	metrics metrics.BusinessMetrics
}

// NewShareUseCaseWithMetrics wraps a ShareUseCase with metrics recording.
func NewShareUseCaseWithMetrics(useCase ShareUseCase, m metrics.BusinessMetrics) ShareUseCase {
	return &shareUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *shareUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "sharing", operation, status)
	s.metrics.RecordDuration(ctx, "sharing", operation, time.Since(start), status)
}

func (s *shareUseCaseWithMetrics) CreateShare(
	ctx context.Context,
	input *CreateShareInput,
) (*sharingDomain.DataShare, error) {
	start := time.Now()
	share, err := s.next.CreateShare(ctx, input)
	s.record(ctx, "share_create", start, err)
	return share, err
}

func (s *shareUseCaseWithMetrics) ApplyBlanketShares(
	ctx context.Context,
	entityType vaultDomain.EntityType,
	entityID uuid.UUID,
	ownerID uuid.UUID,
	dek []byte,
) ([]*sharingDomain.ShareOutcome, error) {
	start := time.Now()
	outcomes, err := s.next.ApplyBlanketShares(ctx, entityType, entityID, ownerID, dek)
	s.record(ctx, "share_apply_blanket", start, err)
	return outcomes, err
}

func (s *shareUseCaseWithMetrics) ListShares(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) ([]*sharingDomain.DataShare, error) {
	start := time.Now()
	shares, err := s.next.ListShares(ctx, entityID, entityType)
	s.record(ctx, "share_list", start, err)
	return shares, err
}

func (s *shareUseCaseWithMetrics) UpdatePermissions(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
	permissions sharingDomain.Permissions,
) error {
	start := time.Now()
	err := s.next.UpdatePermissions(ctx, entityID, entityType, recipientID, permissions)
	s.record(ctx, "share_update_permissions", start, err)
	return err
}

func (s *shareUseCaseWithMetrics) RevokeShare(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
	recipientID uuid.UUID,
) error {
	start := time.Now()
	err := s.next.RevokeShare(ctx, entityID, entityType, recipientID)
	s.record(ctx, "share_revoke", start, err)
	return err
}

func (s *shareUseCaseWithMetrics) RevokeAllForEntity(
	ctx context.Context,
	entityID uuid.UUID,
	entityType vaultDomain.EntityType,
) error {
	start := time.Now()
	err := s.next.RevokeAllForEntity(ctx, entityID, entityType)
	s.record(ctx, "share_revoke_all", start, err)
	return err
}
