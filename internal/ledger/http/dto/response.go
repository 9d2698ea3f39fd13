package dto

import (
	"time"

	ledgerDomain "github.com/hearthledger/hearthledger/internal/ledger/domain"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
)

// EntityResponse represents an entity in API responses. Data always holds the
// decrypted payload for the requesting user.
type EntityResponse struct {
	ID          string         `json:"id"`
	EntityType  string         `json:"entity_type"`
	OwnerID     string         `json:"owner_id"`
	IsEncrypted bool           `json:"is_encrypted"`
	Data        map[string]any `json:"data"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// MapEntityToResponse converts a domain entity to an API response.
func MapEntityToResponse(entity *ledgerDomain.Entity) EntityResponse {
	return EntityResponse{
		ID:          entity.ID.String(),
		EntityType:  string(entity.Type),
		OwnerID:     entity.OwnerID.String(),
		IsEncrypted: entity.IsEncrypted,
		Data:        entity.Data,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

// ListEntitiesResponse represents the entities readable by the user.
type ListEntitiesResponse struct {
	Data []EntityResponse `json:"data"`
}

// MapEntitiesToListResponse converts a slice of domain entities to a list response.
func MapEntitiesToListResponse(entities []*ledgerDomain.Entity) ListEntitiesResponse {
	data := make([]EntityResponse, 0, len(entities))
	for _, entity := range entities {
		data = append(data, MapEntityToResponse(entity))
	}
	return ListEntitiesResponse{Data: data}
}

// ShareOutcomeResponse reports how one sharing default was applied at create
// time: shared, or skipped because the recipient has no key pair yet.
type ShareOutcomeResponse struct {
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"`
}

// CreateEntityResponse carries the created entity plus the per-recipient
// outcome of the owner's sharing defaults.
type CreateEntityResponse struct {
	Entity        EntityResponse         `json:"entity"`
	ShareOutcomes []ShareOutcomeResponse `json:"share_outcomes"`
}

// MapCreateResultToResponse converts a created entity and its blanket share
// outcomes to an API response.
func MapCreateResultToResponse(
	entity *ledgerDomain.Entity,
	outcomes []*sharingDomain.ShareOutcome,
) CreateEntityResponse {
	resp := CreateEntityResponse{
		Entity:        MapEntityToResponse(entity),
		ShareOutcomes: make([]ShareOutcomeResponse, 0, len(outcomes)),
	}
	for _, outcome := range outcomes {
		resp.ShareOutcomes = append(resp.ShareOutcomes, ShareOutcomeResponse{
			RecipientID: outcome.RecipientID.String(),
			Status:      string(outcome.Status),
		})
	}
	return resp
}
