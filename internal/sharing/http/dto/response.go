package dto

import (
	"time"

	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
)

// ShareResponse represents a data share in API responses. The wrapped key is
// never exposed: it is only useful server-side, under the recipient's session.
type ShareResponse struct {
	ID          string             `json:"id"`
	EntityID    string             `json:"entity_id"`
	EntityType  string             `json:"entity_type"`
	OwnerID     string             `json:"owner_id"`
	RecipientID string             `json:"recipient_id"`
	Permissions PermissionsPayload `json:"permissions"`
	CreatedAt   time.Time          `json:"created_at"`
}

// MapShareToResponse converts a domain share to an API response.
func MapShareToResponse(share *sharingDomain.DataShare) ShareResponse {
	return ShareResponse{
		ID:          share.ID.String(),
		EntityID:    share.EntityID.String(),
		EntityType:  string(share.EntityType),
		OwnerID:     share.OwnerID.String(),
		RecipientID: share.RecipientID.String(),
		Permissions: PermissionsPayload{
			View:    share.Permissions.View,
			Combine: share.Permissions.Combine,
			Reports: share.Permissions.Reports,
		},
		CreatedAt: share.CreatedAt,
	}
}

// ListSharesResponse represents the shares on one entity.
type ListSharesResponse struct {
	Data []ShareResponse `json:"data"`
}

// MapSharesToListResponse converts a slice of domain shares to a list response.
func MapSharesToListResponse(shares []*sharingDomain.DataShare) ListSharesResponse {
	data := make([]ShareResponse, 0, len(shares))
	for _, share := range shares {
		data = append(data, MapShareToResponse(share))
	}
	return ListSharesResponse{Data: data}
}

// DefaultResponse represents a sharing default in API responses.
type DefaultResponse struct {
	ID          string             `json:"id"`
	OwnerID     string             `json:"owner_id"`
	RecipientID string             `json:"recipient_id"`
	EntityType  string             `json:"entity_type"`
	Permissions PermissionsPayload `json:"permissions"`
	CreatedAt   time.Time          `json:"created_at"`
}

// MapDefaultToResponse converts a domain sharing default to an API response.
func MapDefaultToResponse(def *sharingDomain.SharingDefault) DefaultResponse {
	return DefaultResponse{
		ID:          def.ID.String(),
		OwnerID:     def.OwnerID.String(),
		RecipientID: def.RecipientID.String(),
		EntityType:  string(def.EntityType),
		Permissions: PermissionsPayload{
			View:    def.Permissions.View,
			Combine: def.Permissions.Combine,
			Reports: def.Permissions.Reports,
		},
		CreatedAt: def.CreatedAt,
	}
}

// ListDefaultsResponse represents an owner's sharing defaults.
type ListDefaultsResponse struct {
	Data []DefaultResponse `json:"data"`
}

// MapDefaultsToListResponse converts a slice of domain defaults to a list response.
func MapDefaultsToListResponse(defaults []*sharingDomain.SharingDefault) ListDefaultsResponse {
	data := make([]DefaultResponse, 0, len(defaults))
	for _, def := range defaults {
		data = append(data, MapDefaultToResponse(def))
	}
	return ListDefaultsResponse{Data: data}
}
