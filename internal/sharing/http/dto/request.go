// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/hearthledger/hearthledger/internal/validation"
)

// PermissionsPayload carries the permission flags of a share or default.
type PermissionsPayload struct {
	View    bool `json:"view"`
	Combine bool `json:"combine"`
	Reports bool `json:"reports"`
}

// CreateShareRequest contains the parameters for sharing an entity.
type CreateShareRequest struct {
	EntityType  string             `json:"entity_type" binding:"required"`
	EntityID    string             `json:"entity_id" binding:"required"`
	RecipientID string             `json:"recipient_id" binding:"required"`
	Permissions PermissionsPayload `json:"permissions"`
}

// Validate checks if the create share request is valid.
func (r *CreateShareRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EntityType, validation.Required, customValidation.EntityType),
		validation.Field(&r.EntityID, validation.Required, customValidation.UUID),
		validation.Field(&r.RecipientID, validation.Required, customValidation.UUID),
	)
}

// UpdateSharePermissionsRequest contains the new permission flags for a share.
type UpdateSharePermissionsRequest struct {
	Permissions PermissionsPayload `json:"permissions"`
}

// SetDefaultRequest contains the parameters for a sharing default.
type SetDefaultRequest struct {
	RecipientID string             `json:"recipient_id" binding:"required"`
	EntityType  string             `json:"entity_type" binding:"required"`
	Permissions PermissionsPayload `json:"permissions"`
}

// Validate checks if the set default request is valid.
func (r *SetDefaultRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RecipientID, validation.Required, customValidation.UUID),
		validation.Field(&r.EntityType, validation.Required, customValidation.EntityType),
	)
}
