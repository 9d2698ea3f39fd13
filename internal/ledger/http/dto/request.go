// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/hearthledger/hearthledger/internal/validation"
)

// CreateEntityRequest contains the parameters for creating an entity.
type CreateEntityRequest struct {
	EntityType string         `json:"entity_type" binding:"required"`
	Data       map[string]any `json:"data" binding:"required"`
	Encrypt    bool           `json:"encrypt"`
}

// Validate checks if the create entity request is valid.
func (r *CreateEntityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EntityType, validation.Required, customValidation.EntityType),
		validation.Field(&r.Data, validation.Required),
	)
}

// UpdateEntityRequest contains the replacement payload for an entity.
type UpdateEntityRequest struct {
	Data map[string]any `json:"data" binding:"required"`
}

// Validate checks if the update entity request is valid.
func (r *UpdateEntityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data, validation.Required),
	)
}
