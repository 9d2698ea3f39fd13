// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/hearthledger/hearthledger/internal/validation"
)

// EnableProtectionRequest contains the parameters for enabling password protection.
type EnableProtectionRequest struct {
	Password string `json:"password" binding:"required"`
}

// Validate checks if the enable protection request is valid.
func (r *EnableProtectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.Required,
			customValidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
	)
}

// UnlockRequest contains the parameters for unlocking a password session.
type UnlockRequest struct {
	Password string `json:"password" binding:"required"`
}

// Validate checks if the unlock request is valid.
func (r *UnlockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password, validation.Required),
	)
}

// EscrowBackupRequest contains the parameters for a KMS escrow backup.
type EscrowBackupRequest struct {
	KeyURI string `json:"key_uri" binding:"required"`
}

// Validate checks if the escrow backup request is valid.
func (r *EscrowBackupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.KeyURI, validation.Required, customValidation.NotBlank),
	)
}
