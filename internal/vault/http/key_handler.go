// Package http provides HTTP handlers for key pair and session management.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthledger/hearthledger/internal/httputil"
	customValidation "github.com/hearthledger/hearthledger/internal/validation"
	"github.com/hearthledger/hearthledger/internal/vault/http/dto"
	vaultUsecase "github.com/hearthledger/hearthledger/internal/vault/usecase"
)

// KeyHandler handles HTTP requests for user key pair management.
type KeyHandler struct {
	keyUseCase vaultUsecase.KeyUseCase
	logger     *slog.Logger
}

// NewKeyHandler creates a new key handler.
func NewKeyHandler(keyUseCase vaultUsecase.KeyUseCase, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		keyUseCase: keyUseCase,
		logger:     logger,
	}
}

// EnableProtectionHandler generates the user's key pair and opens their session.
// POST /v1/keys
// Returns 201 Created with the public key; 409 if the user already has keys.
func (h *KeyHandler) EnableProtectionHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	var req dto.EnableProtectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	keyPair, err := h.keyUseCase.EnableProtection(c.Request.Context(), userID, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapKeyPairToResponse(keyPair))
}

// EscrowBackupHandler produces a KMS-protected recovery blob of the user's keys.
// POST /v1/keys/escrow-backup
// Returns 200 OK with the base64 blob.
func (h *KeyHandler) EscrowBackupHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	var req dto.EscrowBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	blob, err := h.keyUseCase.EscrowBackup(c.Request.Context(), userID, req.KeyURI)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("escrow backup created",
		slog.String("user_id", userID.String()),
		slog.Int("blob_size", len(blob)),
	)

	c.JSON(http.StatusOK, dto.MapEscrowBlobToResponse(blob))
}
