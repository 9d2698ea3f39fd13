package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/httputil"
	sharingDomain "github.com/hearthledger/hearthledger/internal/sharing/domain"
	"github.com/hearthledger/hearthledger/internal/sharing/http/dto"
	sharingUsecase "github.com/hearthledger/hearthledger/internal/sharing/usecase"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
	customValidation "github.com/hearthledger/hearthledger/internal/validation"
)

// DefaultHandler handles HTTP requests for sharing default management.
type DefaultHandler struct {
	defaultUseCase sharingUsecase.DefaultUseCase
	logger         *slog.Logger
}

// NewDefaultHandler creates a new sharing default handler.
func NewDefaultHandler(defaultUseCase sharingUsecase.DefaultUseCase, logger *slog.Logger) *DefaultHandler {
	return &DefaultHandler{
		defaultUseCase: defaultUseCase,
		logger:         logger,
	}
}

// SetDefaultHandler creates or replaces the default for one recipient and
// entity type. Only entities created afterwards are affected.
// PUT /v1/sharing-defaults
// Returns 200 OK with the stored default.
func (h *DefaultHandler) SetDefaultHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	var req dto.SetDefaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entityType, ok := vaultDomain.ParseEntityType(req.EntityType)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("unknown entity type"), h.logger)
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	def, err := h.defaultUseCase.SetDefault(c.Request.Context(), userID, recipientID, entityType,
		sharingDomain.Permissions{
			View:    req.Permissions.View,
			Combine: req.Permissions.Combine,
			Reports: req.Permissions.Reports,
		})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("sharing default set",
		slog.String("owner_id", userID.String()),
		slog.String("recipient_id", recipientID.String()),
		slog.String("entity_type", string(entityType)),
	)

	c.JSON(http.StatusOK, dto.MapDefaultToResponse(def))
}

// ListDefaultsHandler returns all of the caller's sharing defaults.
// GET /v1/sharing-defaults
func (h *DefaultHandler) ListDefaultsHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	defaults, err := h.defaultUseCase.ListDefaults(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDefaultsToListResponse(defaults))
}

// DeleteDefaultHandler removes one sharing default. Shares already created
// from it stay in place.
// DELETE /v1/sharing-defaults/:recipient_id/:entity_type
// Returns 204 No Content; 404 when no such default exists.
func (h *DefaultHandler) DeleteDefaultHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	recipientID, err := uuid.Parse(c.Param("recipient_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	entityType, ok := vaultDomain.ParseEntityType(c.Param("entity_type"))
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("unknown entity type"), h.logger)
		return
	}

	if err := h.defaultUseCase.DeleteDefault(c.Request.Context(), userID, recipientID, entityType); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
