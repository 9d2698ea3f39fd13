// Package http provides HTTP handlers for share and sharing default management.
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

// ShareHandler handles HTTP requests for per-entity share management.
type ShareHandler struct {
	shareUseCase sharingUsecase.ShareUseCase
	logger       *slog.Logger
}

// NewShareHandler creates a new share handler.
func NewShareHandler(shareUseCase sharingUsecase.ShareUseCase, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		shareUseCase: shareUseCase,
		logger:       logger,
	}
}

// CreateShareHandler grants a recipient decrypt access to one entity.
// POST /v1/shares
// Returns 201 Created; 423 when the owner's session is locked; 409 when the
// grant already exists.
func (h *ShareHandler) CreateShareHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	var req dto.CreateShareRequest
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
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	share, err := h.shareUseCase.CreateShare(c.Request.Context(), &sharingUsecase.CreateShareInput{
		EntityType:  entityType,
		EntityID:    entityID,
		OwnerID:     userID,
		RecipientID: recipientID,
		Permissions: sharingDomain.Permissions{
			View:    req.Permissions.View,
			Combine: req.Permissions.Combine,
			Reports: req.Permissions.Reports,
		},
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("share created",
		slog.String("entity_id", entityID.String()),
		slog.String("recipient_id", recipientID.String()),
	)

	c.JSON(http.StatusCreated, dto.MapShareToResponse(share))
}

// ListSharesHandler returns every grant on one entity.
// GET /v1/shares/:entity_type/:entity_id
func (h *ShareHandler) ListSharesHandler(c *gin.Context) {
	entityType, entityID, ok := h.entityParams(c)
	if !ok {
		return
	}

	shares, err := h.shareUseCase.ListShares(c.Request.Context(), entityID, entityType)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSharesToListResponse(shares))
}

// UpdatePermissionsHandler changes the permission flags on an existing grant.
// PUT /v1/shares/:entity_type/:entity_id/:recipient_id
// Returns 204 No Content; 404 when the grant does not exist.
func (h *ShareHandler) UpdatePermissionsHandler(c *gin.Context) {
	entityType, entityID, ok := h.entityParams(c)
	if !ok {
		return
	}
	recipientID, err := uuid.Parse(c.Param("recipient_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.UpdateSharePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	err = h.shareUseCase.UpdatePermissions(c.Request.Context(), entityID, entityType, recipientID,
		sharingDomain.Permissions{
			View:    req.Permissions.View,
			Combine: req.Permissions.Combine,
			Reports: req.Permissions.Reports,
		})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// RevokeShareHandler removes a grant and its wrapped key copy. The recipient
// loses decrypt access immediately.
// DELETE /v1/shares/:entity_type/:entity_id/:recipient_id
// Returns 204 No Content; 404 when the grant does not exist.
func (h *ShareHandler) RevokeShareHandler(c *gin.Context) {
	entityType, entityID, ok := h.entityParams(c)
	if !ok {
		return
	}
	recipientID, err := uuid.Parse(c.Param("recipient_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.shareUseCase.RevokeShare(c.Request.Context(), entityID, entityType, recipientID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("share revoked",
		slog.String("entity_id", entityID.String()),
		slog.String("recipient_id", recipientID.String()),
	)

	c.Status(http.StatusNoContent)
}

func (h *ShareHandler) entityParams(c *gin.Context) (vaultDomain.EntityType, uuid.UUID, bool) {
	entityType, ok := vaultDomain.ParseEntityType(c.Param("entity_type"))
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("unknown entity type"), h.logger)
		return "", uuid.Nil, false
	}
	entityID, err := uuid.Parse(c.Param("entity_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return "", uuid.Nil, false
	}
	return entityType, entityID, true
}
