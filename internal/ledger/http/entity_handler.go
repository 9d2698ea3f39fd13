// Package http provides HTTP handlers for entity management.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/httputil"
	"github.com/hearthledger/hearthledger/internal/ledger/http/dto"
	ledgerUsecase "github.com/hearthledger/hearthledger/internal/ledger/usecase"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
	customValidation "github.com/hearthledger/hearthledger/internal/validation"
)

// EntityHandler handles HTTP requests for entity management.
type EntityHandler struct {
	entityUseCase ledgerUsecase.EntityUseCase
	logger        *slog.Logger
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(entityUseCase ledgerUsecase.EntityUseCase, logger *slog.Logger) *EntityHandler {
	return &EntityHandler{
		entityUseCase: entityUseCase,
		logger:        logger,
	}
}

// CreateEntityHandler creates an entity, encrypting sensitive fields when
// requested, and applies the caller's sharing defaults.
// POST /v1/entities
// Returns 201 Created with the plaintext view and the blanket share outcomes;
// 423 when encryption is requested with a locked session.
func (h *EntityHandler) CreateEntityHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	var req dto.CreateEntityRequest
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

	entity, outcomes, err := h.entityUseCase.CreateEntity(c.Request.Context(), &ledgerUsecase.CreateEntityInput{
		Type:    entityType,
		OwnerID: userID,
		Data:    req.Data,
		Encrypt: req.Encrypt,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("entity created",
		slog.String("entity_id", entity.ID.String()),
		slog.String("entity_type", string(entity.Type)),
		slog.Bool("encrypted", entity.IsEncrypted),
	)

	c.JSON(http.StatusCreated, dto.MapCreateResultToResponse(entity, outcomes))
}

// GetEntityHandler returns one entity decrypted for the caller.
// GET /v1/entities/:entity_type/:entity_id
// Returns 423 when the caller's session is locked; 403 when the entity is not
// shared with them.
func (h *EntityHandler) GetEntityHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}
	entityType, entityID, ok := h.entityParams(c)
	if !ok {
		return
	}

	entity, err := h.entityUseCase.GetEntity(c.Request.Context(), entityID, entityType, userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntityToResponse(entity))
}

// ListEntitiesHandler returns the entities of one type the caller can read
// right now. Unreadable entities are excluded rather than failing the list.
// GET /v1/entities/:entity_type
func (h *EntityHandler) ListEntitiesHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}
	entityType, ok := vaultDomain.ParseEntityType(c.Param("entity_type"))
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("unknown entity type"), h.logger)
		return
	}

	entities, err := h.entityUseCase.ListEntities(c.Request.Context(), userID, entityType)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntitiesToListResponse(entities))
}

// UpdateEntityHandler replaces the entity payload. Owner only; encrypted
// entities keep their existing DEK.
// PUT /v1/entities/:entity_type/:entity_id
func (h *EntityHandler) UpdateEntityHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}
	entityType, entityID, ok := h.entityParams(c)
	if !ok {
		return
	}

	var req dto.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entity, err := h.entityUseCase.UpdateEntity(c.Request.Context(), entityID, entityType, userID, req.Data)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntityToResponse(entity))
}

// DeleteEntityHandler removes the entity together with its DEK and shares.
// DELETE /v1/entities/:entity_type/:entity_id
// Returns 204 No Content.
func (h *EntityHandler) DeleteEntityHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}
	entityType, entityID, ok := h.entityParams(c)
	if !ok {
		return
	}

	if err := h.entityUseCase.DeleteEntity(c.Request.Context(), entityID, entityType, userID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("entity deleted",
		slog.String("entity_id", entityID.String()),
		slog.String("entity_type", string(entityType)),
	)

	c.Status(http.StatusNoContent)
}

func (h *EntityHandler) entityParams(c *gin.Context) (vaultDomain.EntityType, uuid.UUID, bool) {
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
