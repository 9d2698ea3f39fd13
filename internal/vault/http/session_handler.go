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

// SessionHandler handles HTTP requests for password session management.
type SessionHandler struct {
	keyUseCase vaultUsecase.KeyUseCase
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(keyUseCase vaultUsecase.KeyUseCase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		keyUseCase: keyUseCase,
		logger:     logger,
	}
}

// UnlockHandler verifies the password and opens the user's session.
// POST /v1/session/unlock
// Returns 204 No Content; 401 on a wrong password.
func (h *SessionHandler) UnlockHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	var req dto.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.keyUseCase.Unlock(c.Request.Context(), userID, req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("session unlocked", slog.String("user_id", userID.String()))
	c.Status(http.StatusNoContent)
}

// LockHandler clears the user's session key.
// POST /v1/session/lock
// Returns 204 No Content. Locking an already locked session is a no-op.
func (h *SessionHandler) LockHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	h.keyUseCase.Lock(userID)
	h.logger.Info("session locked", slog.String("user_id", userID.String()))
	c.Status(http.StatusNoContent)
}

// LockAllHandler clears every session key.
// POST /v1/session/lock-all
// Returns 204 No Content.
func (h *SessionHandler) LockAllHandler(c *gin.Context) {
	h.keyUseCase.LockAll()
	h.logger.Info("all sessions locked")
	c.Status(http.StatusNoContent)
}

// StatusHandler reports whether the user's session is unlocked.
// GET /v1/session
// Returns 200 OK with the unlocked flag.
func (h *SessionHandler) StatusHandler(c *gin.Context) {
	userID, ok := httputil.UserIDFromContext(c)
	if !ok {
		httputil.HandleBadRequestGin(c, errors.New("missing user identity"), h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SessionStatusResponse{
		Unlocked: h.keyUseCase.IsUnlocked(userID),
	})
}
