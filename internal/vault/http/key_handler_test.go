package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hearthledger/hearthledger/internal/httputil"
	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
	"github.com/hearthledger/hearthledger/internal/vault/http/dto"
	"github.com/hearthledger/hearthledger/internal/vault/usecase/mocks"
)

// setupKeyHandler creates a test handler with mocked dependencies.
func setupKeyHandler(t *testing.T) (*KeyHandler, *mocks.MockKeyUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockKeyUseCase := &mocks.MockKeyUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewKeyHandler(mockKeyUseCase, logger), mockKeyUseCase
}

func TestKeyHandler_EnableProtectionHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupKeyHandler(t)

		userID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		keyPair := &vaultDomain.UserKeyPair{
			UserID:    userID,
			PublicKey: []byte("-----BEGIN PUBLIC KEY-----\nabc\n-----END PUBLIC KEY-----\n"),
			CreatedAt: now,
		}

		mockUseCase.On("EnableProtection", mock.Anything, userID, "Str0ngPassword").
			Return(keyPair, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys", dto.EnableProtectionRequest{
			Password: "Str0ngPassword",
		})
		httputil.SetUserID(c, userID)

		handler.EnableProtectionHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.KeyPairResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, userID.String(), response.UserID)
		assert.Equal(t, string(keyPair.PublicKey), response.PublicKey)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_KeyPairAlreadyExists", func(t *testing.T) {
		handler, mockUseCase := setupKeyHandler(t)

		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("EnableProtection", mock.Anything, userID, "Str0ngPassword").
			Return(nil, vaultDomain.ErrKeyPairExists).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys", dto.EnableProtectionRequest{
			Password: "Str0ngPassword",
		})
		httputil.SetUserID(c, userID)

		handler.EnableProtectionHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_WeakPassword", func(t *testing.T) {
		handler, mockUseCase := setupKeyHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/keys", dto.EnableProtectionRequest{
			Password: "short",
		})
		httputil.SetUserID(c, uuid.Must(uuid.NewV7()))

		handler.EnableProtectionHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "EnableProtection")
	})

	t.Run("Error_MissingUserIdentity", func(t *testing.T) {
		handler, _ := setupKeyHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/keys", dto.EnableProtectionRequest{
			Password: "Str0ngPassword",
		})

		handler.EnableProtectionHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestKeyHandler_EscrowBackupHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupKeyHandler(t)

		userID := uuid.Must(uuid.NewV7())
		blob := []byte("escrow-blob-bytes")
		keyURI := "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

		mockUseCase.On("EscrowBackup", mock.Anything, userID, keyURI).
			Return(blob, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/escrow-backup", dto.EscrowBackupRequest{
			KeyURI: keyURI,
		})
		httputil.SetUserID(c, userID)

		handler.EscrowBackupHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.EscrowBackupResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, base64.StdEncoding.EncodeToString(blob), response.Blob)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoKeyPair", func(t *testing.T) {
		handler, mockUseCase := setupKeyHandler(t)

		userID := uuid.Must(uuid.NewV7())
		keyURI := "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

		mockUseCase.On("EscrowBackup", mock.Anything, userID, keyURI).
			Return(nil, vaultDomain.ErrUserKeysNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/escrow-backup", dto.EscrowBackupRequest{
			KeyURI: keyURI,
		})
		httputil.SetUserID(c, userID)

		handler.EscrowBackupHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}
