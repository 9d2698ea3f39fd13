// Package integration provides end-to-end integration tests for the ledger API.
// Tests the full encryption, sharing, and session flows against both
// PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthledger/hearthledger/internal/app"
	"github.com/hearthledger/hearthledger/internal/config"
	internalHTTP "github.com/hearthledger/hearthledger/internal/http"
	ledgerDTO "github.com/hearthledger/hearthledger/internal/ledger/http/dto"
	sharingDTO "github.com/hearthledger/hearthledger/internal/sharing/http/dto"
	"github.com/hearthledger/hearthledger/internal/testutil"
	vaultDTO "github.com/hearthledger/hearthledger/internal/vault/http/dto"
)

// localKMSKeyURI is a gocloud.dev local keeper, so escrow tests need no
// external KMS.
const localKMSKeyURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request as the given user and returns the
// response and body. A nil UUID sends no identity header.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	userID uuid.UUID,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set(internalHTTP.UserIDHeader, userID.String())
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// enableProtection creates a key pair for the user over the API, which also
// opens their session.
func (ctx *integrationTestContext) enableProtection(t *testing.T, userID uuid.UUID, password string) {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/keys",
		map[string]string{"password": password}, userID)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "enable protection failed: %s", body)
}

// createEntity creates an entity over the API and returns the create response.
func (ctx *integrationTestContext) createEntity(
	t *testing.T,
	userID uuid.UUID,
	entityType string,
	data map[string]any,
	encrypt bool,
) ledgerDTO.CreateEntityResponse {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/entities", ledgerDTO.CreateEntityRequest{
		EntityType: entityType,
		Data:       data,
		Encrypt:    encrypt,
	}, userID)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create entity failed: %s", body)

	var created ledgerDTO.CreateEntityResponse
	require.NoError(t, json.Unmarshal(body, &created))
	return created
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		ServerHost:           "localhost",
		ServerPort:           8080,
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		LogLevel:             "error",
		EscrowKeyURI:         localKMSKeyURI,
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil")

	testServer := httptest.NewServer(handler)

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

// runForEachDriver runs the test body once per available database driver.
func runForEachDriver(t *testing.T, testFn func(t *testing.T, ctx *integrationTestContext)) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			ctx := setupIntegrationTest(t, driver)
			defer teardownIntegrationTest(t, ctx)
			testFn(t, ctx)
		})
	}
}

func TestIntegration_Health(t *testing.T) {
	runForEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, uuid.Nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "healthy")

		resp, body = ctx.makeRequest(t, http.MethodGet, "/ready", nil, uuid.Nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "ready")
	})
}

func TestIntegration_EncryptedEntityLifecycle(t *testing.T) {
	runForEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		owner := uuid.Must(uuid.NewV7())
		partner := uuid.Must(uuid.NewV7())

		ctx.enableProtection(t, owner, "OwnerPass123")

		accountData := map[string]any{
			"name":        "Joint Checking",
			"institution": "First National",
			"balance":     2500.75,
			"currency":    "USD",
		}
		created := ctx.createEntity(t, owner, "account", accountData, true)
		entityID := created.Entity.ID

		// The create response is the owner's plaintext view
		assert.True(t, created.Entity.IsEncrypted)
		assert.Equal(t, "Joint Checking", created.Entity.Data["name"])

		// The stored payload must not contain the plaintext
		var storedData []byte
		var query string
		if ctx.dbDriver == "postgres" {
			query = "SELECT data FROM entities WHERE id = $1"
		} else {
			query = "SELECT data FROM entities WHERE id = ?"
		}
		require.NoError(t, ctx.db.QueryRow(query, entityID).Scan(&storedData))
		assert.NotContains(t, string(storedData), "Joint Checking")
		assert.NotContains(t, string(storedData), "First National")

		// Owner reads it back decrypted
		resp, body := ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/account/%s", entityID), nil, owner)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched ledgerDTO.EntityResponse
		require.NoError(t, json.Unmarshal(body, &fetched))
		assert.Equal(t, "Joint Checking", fetched.Data["name"])
		assert.Equal(t, "First National", fetched.Data["institution"])
		assert.InDelta(t, 2500.75, fetched.Data["balance"], 0.001)
		assert.Equal(t, "USD", fetched.Data["currency"])

		// A stranger gets no access
		resp, _ = ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/account/%s", entityID), nil, partner)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		// Share it with the partner
		ctx.enableProtection(t, partner, "PartnerPass123")

		resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/shares", sharingDTO.CreateShareRequest{
			EntityType:  "account",
			EntityID:    entityID,
			RecipientID: partner.String(),
			Permissions: sharingDTO.PermissionsPayload{View: true, Reports: true},
		}, owner)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "create share failed: %s", body)

		// Partner can now read it decrypted
		resp, body = ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/account/%s", entityID), nil, partner)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &fetched))
		assert.Equal(t, "Joint Checking", fetched.Data["name"])

		// And sees it in their list
		resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/entities/account", nil, partner)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list ledgerDTO.ListEntitiesResponse
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list.Data, 1)
		assert.Equal(t, entityID, list.Data[0].ID)

		// Partner cannot update someone else's entity
		resp, _ = ctx.makeRequest(t, http.MethodPut,
			fmt.Sprintf("/v1/entities/account/%s", entityID),
			ledgerDTO.UpdateEntityRequest{Data: accountData}, partner)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		// Owner updates: same DEK, new payload
		updatedData := map[string]any{
			"name":        "Joint Checking",
			"institution": "First National",
			"balance":     3100.00,
			"currency":    "USD",
		}
		resp, body = ctx.makeRequest(t, http.MethodPut,
			fmt.Sprintf("/v1/entities/account/%s", entityID),
			ledgerDTO.UpdateEntityRequest{Data: updatedData}, owner)
		require.Equal(t, http.StatusOK, resp.StatusCode, "update failed: %s", body)

		// The partner's wrapped key still decrypts the updated payload
		resp, body = ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/account/%s", entityID), nil, partner)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &fetched))
		assert.InDelta(t, 3100.00, fetched.Data["balance"], 0.001)

		// Revoke the share: partner loses access immediately
		resp, _ = ctx.makeRequest(t, http.MethodDelete,
			fmt.Sprintf("/v1/shares/account/%s/%s", entityID, partner), nil, owner)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/account/%s", entityID), nil, partner)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		// Delete the entity: DEK and shares go with it
		resp, _ = ctx.makeRequest(t, http.MethodDelete,
			fmt.Sprintf("/v1/entities/account/%s", entityID), nil, owner)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/account/%s", entityID), nil, owner)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var dekCount int
		if ctx.dbDriver == "postgres" {
			query = "SELECT COUNT(*) FROM entity_deks WHERE entity_id = $1"
		} else {
			query = "SELECT COUNT(*) FROM entity_deks WHERE entity_id = ?"
		}
		require.NoError(t, ctx.db.QueryRow(query, entityID).Scan(&dekCount))
		assert.Equal(t, 0, dekCount)
	})
}

func TestIntegration_SessionLifecycle(t *testing.T) {
	runForEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		owner := uuid.Must(uuid.NewV7())
		ctx.enableProtection(t, owner, "OwnerPass123")

		created := ctx.createEntity(t, owner, "savings_goal", map[string]any{
			"name":           "Vacation",
			"target_amount":  5000.0,
			"current_amount": 1200.0,
		}, true)
		entityID := created.Entity.ID

		// Session starts unlocked
		resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/session", nil, owner)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var status vaultDTO.SessionStatusResponse
		require.NoError(t, json.Unmarshal(body, &status))
		assert.True(t, status.Unlocked)

		// Lock: reads of encrypted entities now fail with 423
		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/session/lock", nil, owner)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/savings_goal/%s", entityID), nil, owner)
		assert.Equal(t, http.StatusLocked, resp.StatusCode)

		// A locked session shortens the list instead of failing it
		resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/entities/savings_goal", nil, owner)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list ledgerDTO.ListEntitiesResponse
		require.NoError(t, json.Unmarshal(body, &list))
		assert.Empty(t, list.Data)

		// Wrong password is rejected
		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/session/unlock",
			map[string]string{"password": "WrongPass123"}, owner)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		// Correct password restores access
		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/session/unlock",
			map[string]string{"password": "OwnerPass123"}, owner)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, body = ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/savings_goal/%s", entityID), nil, owner)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched ledgerDTO.EntityResponse
		require.NoError(t, json.Unmarshal(body, &fetched))
		assert.Equal(t, "Vacation", fetched.Data["name"])
	})
}

func TestIntegration_SharingDefaults(t *testing.T) {
	runForEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		owner := uuid.Must(uuid.NewV7())
		partner := uuid.Must(uuid.NewV7())
		keyless := uuid.Must(uuid.NewV7())

		ctx.enableProtection(t, owner, "OwnerPass123")
		ctx.enableProtection(t, partner, "PartnerPass123")

		// Default for the partner and one for a recipient without keys
		for _, recipient := range []uuid.UUID{partner, keyless} {
			resp, body := ctx.makeRequest(t, http.MethodPut, "/v1/sharing-defaults",
				sharingDTO.SetDefaultRequest{
					RecipientID: recipient.String(),
					EntityType:  "transaction",
					Permissions: sharingDTO.PermissionsPayload{View: true},
				}, owner)
			require.Equal(t, http.StatusOK, resp.StatusCode, "set default failed: %s", body)
		}

		created := ctx.createEntity(t, owner, "transaction", map[string]any{
			"description": "Grocery run",
			"notes":       "weekly shop",
			"amount":      84.20,
		}, true)

		// One share applied, one skipped for the keyless recipient
		require.Len(t, created.ShareOutcomes, 2)
		outcomes := map[string]string{}
		for _, outcome := range created.ShareOutcomes {
			outcomes[outcome.RecipientID] = outcome.Status
		}
		assert.Equal(t, "shared", outcomes[partner.String()])
		assert.Equal(t, "skipped_no_key", outcomes[keyless.String()])

		// The partner can read the transaction without an explicit share
		resp, body := ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/transaction/%s", created.Entity.ID), nil, partner)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched ledgerDTO.EntityResponse
		require.NoError(t, json.Unmarshal(body, &fetched))
		assert.Equal(t, "Grocery run", fetched.Data["description"])

		// The keyless recipient still has nothing
		resp, _ = ctx.makeRequest(t, http.MethodGet,
			fmt.Sprintf("/v1/entities/transaction/%s", created.Entity.ID), nil, keyless)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestIntegration_EscrowBackup(t *testing.T) {
	runForEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		owner := uuid.Must(uuid.NewV7())
		ctx.enableProtection(t, owner, "OwnerPass123")

		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/keys/escrow-backup",
			map[string]string{"key_uri": localKMSKeyURI}, owner)
		require.Equal(t, http.StatusOK, resp.StatusCode, "escrow backup failed: %s", body)

		var backup vaultDTO.EscrowBackupResponse
		require.NoError(t, json.Unmarshal(body, &backup))
		assert.NotEmpty(t, backup.Blob)

		// No key pair yet for a fresh user
		stranger := uuid.Must(uuid.NewV7())
		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/keys/escrow-backup",
			map[string]string{"key_uri": localKMSKeyURI}, stranger)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
