package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	vaultUsecase "github.com/hearthledger/hearthledger/internal/vault/usecase"
)

// RunEscrowBackup produces a KMS-protected recovery blob of a user's key pair
// and writes it base64-encoded. The blob can only be opened with the same KMS
// key, so it is safe to store off-site.
//
// Requirements: Database must be migrated and accessible, and the KMS key URI
// must be reachable.
func RunEscrowBackup(
	ctx context.Context,
	keyUseCase vaultUsecase.KeyUseCase,
	logger *slog.Logger,
	userIDStr string,
	keyURI string,
	format string,
	io IOTuple,
) error {
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	if keyURI == "" {
		return fmt.Errorf("key URI is required")
	}

	logger.Info("creating escrow backup", slog.String("user_id", userID.String()))

	blob, err := keyUseCase.EscrowBackup(ctx, userID, keyURI)
	if err != nil {
		return fmt.Errorf("failed to create escrow backup: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(blob)

	if format == "json" {
		payload := map[string]string{
			"user_id": userID.String(),
			"blob":    encoded,
		}
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	} else {
		fmt.Fprintln(io.Writer, encoded)
	}

	logger.Info("escrow backup created",
		slog.String("user_id", userID.String()),
		slog.Int("blob_size", len(blob)),
	)
	return nil
}
