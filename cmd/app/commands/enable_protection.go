package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	vaultUsecase "github.com/hearthledger/hearthledger/internal/vault/usecase"
)

// RunEnableProtection creates a key pair for a user, enabling field
// encryption for entities they create. Outputs the public key in either text
// or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunEnableProtection(
	ctx context.Context,
	keyUseCase vaultUsecase.KeyUseCase,
	logger *slog.Logger,
	userIDStr string,
	password string,
	format string,
	io IOTuple,
) error {
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	logger.Info("enabling protection", slog.String("user_id", userID.String()))

	keyPair, err := keyUseCase.EnableProtection(ctx, userID, password)
	if err != nil {
		return fmt.Errorf("failed to enable protection: %w", err)
	}

	if format == "json" {
		payload := map[string]string{
			"user_id":    keyPair.UserID.String(),
			"public_key": string(keyPair.PublicKey),
			"created_at": keyPair.CreatedAt.String(),
		}
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	} else {
		fmt.Fprintf(io.Writer, "Protection enabled for user %s\n", keyPair.UserID)
		fmt.Fprintf(io.Writer, "Public key:\n%s", keyPair.PublicKey)
	}

	logger.Info("protection enabled", slog.String("user_id", userID.String()))
	return nil
}
