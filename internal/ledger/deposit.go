package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MdShahnawaz474/Paytm-project/internal/models"
)

// BeginDeposit opens an on-ramp deposit in Processing state with a fresh
// provider token. The amount counts against the user's available balance
// until the bank settles it.
func (s *Service) BeginDeposit(ctx context.Context, userID uint64, amount int64, provider string) (*models.OnRampDeposit, error) {
	if userID == 0 {
		return nil, fmt.Errorf("missing user identity: %w", ErrUnauthenticated)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be a positive integer: %w", ErrInvalidInput)
	}
	if provider == "" {
		return nil, fmt.Errorf("missing provider: %w", ErrInvalidInput)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown user %d: %w", userID, ErrInvalidInput)
		}
		return nil, s.storage("resolve depositor", err)
	}

	dep := &models.OnRampDeposit{
		UserID:    userID,
		Amount:    amount,
		Provider:  provider,
		Token:     uuid.NewString(),
		Status:    models.DepositProcessing,
		StartTime: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(dep).Error; err != nil {
		return nil, s.storage("create deposit", err)
	}

	s.log.Info("deposit opened",
		zap.Uint64("user", userID),
		zap.Int64("amount", amount),
		zap.String("provider", provider),
		zap.Uint("deposit_id", dep.ID))
	return dep, nil
}

// SettleDeposit applies the bank's terminal outcome to a deposit. Success
// credits the raw balance inside the same transaction that flips the status,
// under the same per-user lock the transfer engine uses, so a settlement and
// an outgoing transfer for one user serialize. Failure changes no balance.
// Both transitions are terminal and idempotent: re-settling with the same
// outcome is a no-op, a different outcome is ErrConflict.
func (s *Service) SettleDeposit(ctx context.Context, depositID uint64, outcome string) (*models.OnRampDeposit, error) {
	if outcome != models.DepositSuccess && outcome != models.DepositFailure {
		return nil, fmt.Errorf("outcome %q: %w", outcome, ErrInvalidInput)
	}

	var dep models.OnRampDeposit
	if err := s.db.WithContext(ctx).First(&dep, depositID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown deposit %d: %w", depositID, ErrInvalidInput)
		}
		return nil, s.storage("load deposit", err)
	}

	release, err := s.locks.acquire(ctx, dep.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read under the lock; another settlement may have won the race.
		if err := tx.First(&dep, depositID).Error; err != nil {
			return err
		}
		if dep.Status != models.DepositProcessing {
			if dep.Status == outcome {
				return nil
			}
			return fmt.Errorf("deposit %d already %s: %w", depositID, dep.Status, ErrConflict)
		}
		if outcome == models.DepositSuccess {
			if err := creditBalance(tx, dep.UserID, dep.Amount); err != nil {
				return err
			}
		}
		dep.Status = outcome
		return tx.Model(&models.OnRampDeposit{}).
			Where("id = ?", dep.ID).
			Update("status", outcome).Error
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, s.storage("settle deposit", err)
	}

	s.log.Info("deposit settled",
		zap.Uint64("user", dep.UserID),
		zap.Uint("deposit_id", dep.ID),
		zap.String("outcome", outcome))
	return &dep, nil
}
