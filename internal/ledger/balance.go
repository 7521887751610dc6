package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MdShahnawaz474/Paytm-project/internal/models"
)

// AvailableBalance is a user's spendable position in minor units.
type AvailableBalance struct {
	Available int64
	Locked    int64
}

// GetAvailableBalance returns the raw stored balance minus funds locked in
// Processing deposits. A user without a balance row has {0, 0}; that is not
// an error. This is a read-only projection and takes no lock, so the locked
// figure may be momentarily stale against a concurrent settlement.
func (s *Service) GetAvailableBalance(ctx context.Context, userID uint64) (AvailableBalance, error) {
	if userID == 0 {
		return AvailableBalance{}, fmt.Errorf("missing user identity: %w", ErrUnauthenticated)
	}

	var raw int64
	var bal models.Balance
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&bal).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		raw = 0
	case err != nil:
		return AvailableBalance{}, s.storage("read balance", err)
	default:
		raw = bal.Amount
	}

	var locked int64
	if err := s.db.WithContext(ctx).Model(&models.OnRampDeposit{}).
		Where("user_id = ? AND status = ?", userID, models.DepositProcessing).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&locked).Error; err != nil {
		return AvailableBalance{}, s.storage("sum locked deposits", err)
	}

	available := raw - locked
	if available < 0 {
		// Should not happen while the invariant holds; surface it loudly and
		// clamp what we report.
		s.log.Error("available balance below zero",
			zap.Uint64("user", userID),
			zap.Int64("raw", raw),
			zap.Int64("locked", locked))
		available = 0
	}
	return AvailableBalance{Available: available, Locked: locked}, nil
}
