package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MdShahnawaz474/Paytm-project/internal/models"
)

// Transfer moves amount minor units from the sender to the user owning
// toNumber. The debit, the credit and the transfer record commit as a single
// transaction while both balance rows are held under the per-user lock, so
// concurrent transfers from the same sender serialize and can never both
// spend the same funds. On any failure nothing is mutated.
func (s *Service) Transfer(ctx context.Context, fromUserID uint64, toNumber string, amount int64) (*models.P2PTransfer, error) {
	if fromUserID == 0 {
		return nil, fmt.Errorf("missing sender identity: %w", ErrUnauthenticated)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be a positive integer: %w", ErrInvalidInput)
	}
	if toNumber == "" {
		return nil, fmt.Errorf("missing recipient number: %w", ErrInvalidInput)
	}

	var recipient models.User
	if err := s.db.WithContext(ctx).Where("number = ?", toNumber).First(&recipient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no user with number %s: %w", toNumber, ErrRecipientNotFound)
		}
		return nil, s.storage("resolve recipient", err)
	}
	toUserID := uint64(recipient.ID)
	if toUserID == fromUserID {
		return nil, fmt.Errorf("transfer to self: %w", ErrInvalidInput)
	}

	release, err := s.locks.acquire(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	defer release()

	var record *models.P2PTransfer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sender models.Balance
		if err := tx.Where("user_id = ?", fromUserID).First(&sender).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("balance 0 below %d: %w", amount, ErrInsufficientFunds)
			}
			return err
		}
		if sender.Amount < amount {
			return fmt.Errorf("balance %d below %d: %w", sender.Amount, amount, ErrInsufficientFunds)
		}
		if err := tx.Model(&models.Balance{}).
			Where("user_id = ?", fromUserID).
			Update("amount", gorm.Expr("amount - ?", amount)).Error; err != nil {
			return err
		}
		if err := creditBalance(tx, toUserID, amount); err != nil {
			return err
		}
		record = &models.P2PTransfer{
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Amount:     amount,
			Timestamp:  time.Now().UTC(),
		}
		return tx.Create(record).Error
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, err
		}
		return nil, s.storage("commit transfer", err)
	}

	s.log.Info("p2p transfer committed",
		zap.Uint64("from", fromUserID),
		zap.Uint64("to", toUserID),
		zap.Int64("amount", amount),
		zap.Uint("transfer_id", record.ID))
	return record, nil
}

// creditBalance adds amount to userID's raw balance, creating the row on the
// user's first incoming credit. Callers must hold the user's lock and run
// inside a transaction.
func creditBalance(tx *gorm.DB, userID uint64, amount int64) error {
	res := tx.Model(&models.Balance{}).
		Where("user_id = ?", userID).
		Update("amount", gorm.Expr("amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&models.Balance{UserID: userID, Amount: amount}).Error
	}
	return nil
}
