package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MdShahnawaz474/Paytm-project/internal/models"
)

const (
	DirectionSent     = "sent"
	DirectionReceived = "received"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TransferView is one row of a user's transfer history, annotated with the
// direction relative to that user and the counterparty's display name.
type TransferView struct {
	ID           uint64    `json:"id"`
	Amount       int64     `json:"amount"`
	Timestamp    time.Time `json:"timestamp"`
	Direction    string    `json:"direction"`
	Counterparty string    `json:"counterparty"`
}

// ListTransfers returns the transfers the user took part in, ordered by
// timestamp (ids break ties so the per-sender commit order is preserved).
func (s *Service) ListTransfers(ctx context.Context, userID uint64, order string) ([]TransferView, error) {
	if userID == 0 {
		return nil, fmt.Errorf("missing user identity: %w", ErrUnauthenticated)
	}
	ord := "timestamp DESC, id DESC"
	if order == OrderAsc {
		ord = "timestamp ASC, id ASC"
	}

	var transfers []models.P2PTransfer
	if err := s.db.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order(ord).
		Find(&transfers).Error; err != nil {
		return nil, s.storage("list transfers", err)
	}

	names, err := s.counterpartyNames(ctx, userID, transfers)
	if err != nil {
		return nil, err
	}

	views := make([]TransferView, 0, len(transfers))
	for _, t := range transfers {
		v := TransferView{
			ID:        uint64(t.ID),
			Amount:    t.Amount,
			Timestamp: t.Timestamp,
		}
		if t.FromUserID == userID {
			v.Direction = DirectionSent
			v.Counterparty = names[t.ToUserID]
		} else {
			v.Direction = DirectionReceived
			v.Counterparty = names[t.FromUserID]
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *Service) counterpartyNames(ctx context.Context, userID uint64, transfers []models.P2PTransfer) (map[uint64]string, error) {
	ids := make([]uint64, 0, len(transfers))
	seen := make(map[uint64]bool)
	for _, t := range transfers {
		other := t.FromUserID
		if other == userID {
			other = t.ToUserID
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, s.storage("resolve counterparties", err)
	}
	names := make(map[uint64]string, len(users))
	for _, u := range users {
		names[uint64(u.ID)] = u.Name
	}
	return names, nil
}

// ListDeposits returns the user's on-ramp deposits, newest first.
func (s *Service) ListDeposits(ctx context.Context, userID uint64) ([]models.OnRampDeposit, error) {
	if userID == 0 {
		return nil, fmt.Errorf("missing user identity: %w", ErrUnauthenticated)
	}
	var deposits []models.OnRampDeposit
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC, id DESC").
		Find(&deposits).Error; err != nil {
		return nil, s.storage("list deposits", err)
	}
	return deposits, nil
}

// ResolveUserByNumber looks up a user by phone handle. Used by the login flow
// and by tests; the transfer engine resolves recipients itself.
func (s *Service) ResolveUserByNumber(ctx context.Context, number string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("number = ?", number).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no user with number %s: %w", number, ErrRecipientNotFound)
		}
		return nil, s.storage("resolve user", err)
	}
	return &user, nil
}
