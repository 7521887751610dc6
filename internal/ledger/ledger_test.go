package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/MdShahnawaz474/Paytm-project/internal/models"
)

var testDBSeq atomic.Int64

// newTestService builds a ledger over a private in-memory sqlite database.
// The pool is capped at one connection so the shared-cache database survives
// for the whole test and concurrent writers queue instead of failing.
func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:ledgertest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Balance{},
		&models.P2PTransfer{},
		&models.OnRampDeposit{},
	))

	return New(db, zap.NewNop(), time.Second)
}

func createUser(t *testing.T, s *Service, name, number string) uint64 {
	t.Helper()
	u := models.User{Name: name, Number: number, Email: number + "@test.com"}
	require.NoError(t, s.db.Create(&u).Error)
	return uint64(u.ID)
}

// fund gives a user an opening balance through a settled deposit.
func fund(t *testing.T, s *Service, userID uint64, amount int64) {
	t.Helper()
	dep, err := s.BeginDeposit(context.Background(), userID, amount, "Test Bank")
	require.NoError(t, err)
	_, err = s.SettleDeposit(context.Background(), uint64(dep.ID), models.DepositSuccess)
	require.NoError(t, err)
}

func rawBalance(t *testing.T, s *Service, userID uint64) int64 {
	t.Helper()
	var bal models.Balance
	err := s.db.Where("user_id = ?", userID).First(&bal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	require.NoError(t, err)
	return bal.Amount
}

func transferCount(t *testing.T, s *Service) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&models.P2PTransfer{}).Count(&n).Error)
	return n
}
