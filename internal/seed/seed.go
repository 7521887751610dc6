package seed

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MdShahnawaz474/Paytm-project/internal/ledger"
	"github.com/MdShahnawaz474/Paytm-project/internal/logger"
	"github.com/MdShahnawaz474/Paytm-project/internal/models"
)

const (
	seedPassword = "password123"
	seedProvider = "HDFC Bank"
	// 1000.00 in minor units
	openingBalance = 100000
)

var testUsers = []struct {
	Name   string
	Number string
	Email  string
}{
	{"Test User 1", "1111111111", "user1@test.com"},
	{"Test User 2", "2222222222", "user2@test.com"},
	{"Test User 3", "3333333333", "user3@test.com"},
}

// Run bootstraps demo users. Opening balances are established through the
// deposit reconciler (begin + settle Success) rather than written directly,
// so the ledger's own invariants hold from the first row.
func Run(db *gorm.DB, svc *ledger.Service) {
	ctx := context.Background()

	var count int64
	numbers := make([]string, 0, len(testUsers))
	for _, u := range testUsers {
		numbers = append(numbers, u.Number)
	}
	if err := db.Model(&models.User{}).Where("number IN ?", numbers).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count >= int64(len(testUsers)) {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	for _, u := range testUsers {
		user := models.User{Name: u.Name, Number: u.Number, Email: u.Email, Password: hashed}
		if err := db.Create(&user).Error; err != nil {
			logger.Log.Fatal("seed user failed", zap.Error(err))
		}

		dep, err := svc.BeginDeposit(ctx, uint64(user.ID), openingBalance, seedProvider)
		if err != nil {
			logger.Log.Fatal("seed deposit failed", zap.Error(err))
		}
		if _, err := svc.SettleDeposit(ctx, uint64(dep.ID), models.DepositSuccess); err != nil {
			logger.Log.Fatal("seed settlement failed", zap.Error(err))
		}
	}

	logger.Log.Info("seeded test users", zap.Int("count", len(testUsers)), zap.String("password", seedPassword))
}
