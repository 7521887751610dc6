package models

import (
	"time"

	"gorm.io/gorm"
)

// All monetary amounts are integer minor units (paise).

type User struct {
	gorm.Model
	Name     string `gorm:"size:50;not null"`
	Number   string `gorm:"uniqueIndex;size:20;not null"`
	Email    string `gorm:"uniqueIndex;size:255"`
	Password string `gorm:"size:255"`
}

// Balance is the raw stored balance, one row per user. Created lazily on the
// first credit; mutated only under the per-user ledger lock.
type Balance struct {
	gorm.Model
	UserID uint64 `gorm:"uniqueIndex;not null"`
	Amount int64  `gorm:"not null;default:0"`
}

// P2PTransfer is an append-only record of a settled peer-to-peer movement.
// There is no pending state: a transfer either committed or does not exist.
type P2PTransfer struct {
	gorm.Model
	FromUserID uint64    `gorm:"index;not null"`
	ToUserID   uint64    `gorm:"index;not null"`
	Amount     int64     `gorm:"not null"`
	Timestamp  time.Time `gorm:"index;not null"`
}

const (
	DepositProcessing = "Processing"
	DepositSuccess    = "Success"
	DepositFailure    = "Failure"
)

// OnRampDeposit tracks an external bank deposit. While Processing, its amount
// is locked against the owner's available balance. Success and Failure are
// terminal.
type OnRampDeposit struct {
	gorm.Model
	UserID    uint64    `gorm:"index;not null"`
	Amount    int64     `gorm:"not null"`
	Provider  string    `gorm:"size:50;not null"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	Status    string    `gorm:"size:16;index;not null"`
	StartTime time.Time `gorm:"not null"`
}
