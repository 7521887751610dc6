// Package ledger is the transactional core of the wallet: the transfer
// engine, the balance accessor, the deposit reconciler and the read-only
// query layer. All state lives in the store; callers are identified by
// explicit user ids threaded through every operation.
package ledger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultLockTimeout = 3 * time.Second

type Service struct {
	db    *gorm.DB
	locks *lockTable
	log   *zap.Logger
}

// New builds a ledger service on top of db. lockTimeout bounds how long a
// request may wait for a user's balance lock before failing with ErrConflict;
// zero selects the default.
func New(db *gorm.DB, log *zap.Logger, lockTimeout time.Duration) *Service {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &Service{
		db:    db,
		locks: newLockTable(lockTimeout),
		log:   log,
	}
}

// storage logs an unexpected store failure and rolls it up to the
// ErrStorageUnavailable kind so nothing below the engine leaks past the
// boundary.
func (s *Service) storage(op string, err error) error {
	s.log.Error("storage failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
}
