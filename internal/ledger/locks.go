package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// lockTable hands out one exclusive lock per user id. Every mutation of a
// user's raw balance (outgoing transfer, deposit settlement) runs inside that
// user's critical section, so a concurrent writer can never act on a stale
// balance read. Locks are buffered channels: a send acquires, a receive
// releases, and acquisition can be abandoned on timeout.
type lockTable struct {
	mu      sync.Mutex
	locks   map[uint64]chan struct{}
	timeout time.Duration
}

func newLockTable(timeout time.Duration) *lockTable {
	return &lockTable{
		locks:   make(map[uint64]chan struct{}),
		timeout: timeout,
	}
}

func (t *lockTable) lockFor(id uint64) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		t.locks[id] = ch
	}
	return ch
}

// acquire takes the locks for the given user ids, always in ascending id
// order so two transfers that are mirror images of each other (A to B racing
// B to A) cannot deadlock. The whole acquisition shares one bounded wait;
// on timeout or context cancellation everything already held is released and
// ErrConflict is returned so the caller can retry with backoff.
func (t *lockTable) acquire(ctx context.Context, ids ...uint64) (release func(), err error) {
	sorted := append([]uint64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	var held []chan struct{}
	release = func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	var prev uint64
	for i, id := range sorted {
		if i > 0 && id == prev {
			continue
		}
		prev = id
		ch := t.lockFor(id)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-timer.C:
			release()
			return nil, fmt.Errorf("lock wait for user %d timed out: %w", id, ErrConflict)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("lock wait for user %d canceled: %w", id, ErrConflict)
		}
	}
	return release, nil
}
