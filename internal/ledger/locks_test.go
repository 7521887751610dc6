package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockTableExclusive(t *testing.T) {
	lt := newLockTable(50 * time.Millisecond)
	ctx := context.Background()

	release, err := lt.acquire(ctx, 1)
	require.NoError(t, err)

	_, err = lt.acquire(ctx, 1)
	require.ErrorIs(t, err, ErrConflict)

	release()

	release, err = lt.acquire(ctx, 1)
	require.NoError(t, err)
	release()
}

func TestLockTableIndependentUsers(t *testing.T) {
	lt := newLockTable(50 * time.Millisecond)
	ctx := context.Background()

	r1, err := lt.acquire(ctx, 1)
	require.NoError(t, err)
	defer r1()

	r2, err := lt.acquire(ctx, 2)
	require.NoError(t, err)
	defer r2()
}

func TestLockTableReleasesPartialHoldOnTimeout(t *testing.T) {
	lt := newLockTable(50 * time.Millisecond)
	ctx := context.Background()

	r2, err := lt.acquire(ctx, 2)
	require.NoError(t, err)

	// 1 is free, 2 is taken: the pair acquisition must time out and give 1
	// back.
	_, err = lt.acquire(ctx, 1, 2)
	require.ErrorIs(t, err, ErrConflict)

	r1, err := lt.acquire(ctx, 1)
	require.NoError(t, err)
	r1()
	r2()
}

func TestLockTableOrderedPairsDoNotDeadlock(t *testing.T) {
	lt := newLockTable(2 * time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := lt.acquire(ctx, 1, 2)
			assert.NoError(t, err)
			release()
		}()
		go func() {
			defer wg.Done()
			release, err := lt.acquire(ctx, 2, 1)
			assert.NoError(t, err)
			release()
		}()
	}
	wg.Wait()
}

func TestLockTableDuplicateIDs(t *testing.T) {
	lt := newLockTable(50 * time.Millisecond)

	release, err := lt.acquire(context.Background(), 7, 7)
	require.NoError(t, err)
	release()

	release, err = lt.acquire(context.Background(), 7)
	require.NoError(t, err)
	release()
}

func TestLockTableHonorsContext(t *testing.T) {
	lt := newLockTable(time.Minute)

	release, err := lt.acquire(context.Background(), 1)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = lt.acquire(ctx, 1)
	require.ErrorIs(t, err, ErrConflict)
}
