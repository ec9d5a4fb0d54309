package holdstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore(0, zap.NewNop())
}

func TestAcquireAndStatus(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	hold, err := s.Acquire(ctx, mapID, seatID, "token-a", time.Minute, KindBuyer)
	require.NoError(t, err)
	assert.Equal(t, "token-a", hold.Token)
	assert.False(t, hold.ExpiresAt.IsZero())

	status, live, err := s.Status(ctx, mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, status)
	require.NotNil(t, live)
	assert.Equal(t, "token-a", live.Token)
}

func TestAtMostOneHolder(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	const n = 64
	var wg sync.WaitGroup
	results := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := uuid.NewString()
			_, err := s.Acquire(ctx, mapID, seatID, token, time.Minute, KindBuyer)
			results[i] = err
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSeatHeld):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one concurrent acquire must win")
	assert.Equal(t, n-1, losses)
}

func TestReacquireSameTokenRefreshes(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	first, err := s.Acquire(ctx, mapID, seatID, "token-a", time.Minute, KindBuyer)
	require.NoError(t, err)

	second, err := s.Acquire(ctx, mapID, seatID, "token-a", 2*time.Minute, KindBuyer)
	require.NoError(t, err)
	assert.True(t, second.ExpiresAt.After(first.ExpiresAt))
}

func TestExpiredHoldIsAvailable(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	base := time.Now()
	s.now = func() time.Time { return base }

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", 2*time.Second, KindBuyer)
	require.NoError(t, err)

	// Before expiry another token loses.
	s.now = func() time.Time { return base.Add(time.Second) }
	_, err = s.Acquire(ctx, mapID, seatID, "token-b", 2*time.Second, KindBuyer)
	assert.ErrorIs(t, err, ErrSeatHeld)

	// At exactly the expiry instant the hold is no longer valid.
	s.now = func() time.Time { return base.Add(2 * time.Second) }

	status, _, err := s.Status(ctx, mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, status)

	_, err = s.Acquire(ctx, mapID, seatID, "token-b", 2*time.Second, KindBuyer)
	assert.NoError(t, err)
}

func TestCommitAfterExpiryFails(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	base := time.Now()
	s.now = func() time.Time { return base }

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", 2*time.Second, KindBuyer)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Second) }
	err = s.Commit(ctx, mapID, seatID, "token-a")
	assert.ErrorIs(t, err, ErrHoldExpired)

	// The seat went back to the pool, a fresh hold and commit succeed.
	_, err = s.Acquire(ctx, mapID, seatID, "token-b", 2*time.Second, KindBuyer)
	require.NoError(t, err)
	assert.NoError(t, s.Commit(ctx, mapID, seatID, "token-b"))
}

func TestStaleCommitAfterRehold(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	base := time.Now()
	s.now = func() time.Time { return base }

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", 2*time.Second, KindBuyer)
	require.NoError(t, err)

	// A's hold lapses and another buyer takes the seat over.
	s.now = func() time.Time { return base.Add(2 * time.Second) }
	_, err = s.Acquire(ctx, mapID, seatID, "token-b", 2*time.Second, KindBuyer)
	require.NoError(t, err)

	// A's commit reports expiry, not a foreign hold.
	assert.ErrorIs(t, s.Commit(ctx, mapID, seatID, "token-a"), ErrHoldExpired)
	// A's release is a no-op and must not disturb B.
	assert.NoError(t, s.Release(ctx, mapID, seatID, "token-a"))

	status, live, err := s.Status(ctx, mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, status)
	require.NotNil(t, live)
	assert.Equal(t, "token-b", live.Token)

	assert.NoError(t, s.Commit(ctx, mapID, seatID, "token-b"))
}

func TestNoDoubleSell(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", time.Minute, KindBuyer)
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, mapID, seatID, "token-a"))

	// Any further transition fails for every token, including the buyer's.
	assert.ErrorIs(t, s.Commit(ctx, mapID, seatID, "token-a"), ErrSeatSold)
	assert.ErrorIs(t, s.Commit(ctx, mapID, seatID, "token-b"), ErrSeatSold)

	_, err = s.Acquire(ctx, mapID, seatID, "token-b", time.Minute, KindBuyer)
	assert.ErrorIs(t, err, ErrSeatSold)

	status, _, err := s.Status(ctx, mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusSold, status)
}

func TestConcurrentCommitSingleWinner(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()

	// Each goroutine first races for the hold, the winner commits.
	const n = 32
	seatID := uuid.New()

	var wg sync.WaitGroup
	var sold int64
	var mu sync.Mutex

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := uuid.NewString()
			if _, err := s.Acquire(ctx, mapID, seatID, token, time.Minute, KindBuyer); err != nil {
				return
			}
			if err := s.Commit(ctx, mapID, seatID, token); err == nil {
				mu.Lock()
				sold++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, sold)
}

func TestCommitByNonHolder(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", time.Minute, KindBuyer)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Commit(ctx, mapID, seatID, "token-b"), ErrNotHolder)
	assert.ErrorIs(t, s.Commit(ctx, mapID, uuid.New(), "token-a"), ErrNotHolder)
}

func TestReleaseIdempotent(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", time.Minute, KindBuyer)
	require.NoError(t, err)

	require.NoError(t, s.Release(ctx, mapID, seatID, "token-a"))
	// Releasing again, or releasing a seat that was never held, is a no-op.
	assert.NoError(t, s.Release(ctx, mapID, seatID, "token-a"))
	assert.NoError(t, s.Release(ctx, mapID, uuid.New(), "token-a"))
}

func TestReleaseByNonHolder(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", time.Minute, KindBuyer)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Release(ctx, mapID, seatID, "token-b"), ErrNotHolder)

	// The hold survived the failed release.
	status, _, err := s.Status(ctx, mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, status)
}

func TestReleaseExpiredHoldIsNoop(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	base := time.Now()
	s.now = func() time.Time { return base }

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", time.Second, KindBuyer)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Second) }
	// Even a wrong token releasing an expired hold is not an error.
	assert.NoError(t, s.Release(ctx, mapID, seatID, "token-b"))
}

func TestOrganizerReserveExemptFromExpiry(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	base := time.Now()
	s.now = func() time.Time { return base }

	hold, err := s.Acquire(ctx, mapID, seatID, "box-office", 0, KindOrganizer)
	require.NoError(t, err)
	assert.True(t, hold.ExpiresAt.IsZero())

	// Days later it is still reserved.
	s.now = func() time.Time { return base.Add(72 * time.Hour) }

	status, _, err := s.Status(ctx, mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusReserved, status)

	_, err = s.Acquire(ctx, mapID, seatID, "token-a", time.Minute, KindBuyer)
	assert.ErrorIs(t, err, ErrSeatHeld)
}

func TestBulkStatus(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	otherMap := uuid.New()

	heldSeat := uuid.New()
	soldSeat := uuid.New()
	reservedSeat := uuid.New()
	expiredSeat := uuid.New()

	base := time.Now()
	s.now = func() time.Time { return base }

	_, err := s.Acquire(ctx, mapID, heldSeat, "a", time.Minute, KindBuyer)
	require.NoError(t, err)
	_, err = s.Acquire(ctx, mapID, soldSeat, "b", time.Minute, KindBuyer)
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, mapID, soldSeat, "b"))
	_, err = s.Acquire(ctx, mapID, reservedSeat, "box-office", 0, KindOrganizer)
	require.NoError(t, err)
	_, err = s.Acquire(ctx, mapID, expiredSeat, "c", time.Second, KindBuyer)
	require.NoError(t, err)
	_, err = s.Acquire(ctx, otherMap, uuid.New(), "d", time.Minute, KindBuyer)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(10 * time.Second) }

	statuses, err := s.BulkStatus(ctx, mapID)
	require.NoError(t, err)

	assert.Equal(t, SeatStatus(StatusHeld), statuses[heldSeat])
	assert.Equal(t, SeatStatus(StatusSold), statuses[soldSeat])
	assert.Equal(t, SeatStatus(StatusReserved), statuses[reservedSeat])
	_, present := statuses[expiredSeat]
	assert.False(t, present, "expired hold must not appear")
	assert.Len(t, statuses, 3)
}

func TestSweeperDropsExpiredHolds(t *testing.T) {
	s := NewMemoryStore(10*time.Millisecond, zap.NewNop())
	defer s.Close()

	ctx := context.Background()
	mapID := uuid.New()
	seatID := uuid.New()

	_, err := s.Acquire(ctx, mapID, seatID, "token-a", 5*time.Millisecond, KindBuyer)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.seats) == 0
	}, time.Second, 10*time.Millisecond)
}
