package holdstore

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisTestStore(t *testing.T) (*RedisStore, redismock.ClientMock, time.Time) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, zap.NewNop())

	frozen := time.UnixMilli(1700000000000)
	s.now = func() time.Time { return frozen }

	return s, mock, frozen
}

func TestRedisAcquireSuccess(t *testing.T) {
	s, mock, now := newRedisTestStore(t)
	defer mock.ClearExpect()

	mapID := uuid.New()
	seatID := uuid.New()
	exp := now.Add(2 * time.Minute)

	mock.ExpectEval(acquireScript,
		[]string{seatHashKey(mapID, seatID), chartSetKey(mapID)},
		"token-a", "held", "buyer",
		strconv.FormatInt(now.UnixMilli(), 10),
		strconv.FormatInt(exp.UnixMilli(), 10),
		seatID.String(),
	).SetVal("ok")

	hold, err := s.Acquire(context.Background(), mapID, seatID, "token-a", 2*time.Minute, KindBuyer)
	require.NoError(t, err)
	assert.Equal(t, "token-a", hold.Token)
	assert.Equal(t, exp, hold.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisAcquireContention(t *testing.T) {
	s, mock, now := newRedisTestStore(t)
	defer mock.ClearExpect()

	mapID := uuid.New()
	seatID := uuid.New()
	exp := now.Add(2 * time.Minute)

	mock.ExpectEval(acquireScript,
		[]string{seatHashKey(mapID, seatID), chartSetKey(mapID)},
		"token-b", "held", "buyer",
		strconv.FormatInt(now.UnixMilli(), 10),
		strconv.FormatInt(exp.UnixMilli(), 10),
		seatID.String(),
	).SetVal("held")

	_, err := s.Acquire(context.Background(), mapID, seatID, "token-b", 2*time.Minute, KindBuyer)
	assert.ErrorIs(t, err, ErrSeatHeld)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisAcquireOrganizerPersists(t *testing.T) {
	s, mock, now := newRedisTestStore(t)
	defer mock.ClearExpect()

	mapID := uuid.New()
	seatID := uuid.New()

	// Organizer reservations carry no expiry: expMs is 0.
	mock.ExpectEval(acquireScript,
		[]string{seatHashKey(mapID, seatID), chartSetKey(mapID)},
		"box-office", "reserved", "organizer",
		strconv.FormatInt(now.UnixMilli(), 10),
		"0",
		seatID.String(),
	).SetVal("ok")

	hold, err := s.Acquire(context.Background(), mapID, seatID, "box-office", time.Minute, KindOrganizer)
	require.NoError(t, err)
	assert.True(t, hold.ExpiresAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCommitOutcomes(t *testing.T) {
	cases := []struct {
		script  string
		wantErr error
	}{
		{"ok", nil},
		{"expired", ErrHoldExpired},
		{"notholder", ErrNotHolder},
		{"nohold", ErrNotHolder},
		{"sold", ErrSeatSold},
	}

	for _, tc := range cases {
		t.Run(tc.script, func(t *testing.T) {
			s, mock, now := newRedisTestStore(t)
			defer mock.ClearExpect()

			mapID := uuid.New()
			seatID := uuid.New()

			mock.ExpectEval(commitScript,
				[]string{seatHashKey(mapID, seatID)},
				"token-a",
				strconv.FormatInt(now.UnixMilli(), 10),
			).SetVal(tc.script)

			err := s.Commit(context.Background(), mapID, seatID, "token-a")
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisReleaseIdempotent(t *testing.T) {
	s, mock, now := newRedisTestStore(t)
	defer mock.ClearExpect()

	mapID := uuid.New()
	seatID := uuid.New()

	mock.ExpectEval(releaseScript,
		[]string{seatHashKey(mapID, seatID)},
		"token-a",
		strconv.FormatInt(now.UnixMilli(), 10),
	).SetVal("ok")

	assert.NoError(t, s.Release(context.Background(), mapID, seatID, "token-a"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStatusInterpretsHash(t *testing.T) {
	s, mock, now := newRedisTestStore(t)
	defer mock.ClearExpect()

	mapID := uuid.New()
	seatID := uuid.New()

	mock.ExpectHGetAll(seatHashKey(mapID, seatID)).SetVal(map[string]string{
		"status":     "held",
		"token":      "token-a",
		"kind":       "buyer",
		"expires_at": strconv.FormatInt(now.Add(time.Minute).UnixMilli(), 10),
	})

	status, hold, err := s.Status(context.Background(), mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, status)
	require.NotNil(t, hold)
	assert.Equal(t, "token-a", hold.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStatusLazyExpiry(t *testing.T) {
	s, mock, now := newRedisTestStore(t)
	defer mock.ClearExpect()

	mapID := uuid.New()
	seatID := uuid.New()

	// Key outlived its PEXPIREAT (clock skew): the stored expiry decides.
	mock.ExpectHGetAll(seatHashKey(mapID, seatID)).SetVal(map[string]string{
		"status":     "held",
		"token":      "token-a",
		"kind":       "buyer",
		"expires_at": strconv.FormatInt(now.Add(-time.Second).UnixMilli(), 10),
	})

	status, hold, err := s.Status(context.Background(), mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, status)
	assert.Nil(t, hold)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStatusMissingKey(t *testing.T) {
	s, mock, _ := newRedisTestStore(t)
	defer mock.ClearExpect()

	mapID := uuid.New()
	seatID := uuid.New()

	mock.ExpectHGetAll(seatHashKey(mapID, seatID)).SetVal(map[string]string{})

	status, hold, err := s.Status(context.Background(), mapID, seatID)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, status)
	assert.Nil(t, hold)
}

func TestRedisBulkStatus(t *testing.T) {
	s, mock, now := newRedisTestStore(t)
	defer mock.ClearExpect()

	mapID := uuid.New()
	held := uuid.New()
	sold := uuid.New()

	mock.ExpectSMembers(chartSetKey(mapID)).SetVal([]string{held.String(), sold.String()})
	mock.ExpectHGetAll(seatHashKey(mapID, held)).SetVal(map[string]string{
		"status":     "held",
		"token":      "token-a",
		"kind":       "buyer",
		"expires_at": strconv.FormatInt(now.Add(time.Minute).UnixMilli(), 10),
	})
	mock.ExpectHGetAll(seatHashKey(mapID, sold)).SetVal(map[string]string{
		"status":     "sold",
		"token":      "token-b",
		"kind":       "buyer",
		"expires_at": "0",
	})

	statuses, err := s.BulkStatus(context.Background(), mapID)
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, statuses[held])
	assert.Equal(t, StatusSold, statuses[sold])
	assert.NoError(t, mock.ExpectationsWereMet())
}
