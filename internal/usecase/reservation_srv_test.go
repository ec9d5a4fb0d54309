package usecase

import (
	"context"
	"testing"
	"time"

	"seat-chart/internal/data/holdstore"
	"seat-chart/internal/data/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reservationFixture struct {
	repo       *repository.Repository
	store      *holdstore.MemoryStore
	mapID      uuid.UUID
	categoryID uuid.UUID
	seatV1     uuid.UUID
	seatV2     uuid.UUID
}

func newReservationService(t *testing.T) (ReservationService, *reservationFixture) {
	t.Helper()

	repo := newStubRepository()
	mapID, categoryID := seedChart(repo, "150.00")

	store := holdstore.NewMemoryStore(0, zap.NewNop())
	t.Cleanup(func() { store.Close() })

	fx := &reservationFixture{
		repo:       repo,
		store:      store,
		mapID:      mapID,
		categoryID: categoryID,
		seatV1:     seedSeat(repo, mapID, categoryID, "V1", 10, 10),
		seatV2:     seedSeat(repo, mapID, categoryID, "V2", 20, 10),
	}

	return NewReservationService(repo, store, testConfig(), zap.NewNop()), fx
}

// Two buyers race for the same seat; the loser can only take it after the
// winner's hold lapses, and the winner's stale commit is refused.
func TestHoldRaceAndExpiry(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	holdA, err := service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-A", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "token-A", holdA.Token)

	_, err = service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-B", 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrSeatUnavailable)

	time.Sleep(80 * time.Millisecond)

	_, err = service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-B", time.Minute)
	require.NoError(t, err)

	// A's hold lapsed before B took the seat, so A's commit reports expiry.
	err = service.Commit(ctx, fx.mapID, fx.seatV1, "token-A")
	assert.ErrorIs(t, err, ErrHoldExpired)
}

func TestCommitAtExpiryInstantFails(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	_, err := service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-A", 30*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	err = service.Commit(ctx, fx.mapID, fx.seatV1, "token-A")
	assert.ErrorIs(t, err, ErrHoldExpired)

	status, err := service.StatusOf(ctx, fx.mapID, fx.seatV1)
	require.NoError(t, err)
	assert.Equal(t, holdstore.StatusAvailable, status)
}

func TestCommitRecordsSale(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	_, err := service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-A", time.Minute)
	require.NoError(t, err)
	require.NoError(t, service.Commit(ctx, fx.mapID, fx.seatV1, "token-A"))

	status, err := service.StatusOf(ctx, fx.mapID, fx.seatV1)
	require.NoError(t, err)
	assert.Equal(t, holdstore.StatusSold, status)

	// Sold is terminal.
	_, err = service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-B", time.Minute)
	assert.ErrorIs(t, err, ErrSeatUnavailable)

	sales, err := fx.repo.Sale.FindBySeatMapID(ctx, fx.mapID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, fx.seatV1, sales[0].SeatID)
	assert.Equal(t, "token-A", sales[0].HolderToken)
	assert.True(t, sales[0].Price.Equal(decimal.RequireFromString("150.00")))
}

func TestSalesListing(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	sales, err := service.Sales(ctx, fx.mapID)
	require.NoError(t, err)
	assert.Empty(t, sales)

	_, err = service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-A", time.Minute)
	require.NoError(t, err)
	require.NoError(t, service.Commit(ctx, fx.mapID, fx.seatV1, "token-A"))

	_, err = service.RequestHold(ctx, fx.mapID, fx.seatV2, "token-B", time.Minute)
	require.NoError(t, err)
	require.NoError(t, service.Commit(ctx, fx.mapID, fx.seatV2, "token-B"))

	sales, err = service.Sales(ctx, fx.mapID)
	require.NoError(t, err)
	require.Len(t, sales, 2)

	seatIDs := []uuid.UUID{sales[0].SeatID, sales[1].SeatID}
	assert.ElementsMatch(t, []uuid.UUID{fx.seatV1, fx.seatV2}, seatIDs)

	_, err = service.Sales(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMapNotFound)
}

func TestReleaseReturnsSeatToPool(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	_, err := service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-A", time.Minute)
	require.NoError(t, err)

	require.NoError(t, service.ReleaseHold(ctx, fx.mapID, fx.seatV1, "token-A"))
	// Releasing again is a no-op.
	require.NoError(t, service.ReleaseHold(ctx, fx.mapID, fx.seatV1, "token-A"))

	_, err = service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-B", time.Minute)
	require.NoError(t, err)

	// A no longer owns the live hold.
	err = service.ReleaseHold(ctx, fx.mapID, fx.seatV1, "token-A")
	assert.ErrorIs(t, err, ErrNotHolder)
}

func TestOrganizerReserveNeverExpires(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	hold, err := service.Reserve(ctx, fx.mapID, fx.seatV1)
	require.NoError(t, err)
	assert.True(t, hold.ExpiresAt.IsZero())

	time.Sleep(30 * time.Millisecond)

	status, err := service.StatusOf(ctx, fx.mapID, fx.seatV1)
	require.NoError(t, err)
	assert.Equal(t, holdstore.StatusReserved, status)

	_, err = service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-B", time.Minute)
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestBlockedSeatCannotBeHeld(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	require.NoError(t, fx.repo.Seat.SetBlocked(ctx, fx.seatV1, true))

	_, err := service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-A", time.Minute)
	assert.ErrorIs(t, err, ErrSeatBlocked)

	_, err = service.Reserve(ctx, fx.mapID, fx.seatV1)
	assert.ErrorIs(t, err, ErrSeatBlocked)

	status, err := service.StatusOf(ctx, fx.mapID, fx.seatV1)
	require.NoError(t, err)
	assert.Equal(t, holdstore.StatusBlocked, status)
}

func TestHoldUnknownSeat(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	_, err := service.RequestHold(ctx, fx.mapID, uuid.New(), "token-A", time.Minute)
	assert.ErrorIs(t, err, ErrSeatNotFound)

	// Seat on another chart is equally invisible.
	otherMapID, otherCategoryID := seedChart(fx.repo, "99.00")
	foreign := seedSeat(fx.repo, otherMapID, otherCategoryID, "X1", 5, 5)

	_, err = service.RequestHold(ctx, fx.mapID, foreign, "token-A", time.Minute)
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestBulkStatusMergesStaticAndLive(t *testing.T) {
	service, fx := newReservationService(t)
	ctx := context.Background()

	pillar := seedSeat(fx.repo, fx.mapID, fx.categoryID, "V3", 30, 10)
	require.NoError(t, fx.repo.Seat.SetBlocked(ctx, pillar, true))

	_, err := service.RequestHold(ctx, fx.mapID, fx.seatV1, "token-A", time.Minute)
	require.NoError(t, err)

	statuses, err := service.BulkStatus(ctx, fx.mapID)
	require.NoError(t, err)

	assert.Equal(t, holdstore.StatusHeld, statuses[fx.seatV1])
	assert.Equal(t, holdstore.StatusAvailable, statuses[fx.seatV2])
	assert.Equal(t, holdstore.StatusBlocked, statuses[pillar])
}
