package holdstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SeatStatus is the live reservation state layered on top of a static seat.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "available"
	StatusHeld      SeatStatus = "held"
	StatusReserved  SeatStatus = "reserved" // organizer hold, exempt from expiry
	StatusSold      SeatStatus = "sold"

	// StatusBlocked never originates in the store; the reservation service
	// derives it from the seat's static is_blocked flag when merging.
	StatusBlocked SeatStatus = "blocked"
)

// HoldKind distinguishes buyer holds (TTL-bounded) from organizer
// reservations (no expiry, e.g. comp tickets).
type HoldKind string

const (
	KindBuyer     HoldKind = "buyer"
	KindOrganizer HoldKind = "organizer"
)

// Sentinel errors shared by both store implementations. Higher layers
// translate these into the caller-facing taxonomy.
var (
	ErrSeatHeld    = errors.New("seat held by another token")
	ErrSeatSold    = errors.New("seat already sold")
	ErrNotHolder   = errors.New("hold owned by another token")
	ErrHoldExpired = errors.New("hold expired")
	ErrNoHold      = errors.New("no hold on seat")
)

// Hold is a time-bounded single-owner claim on a seat. A zero ExpiresAt
// means the hold never expires.
type Hold struct {
	SeatMapID uuid.UUID `json:"seat_map_id"`
	SeatID    uuid.UUID `json:"seat_id"`
	Token     string    `json:"-"` // opaque holder token, never rendered
	Kind      HoldKind  `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the hold has lapsed at the given instant. A hold
// is no longer valid at exactly ExpiresAt.
func (h Hold) Expired(now time.Time) bool {
	if h.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(h.ExpiresAt)
}

// Store is the atomic keyed record of per-seat reservation state. Every
// method performs its check-and-set as one atomic step; at no point may a
// competing caller interleave between reading current state and writing the
// new one. This is what upholds the at-most-one-holder invariant.
type Store interface {
	// Acquire transitions available -> held (or reserved). Fails with
	// ErrSeatHeld when a live hold by a different token exists and
	// ErrSeatSold when the seat is sold. Re-acquiring with the same token
	// refreshes the expiry. ttl is ignored for organizer holds.
	Acquire(ctx context.Context, seatMapID, seatID uuid.UUID, token string, ttl time.Duration, kind HoldKind) (Hold, error)

	// Release transitions held -> available. Only the holding token may
	// release a live hold (ErrNotHolder otherwise); releasing an expired or
	// absent hold is a no-op.
	Release(ctx context.Context, seatMapID, seatID uuid.UUID, token string) error

	// Commit transitions held -> sold, terminally. Fails with ErrHoldExpired
	// when the stored expiry has elapsed or the token's expired hold was
	// displaced by a newer holder, ErrNotHolder on token mismatch or
	// missing hold, ErrSeatSold when already sold.
	Commit(ctx context.Context, seatMapID, seatID uuid.UUID, token string) error

	// Status resolves the live status of one seat, treating an expired hold
	// as available. The returned Hold is nil unless status is held/reserved.
	Status(ctx context.Context, seatMapID, seatID uuid.UUID) (SeatStatus, *Hold, error)

	// BulkStatus returns the status of every seat the store has a live
	// record for within one chart. Seats absent from the result are
	// available.
	BulkStatus(ctx context.Context, seatMapID uuid.UUID) (map[uuid.UUID]SeatStatus, error)

	// Close releases background resources (expiry sweeper, connections).
	Close() error
}
