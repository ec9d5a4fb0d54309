package holdstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seatKey struct {
	mapID  uuid.UUID
	seatID uuid.UUID
}

type seatRecord struct {
	hold *Hold
	// prevToken remembers whose expired hold the current one displaced, so
	// the previous holder's stale commit reports expiry rather than theft.
	prevToken string
	sold      bool
	soldTo    string
}

// MemoryStore keeps all reservation state in process memory behind a single
// mutex. The lock is held across the whole check-and-set of every
// transition, which is the at-most-one-holder guarantee. Suitable for a
// single-process deployment and for tests; multi-process deployments use
// RedisStore.
type MemoryStore struct {
	mu    sync.Mutex
	seats map[seatKey]*seatRecord

	now func() time.Time // swapped in tests

	sweepEvery time.Duration
	stopChan   chan struct{}
	wg         sync.WaitGroup
	log        *zap.Logger
}

// NewMemoryStore creates the store. When sweepEvery > 0 a background
// sweeper periodically drops expired holds; correctness does not depend on
// it because every read and transition re-checks expiry itself.
func NewMemoryStore(sweepEvery time.Duration, log *zap.Logger) *MemoryStore {
	s := &MemoryStore{
		seats:      make(map[seatKey]*seatRecord),
		now:        time.Now,
		sweepEvery: sweepEvery,
		stopChan:   make(chan struct{}),
		log:        log.With(zap.String("holdstore", "memory")),
	}

	if sweepEvery > 0 {
		s.wg.Add(1)
		go s.sweeper()
	}

	return s
}

func (s *MemoryStore) Acquire(_ context.Context, seatMapID, seatID uuid.UUID, token string, ttl time.Duration, kind HoldKind) (Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := seatKey{mapID: seatMapID, seatID: seatID}

	rec, ok := s.seats[key]
	if ok {
		if rec.sold {
			return Hold{}, ErrSeatSold
		}
		if rec.hold != nil && !rec.hold.Expired(now) && rec.hold.Token != token {
			return Hold{}, ErrSeatHeld
		}
		// Expired hold, or re-acquire by the same token: overwritten below
		// in the same critical section.
		if rec.hold != nil && rec.hold.Token != token {
			rec.prevToken = rec.hold.Token
		}
	} else {
		rec = &seatRecord{}
		s.seats[key] = rec
	}

	hold := Hold{
		SeatMapID: seatMapID,
		SeatID:    seatID,
		Token:     token,
		Kind:      kind,
	}
	if kind != KindOrganizer {
		hold.ExpiresAt = now.Add(ttl)
	}

	rec.hold = &hold
	return hold, nil
}

func (s *MemoryStore) Release(_ context.Context, seatMapID, seatID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := seatKey{mapID: seatMapID, seatID: seatID}
	rec, ok := s.seats[key]
	if !ok || rec.sold || rec.hold == nil {
		return nil // nothing to release
	}

	if rec.hold.Expired(s.now()) {
		delete(s.seats, key)
		return nil
	}

	if rec.hold.Token != token {
		if rec.prevToken != "" && rec.prevToken == token {
			return nil // that hold already lapsed; releasing it is a no-op
		}
		return ErrNotHolder
	}

	delete(s.seats, key)
	return nil
}

func (s *MemoryStore) Commit(_ context.Context, seatMapID, seatID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := seatKey{mapID: seatMapID, seatID: seatID}
	rec, ok := s.seats[key]
	if !ok || rec.hold == nil {
		if ok && rec.sold {
			return ErrSeatSold
		}
		return ErrNotHolder
	}

	if rec.sold {
		return ErrSeatSold
	}

	if rec.hold.Expired(s.now()) {
		// Deterministic commit-vs-expiry: the stored expiry decides.
		delete(s.seats, key)
		return ErrHoldExpired
	}

	if rec.hold.Token != token {
		if rec.prevToken != "" && rec.prevToken == token {
			return ErrHoldExpired
		}
		return ErrNotHolder
	}

	rec.sold = true
	rec.soldTo = token
	rec.hold = nil
	return nil
}

func (s *MemoryStore) Status(_ context.Context, seatMapID, seatID uuid.UUID) (SeatStatus, *Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := seatKey{mapID: seatMapID, seatID: seatID}
	rec, ok := s.seats[key]
	if !ok {
		return StatusAvailable, nil, nil
	}

	if rec.sold {
		return StatusSold, nil, nil
	}

	if rec.hold == nil || rec.hold.Expired(s.now()) {
		delete(s.seats, key)
		return StatusAvailable, nil, nil
	}

	h := *rec.hold
	if h.Kind == KindOrganizer {
		return StatusReserved, &h, nil
	}
	return StatusHeld, &h, nil
}

func (s *MemoryStore) BulkStatus(_ context.Context, seatMapID uuid.UUID) (map[uuid.UUID]SeatStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	statuses := make(map[uuid.UUID]SeatStatus)

	for key, rec := range s.seats {
		if key.mapID != seatMapID {
			continue
		}

		switch {
		case rec.sold:
			statuses[key.seatID] = StatusSold
		case rec.hold == nil || rec.hold.Expired(now):
			delete(s.seats, key)
		case rec.hold.Kind == KindOrganizer:
			statuses[key.seatID] = StatusReserved
		default:
			statuses[key.seatID] = StatusHeld
		}
	}

	return statuses, nil
}

func (s *MemoryStore) Close() error {
	if s.sweepEvery > 0 {
		close(s.stopChan)
		s.wg.Wait()
	}
	return nil
}

// sweeper drops expired holds so abandoned selections return to the pool
// without waiting for the next read of that seat.
func (s *MemoryStore) sweeper() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	swept := 0

	for key, rec := range s.seats {
		if !rec.sold && rec.hold != nil && rec.hold.Expired(now) {
			delete(s.seats, key)
			swept++
		}
	}

	if swept > 0 {
		s.log.Debug("swept expired holds", zap.Int("count", swept))
	}
}
