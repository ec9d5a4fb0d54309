package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"seat-chart/internal/data/repository"
	"seat-chart/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// selectionSession is one buyer's in-progress pick. The holder token never
// leaves the server; the buyer only ever sees the session id.
type selectionSession struct {
	mu        sync.Mutex
	id        uuid.UUID
	seatMapID uuid.UUID
	token     string
	maxSeats  int
	// held maps seat id to the expiry instant of our hold on it, so lapsed
	// selections can be pruned without asking the engine who owns the seat
	// now.
	held map[uuid.UUID]time.Time
	// lapsed is set when expiry, not the buyer, empties the held set. Only
	// then is the session dead; deselecting every seat keeps it alive.
	lapsed bool
}

// SessionSummary is the buyer-facing view of a session.
type SessionSummary struct {
	ID          uuid.UUID
	SeatMapID   uuid.UUID
	HeldSeatIDs []uuid.UUID
	MaxSeats    int
	Total       decimal.Decimal
}

// CheckoutResult reports the per-seat outcome of a checkout. Committed
// seats are terminally sold and never rolled back; failed seats are
// released from the session so the caller can re-offer them to the buyer.
type CheckoutResult struct {
	Committed []uuid.UUID
	Failed    map[uuid.UUID]string
	Total     decimal.Decimal
	Closed    bool // session destroyed (every seat resolved successfully)
}

type SessionService interface {
	Create(ctx context.Context, seatMapID uuid.UUID, maxSeats int) (*SessionSummary, error)
	Select(ctx context.Context, sessionID, seatID uuid.UUID) (*SessionSummary, error)
	Deselect(ctx context.Context, sessionID, seatID uuid.UUID) (*SessionSummary, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (*SessionSummary, error)
	Checkout(ctx context.Context, sessionID uuid.UUID) (*CheckoutResult, error)
	Cancel(ctx context.Context, sessionID uuid.UUID) error
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*selectionSession

	repo        *repository.Repository
	reservation ReservationService
	notifier    CheckoutNotifier
	defaultMax  int
	holdTTL     time.Duration
	now         func() time.Time
	log         *zap.Logger
}

func NewSessionService(repo *repository.Repository, reservation ReservationService, notifier CheckoutNotifier, config *utils.Config, log *zap.Logger) SessionService {
	return &sessionService{
		sessions:    make(map[uuid.UUID]*selectionSession),
		repo:        repo,
		reservation: reservation,
		notifier:    notifier,
		defaultMax:  config.Reservation.MaxSeatsPerSelection,
		holdTTL:     config.Reservation.HoldTTL,
		now:         time.Now,
		log:         log.With(zap.String("service", "session")),
	}
}

func (s *sessionService) Create(ctx context.Context, seatMapID uuid.UUID, maxSeats int) (*SessionSummary, error) {
	seatMap, err := s.repo.SeatMap.FindByID(ctx, seatMapID)
	if err != nil {
		return nil, fmt.Errorf("find seat map: %w", err)
	}
	if seatMap == nil {
		return nil, ErrMapNotFound
	}

	if maxSeats <= 0 {
		// The event record normally supplies the cap; fall back to config.
		maxSeats = s.defaultMax
	}

	token, err := utils.GenerateToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate holder token: %w", err)
	}

	session := &selectionSession{
		id:        uuid.New(),
		seatMapID: seatMapID,
		token:     token,
		maxSeats:  maxSeats,
		held:      make(map[uuid.UUID]time.Time),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	s.log.Info("Selection session created",
		zap.String("session_id", session.id.String()),
		zap.String("seat_map_id", seatMapID.String()),
		zap.Int("max_seats", maxSeats),
	)

	return s.summarize(ctx, session)
}

func (s *sessionService) Select(ctx context.Context, sessionID, seatID uuid.UUID) (*SessionSummary, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	s.prune(session)

	if _, already := session.held[seatID]; !already && len(session.held) >= session.maxSeats {
		// Rejected before the reservation engine is contacted.
		return nil, ErrSelectionLimit
	}

	hold, err := s.reservation.RequestHold(ctx, session.seatMapID, seatID, session.token, s.holdTTL)
	if err != nil {
		return nil, err
	}

	session.held[seatID] = hold.ExpiresAt
	session.lapsed = false

	return s.summarizeLocked(ctx, session)
}

func (s *sessionService) Deselect(ctx context.Context, sessionID, seatID uuid.UUID) (*SessionSummary, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if _, held := session.held[seatID]; held {
		if err := s.reservation.ReleaseHold(ctx, session.seatMapID, seatID, session.token); err != nil {
			return nil, err
		}
		delete(session.held, seatID)
	}

	s.prune(session)
	return s.summarizeLocked(ctx, session)
}

func (s *sessionService) Summary(ctx context.Context, sessionID uuid.UUID) (*SessionSummary, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, session)
}

func (s *sessionService) Checkout(ctx context.Context, sessionID uuid.UUID) (*CheckoutResult, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	// Commit in ascending seat id so two sessions contending over
	// overlapping seats fail in a consistent order.
	seatIDs := make([]uuid.UUID, 0, len(session.held))
	for seatID := range session.held {
		seatIDs = append(seatIDs, seatID)
	}
	sort.Slice(seatIDs, func(i, j int) bool {
		return seatIDs[i].String() < seatIDs[j].String()
	})

	result := &CheckoutResult{
		Failed: make(map[uuid.UUID]string),
		Total:  decimal.Zero,
	}

	for _, seatID := range seatIDs {
		// Commit re-validates expiry against the stored hold; a seat that
		// lapsed between selection and checkout fails here, it is never
		// silently sold.
		if err := s.reservation.Commit(ctx, session.seatMapID, seatID, session.token); err != nil {
			result.Failed[seatID] = err.Error()
			delete(session.held, seatID) // gone either way: expired or taken
			continue
		}

		result.Committed = append(result.Committed, seatID)
		delete(session.held, seatID)
	}

	if len(result.Committed) > 0 {
		total, err := s.priceSeats(ctx, session.seatMapID, result.Committed)
		if err != nil {
			return nil, err
		}
		result.Total = total

		if err := s.notifier.CheckoutCompleted(ctx, session.seatMapID, result.Committed, total); err != nil {
			// Committed seats stay sold; the notifier owns its own retry.
			s.log.Error("Checkout notification failed",
				zap.Error(err),
				zap.String("session_id", session.id.String()),
			)
		}
	}

	if len(result.Failed) == 0 {
		s.destroy(session.id)
		result.Closed = true
	}

	s.log.Info("Checkout finished",
		zap.String("session_id", session.id.String()),
		zap.Int("committed", len(result.Committed)),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

func (s *sessionService) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	for seatID := range session.held {
		// Release is idempotent; an expired hold is already gone.
		if err := s.reservation.ReleaseHold(ctx, session.seatMapID, seatID, session.token); err != nil {
			s.log.Warn("Release on cancel failed",
				zap.Error(err),
				zap.String("seat_id", seatID.String()),
			)
		}
	}

	s.destroy(session.id)
	return nil
}

func (s *sessionService) lookup(sessionID uuid.UUID) (*selectionSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	// A session whose every hold has lapsed is dead; destroy it lazily.
	session.mu.Lock()
	s.prune(session)
	expired := session.lapsed
	session.mu.Unlock()

	if expired {
		s.destroy(sessionID)
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (s *sessionService) destroy(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// prune drops seats whose hold expiry has passed, and marks the session
// lapsed when expiry emptied it. Caller holds session.mu.
func (s *sessionService) prune(session *selectionSession) {
	now := s.now()
	removed := false
	for seatID, expiresAt := range session.held {
		if !expiresAt.IsZero() && !now.Before(expiresAt) {
			delete(session.held, seatID)
			removed = true
		}
	}
	if removed && len(session.held) == 0 {
		session.lapsed = true
	}
}

func (s *sessionService) summarize(ctx context.Context, session *selectionSession) (*SessionSummary, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	s.prune(session)
	return s.summarizeLocked(ctx, session)
}

// summarizeLocked recomputes the running total on every selection change.
// Caller holds session.mu.
func (s *sessionService) summarizeLocked(ctx context.Context, session *selectionSession) (*SessionSummary, error) {
	seatIDs := make([]uuid.UUID, 0, len(session.held))
	for seatID := range session.held {
		seatIDs = append(seatIDs, seatID)
	}
	sort.Slice(seatIDs, func(i, j int) bool {
		return seatIDs[i].String() < seatIDs[j].String()
	})

	total, err := s.priceSeats(ctx, session.seatMapID, seatIDs)
	if err != nil {
		return nil, err
	}

	return &SessionSummary{
		ID:          session.id,
		SeatMapID:   session.seatMapID,
		HeldSeatIDs: seatIDs,
		MaxSeats:    session.maxSeats,
		Total:       total,
	}, nil
}

func (s *sessionService) priceSeats(ctx context.Context, seatMapID uuid.UUID, seatIDs []uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	if len(seatIDs) == 0 {
		return total, nil
	}

	categories, err := s.repo.Category.FindBySeatMapID(ctx, seatMapID)
	if err != nil {
		return total, fmt.Errorf("load categories: %w", err)
	}
	priceByCategory := make(map[uuid.UUID]decimal.Decimal, len(categories))
	for _, category := range categories {
		priceByCategory[category.ID] = category.UnitPrice
	}

	for _, seatID := range seatIDs {
		seat, err := s.repo.Seat.FindByID(ctx, seatID)
		if err != nil {
			return total, fmt.Errorf("find seat: %w", err)
		}
		if seat == nil {
			continue
		}
		total = total.Add(priceByCategory[seat.CategoryID])
	}

	return total, nil
}
