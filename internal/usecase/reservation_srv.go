package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seat-chart/internal/data/entity"
	"seat-chart/internal/data/holdstore"
	"seat-chart/internal/data/repository"
	"seat-chart/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReservationService is the concurrency-critical surface: it grants and
// releases time-bounded holds and commits sales, with the atomic
// check-and-set delegated to the hold store. The static chart (positions,
// categories, blocked flags) is read-mostly; the per-seat live record is
// only ever written through the store's hold/commit protocol.
type ReservationService interface {
	// RequestHold grants a TTL-bounded hold to the given token. ttl <= 0
	// uses the configured default.
	RequestHold(ctx context.Context, mapID, seatID uuid.UUID, token string, ttl time.Duration) (*holdstore.Hold, error)

	// Reserve places an organizer hold exempt from expiry (comp tickets).
	Reserve(ctx context.Context, mapID, seatID uuid.UUID) (*holdstore.Hold, error)

	// ReleaseHold returns a held seat to the pool; releasing an expired or
	// absent hold is a no-op.
	ReleaseHold(ctx context.Context, mapID, seatID uuid.UUID, token string) error

	// ReleaseReservation returns an organizer-reserved seat to the pool.
	ReleaseReservation(ctx context.Context, mapID, seatID uuid.UUID) error

	// Commit finalizes the sale for the holding token and records it in the
	// durable sales ledger.
	Commit(ctx context.Context, mapID, seatID uuid.UUID, token string) error

	// StatusOf resolves one seat's live status, expired holds included.
	StatusOf(ctx context.Context, mapID, seatID uuid.UUID) (holdstore.SeatStatus, error)

	// BulkStatus returns every seat's status for rendering the full chart.
	BulkStatus(ctx context.Context, mapID uuid.UUID) (map[uuid.UUID]holdstore.SeatStatus, error)

	// Sales lists the chart's durable sales ledger, oldest first.
	Sales(ctx context.Context, mapID uuid.UUID) ([]*entity.SeatSale, error)
}

type reservationService struct {
	repo           *repository.Repository
	store          holdstore.Store
	defaultTTL     time.Duration
	organizerToken string
	log            *zap.Logger
}

func NewReservationService(repo *repository.Repository, store holdstore.Store, config *utils.Config, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:           repo,
		store:          store,
		defaultTTL:     config.Reservation.HoldTTL,
		organizerToken: config.Reservation.OrganizerToken,
		log:            log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) RequestHold(ctx context.Context, mapID, seatID uuid.UUID, token string, ttl time.Duration) (*holdstore.Hold, error) {
	if err := s.checkSellable(ctx, mapID, seatID); err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	hold, err := s.store.Acquire(ctx, mapID, seatID, token, ttl, holdstore.KindBuyer)
	if err != nil {
		if errors.Is(err, holdstore.ErrSeatHeld) || errors.Is(err, holdstore.ErrSeatSold) {
			return nil, ErrSeatUnavailable
		}
		return nil, fmt.Errorf("acquire hold: %w", err)
	}

	s.log.Debug("Hold granted",
		zap.String("seat_id", seatID.String()),
		zap.Time("expires_at", hold.ExpiresAt),
	)

	return &hold, nil
}

func (s *reservationService) Reserve(ctx context.Context, mapID, seatID uuid.UUID) (*holdstore.Hold, error) {
	if err := s.checkSellable(ctx, mapID, seatID); err != nil {
		return nil, err
	}

	hold, err := s.store.Acquire(ctx, mapID, seatID, s.organizerToken, 0, holdstore.KindOrganizer)
	if err != nil {
		if errors.Is(err, holdstore.ErrSeatHeld) || errors.Is(err, holdstore.ErrSeatSold) {
			return nil, ErrSeatUnavailable
		}
		return nil, fmt.Errorf("acquire reservation: %w", err)
	}

	s.log.Info("Seat reserved by organizer", zap.String("seat_id", seatID.String()))
	return &hold, nil
}

func (s *reservationService) ReleaseHold(ctx context.Context, mapID, seatID uuid.UUID, token string) error {
	err := s.store.Release(ctx, mapID, seatID, token)
	if err != nil {
		if errors.Is(err, holdstore.ErrNotHolder) {
			return ErrNotHolder
		}
		return fmt.Errorf("release hold: %w", err)
	}
	return nil
}

func (s *reservationService) ReleaseReservation(ctx context.Context, mapID, seatID uuid.UUID) error {
	if err := s.ReleaseHold(ctx, mapID, seatID, s.organizerToken); err != nil {
		return err
	}
	s.log.Info("Organizer reservation released", zap.String("seat_id", seatID.String()))
	return nil
}

func (s *reservationService) Commit(ctx context.Context, mapID, seatID uuid.UUID, token string) error {
	err := s.store.Commit(ctx, mapID, seatID, token)
	if err != nil {
		switch {
		case errors.Is(err, holdstore.ErrHoldExpired):
			return ErrHoldExpired
		case errors.Is(err, holdstore.ErrNotHolder):
			return ErrNotHolder
		case errors.Is(err, holdstore.ErrSeatSold):
			return ErrSeatUnavailable
		default:
			return fmt.Errorf("commit hold: %w", err)
		}
	}

	// The store transition is the point of truth; the ledger row makes the
	// sale durable. A fault here is a storage failure, not a reservation
	// outcome, and propagates as fatal-class.
	price, err := s.seatPrice(ctx, seatID)
	if err != nil {
		return err
	}

	sale := &entity.SeatSale{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		SeatMapID:   mapID,
		SeatID:      seatID,
		HolderToken: token,
		Price:       price,
	}
	if err := s.repo.Sale.Create(ctx, sale); err != nil {
		return fmt.Errorf("record sale: %w", err)
	}

	s.log.Info("Seat sold", zap.String("seat_id", seatID.String()))
	return nil
}

func (s *reservationService) StatusOf(ctx context.Context, mapID, seatID uuid.UUID) (holdstore.SeatStatus, error) {
	seat, err := s.findSeat(ctx, mapID, seatID)
	if err != nil {
		return "", err
	}
	if seat.IsBlocked {
		return holdstore.StatusBlocked, nil
	}

	status, _, err := s.store.Status(ctx, mapID, seatID)
	if err != nil {
		return "", fmt.Errorf("seat status: %w", err)
	}
	return status, nil
}

func (s *reservationService) BulkStatus(ctx context.Context, mapID uuid.UUID) (map[uuid.UUID]holdstore.SeatStatus, error) {
	seats, err := s.repo.Seat.FindBySeatMapID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}

	live, err := s.store.BulkStatus(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("bulk status: %w", err)
	}

	statuses := make(map[uuid.UUID]holdstore.SeatStatus, len(seats))
	for _, seat := range seats {
		switch {
		case seat.IsBlocked:
			// Static flag wins over a stale hold.
			statuses[seat.ID] = holdstore.StatusBlocked
		default:
			status, ok := live[seat.ID]
			if !ok {
				status = holdstore.StatusAvailable
			}
			statuses[seat.ID] = status
		}
	}

	return statuses, nil
}

func (s *reservationService) Sales(ctx context.Context, mapID uuid.UUID) ([]*entity.SeatSale, error) {
	seatMap, err := s.repo.SeatMap.FindByID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("find seat map: %w", err)
	}
	if seatMap == nil {
		return nil, ErrMapNotFound
	}

	sales, err := s.repo.Sale.FindBySeatMapID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// checkSellable gates hold requests on the static chart: the seat must
// exist on this chart and not be blocked.
func (s *reservationService) checkSellable(ctx context.Context, mapID, seatID uuid.UUID) error {
	seat, err := s.findSeat(ctx, mapID, seatID)
	if err != nil {
		return err
	}
	if seat.IsBlocked {
		return ErrSeatBlocked
	}
	return nil
}

func (s *reservationService) findSeat(ctx context.Context, mapID, seatID uuid.UUID) (*entity.Seat, error) {
	seat, err := s.repo.Seat.FindByID(ctx, seatID)
	if err != nil {
		return nil, fmt.Errorf("find seat: %w", err)
	}
	if seat == nil || seat.SeatMapID != mapID {
		return nil, ErrSeatNotFound
	}
	return seat, nil
}

func (s *reservationService) seatPrice(ctx context.Context, seatID uuid.UUID) (price decimal.Decimal, err error) {
	seat, err := s.repo.Seat.FindByID(ctx, seatID)
	if err != nil {
		return price, fmt.Errorf("find sold seat: %w", err)
	}
	if seat == nil {
		return price, ErrSeatNotFound
	}

	category, err := s.repo.Category.FindByID(ctx, seat.CategoryID)
	if err != nil {
		return price, fmt.Errorf("find sold seat category: %w", err)
	}
	if category == nil {
		return price, ErrCategoryNotFound
	}

	return category.UnitPrice, nil
}
