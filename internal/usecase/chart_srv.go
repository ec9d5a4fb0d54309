package usecase

import (
	"context"
	"fmt"
	"time"

	"seat-chart/internal/data/entity"
	"seat-chart/internal/data/repository"
	"seat-chart/pkg/geometry"
	"seat-chart/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeatAttrs are the static attributes supplied when placing a seat.
type SeatAttrs struct {
	Label        string
	Row          *string
	Section      *string
	IsAccessible bool
}

// SeatUpdate is a partial seat edit; nil fields are left untouched.
type SeatUpdate struct {
	Position     *geometry.Normalized
	CategoryID   *uuid.UUID
	Label        *string
	Row          *string
	Section      *string
	IsAccessible *bool
}

// ChartDetail is the full chart definition the rendering layer needs.
type ChartDetail struct {
	Map        *entity.SeatMap
	Categories []*entity.PriceCategory
	Seats      []*entity.Seat
}

// ChartStatistics are the live authoring aggregates shown to the organizer.
type ChartStatistics struct {
	TotalSeats      int
	SeatsByCategory map[string]int // keyed by category id
	BlockedCount    int
	AccessibleCount int
	// PotentialRevenue sums the unit price of every non-blocked seat.
	PotentialRevenue decimal.Decimal
}

type ChartService interface {
	CreateChart(ctx context.Context, imageRef string, size geometry.ImageSize) (*entity.SeatMap, error)
	GetChart(ctx context.Context, mapID uuid.UUID) (*ChartDetail, error)
	AddCategory(ctx context.Context, mapID uuid.UUID, name string, unitPrice decimal.Decimal, colorHint string, description *string) (*entity.PriceCategory, error)
	AddSeat(ctx context.Context, mapID uuid.UUID, pos geometry.Normalized, categoryID uuid.UUID, attrs SeatAttrs) (*entity.Seat, error)
	UpdateSeat(ctx context.Context, mapID, seatID uuid.UUID, update SeatUpdate) (*entity.Seat, error)
	RemoveSeat(ctx context.Context, mapID, seatID uuid.UUID) error
	SetSeatBlocked(ctx context.Context, mapID, seatID uuid.UUID, blocked bool) error
	Freeze(ctx context.Context, mapID uuid.UUID) error
	Statistics(ctx context.Context, mapID uuid.UUID) (*ChartStatistics, error)
}

type chartService struct {
	repo    *repository.Repository
	epsilon float64
	log     *zap.Logger
}

func NewChartService(repo *repository.Repository, config *utils.Config, log *zap.Logger) ChartService {
	return &chartService{
		repo:    repo,
		epsilon: config.Chart.OverlapEpsilon,
		log:     log.With(zap.String("service", "chart")),
	}
}

func (s *chartService) CreateChart(ctx context.Context, imageRef string, size geometry.ImageSize) (*entity.SeatMap, error) {
	if imageRef == "" {
		return nil, newValidationError("imageRef", "image reference is required")
	}
	if !size.Valid() {
		return nil, newValidationError("imageSize", fmt.Sprintf("invalid intrinsic size %dx%d", size.Width, size.Height))
	}

	now := time.Now()
	seatMap := &entity.SeatMap{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VenueImageRef: imageRef,
		ImageWidth:    size.Width,
		ImageHeight:   size.Height,
	}

	if err := s.repo.SeatMap.Create(ctx, seatMap); err != nil {
		return nil, fmt.Errorf("create chart: %w", err)
	}

	s.log.Info("Chart created",
		zap.String("seat_map_id", seatMap.ID.String()),
		zap.Int("width", size.Width),
		zap.Int("height", size.Height),
	)

	return seatMap, nil
}

func (s *chartService) GetChart(ctx context.Context, mapID uuid.UUID) (*ChartDetail, error) {
	seatMap, err := s.findMap(ctx, mapID)
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.Category.FindBySeatMapID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	seats, err := s.repo.Seat.FindBySeatMapID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}

	return &ChartDetail{Map: seatMap, Categories: categories, Seats: seats}, nil
}

func (s *chartService) AddCategory(ctx context.Context, mapID uuid.UUID, name string, unitPrice decimal.Decimal, colorHint string, description *string) (*entity.PriceCategory, error) {
	seatMap, err := s.findMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if seatMap.Frozen() {
		return nil, ErrMapFrozen
	}

	if name == "" {
		return nil, newValidationError("name", "category name is required")
	}
	if unitPrice.IsNegative() {
		return nil, newValidationError("unitPrice", "unit price must not be negative")
	}

	category := &entity.PriceCategory{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		SeatMapID:   mapID,
		Name:        name,
		UnitPrice:   unitPrice,
		ColorHint:   colorHint,
		Description: description,
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

func (s *chartService) AddSeat(ctx context.Context, mapID uuid.UUID, pos geometry.Normalized, categoryID uuid.UUID, attrs SeatAttrs) (*entity.Seat, error) {
	seatMap, err := s.findMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if seatMap.Frozen() {
		return nil, ErrMapFrozen
	}

	// All checks complete before the single insert; a violation leaves the
	// chart untouched.
	if !pos.Valid() {
		return nil, newValidationError("position", fmt.Sprintf("normalized position (%.4f, %.4f) outside [0,100]", pos.X, pos.Y))
	}
	if attrs.Label == "" {
		return nil, newValidationError("label", "seat label is required")
	}

	if err := s.checkCategory(ctx, mapID, categoryID); err != nil {
		return nil, err
	}

	seats, err := s.repo.Seat.FindBySeatMapID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("load seats for overlap check: %w", err)
	}
	for _, other := range seats {
		if geometry.TooClose(pos, geometry.Normalized{X: other.PosX, Y: other.PosY}, s.epsilon) {
			return nil, newValidationError("position",
				fmt.Sprintf("overlaps seat %q at (%.4f, %.4f)", other.Label, other.PosX, other.PosY))
		}
	}

	now := time.Now()
	seat := &entity.Seat{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		SeatMapID:    mapID,
		PosX:         pos.X,
		PosY:         pos.Y,
		Label:        attrs.Label,
		Row:          attrs.Row,
		Section:      attrs.Section,
		CategoryID:   categoryID,
		IsAccessible: attrs.IsAccessible,
	}

	if err := s.repo.Seat.Create(ctx, seat); err != nil {
		return nil, fmt.Errorf("create seat: %w", err)
	}

	return seat, nil
}

func (s *chartService) UpdateSeat(ctx context.Context, mapID, seatID uuid.UUID, update SeatUpdate) (*entity.Seat, error) {
	seatMap, err := s.findMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if seatMap.Frozen() {
		return nil, ErrMapFrozen
	}

	seat, err := s.findSeat(ctx, mapID, seatID)
	if err != nil {
		return nil, err
	}

	if update.Position != nil {
		pos := *update.Position
		if !pos.Valid() {
			return nil, newValidationError("position", fmt.Sprintf("normalized position (%.4f, %.4f) outside [0,100]", pos.X, pos.Y))
		}

		seats, err := s.repo.Seat.FindBySeatMapID(ctx, mapID)
		if err != nil {
			return nil, fmt.Errorf("load seats for overlap check: %w", err)
		}
		for _, other := range seats {
			if other.ID == seat.ID {
				continue
			}
			if geometry.TooClose(pos, geometry.Normalized{X: other.PosX, Y: other.PosY}, s.epsilon) {
				return nil, newValidationError("position",
					fmt.Sprintf("overlaps seat %q at (%.4f, %.4f)", other.Label, other.PosX, other.PosY))
			}
		}

		seat.PosX = pos.X
		seat.PosY = pos.Y
	}

	if update.CategoryID != nil {
		if err := s.checkCategory(ctx, mapID, *update.CategoryID); err != nil {
			return nil, err
		}
		seat.CategoryID = *update.CategoryID
	}

	if update.Label != nil {
		if *update.Label == "" {
			return nil, newValidationError("label", "seat label is required")
		}
		seat.Label = *update.Label
	}
	if update.Row != nil {
		seat.Row = update.Row
	}
	if update.Section != nil {
		seat.Section = update.Section
	}
	if update.IsAccessible != nil {
		seat.IsAccessible = *update.IsAccessible
	}

	if err := s.repo.Seat.Update(ctx, seat); err != nil {
		return nil, fmt.Errorf("update seat: %w", err)
	}

	return seat, nil
}

func (s *chartService) RemoveSeat(ctx context.Context, mapID, seatID uuid.UUID) error {
	seatMap, err := s.findMap(ctx, mapID)
	if err != nil {
		return err
	}
	if seatMap.Frozen() {
		return ErrMapFrozen
	}

	seat, err := s.findSeat(ctx, mapID, seatID)
	if err != nil {
		return err
	}

	if err := s.repo.Seat.Delete(ctx, seat.ID); err != nil {
		return fmt.Errorf("delete seat: %w", err)
	}

	return nil
}

// SetSeatBlocked is the one mutation allowed after freeze: obstructed views
// are discovered after charts go on sale.
func (s *chartService) SetSeatBlocked(ctx context.Context, mapID, seatID uuid.UUID, blocked bool) error {
	if _, err := s.findMap(ctx, mapID); err != nil {
		return err
	}

	seat, err := s.findSeat(ctx, mapID, seatID)
	if err != nil {
		return err
	}

	if err := s.repo.Seat.SetBlocked(ctx, seat.ID, blocked); err != nil {
		return fmt.Errorf("set seat blocked: %w", err)
	}

	s.log.Info("Seat blocked flag changed",
		zap.String("seat_id", seatID.String()),
		zap.Bool("blocked", blocked),
	)

	return nil
}

func (s *chartService) Freeze(ctx context.Context, mapID uuid.UUID) error {
	seatMap, err := s.findMap(ctx, mapID)
	if err != nil {
		return err
	}
	if seatMap.Frozen() {
		return nil // publish is idempotent
	}

	if err := s.repo.SeatMap.SetPublished(ctx, mapID, time.Now()); err != nil {
		return fmt.Errorf("freeze chart: %w", err)
	}

	s.log.Info("Chart published", zap.String("seat_map_id", mapID.String()))
	return nil
}

func (s *chartService) Statistics(ctx context.Context, mapID uuid.UUID) (*ChartStatistics, error) {
	if _, err := s.findMap(ctx, mapID); err != nil {
		return nil, err
	}

	categories, err := s.repo.Category.FindBySeatMapID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	priceByCategory := make(map[uuid.UUID]decimal.Decimal, len(categories))
	for _, category := range categories {
		priceByCategory[category.ID] = category.UnitPrice
	}

	seats, err := s.repo.Seat.FindBySeatMapID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}

	stats := &ChartStatistics{
		SeatsByCategory:  make(map[string]int),
		PotentialRevenue: decimal.Zero,
	}

	for _, seat := range seats {
		stats.TotalSeats++
		stats.SeatsByCategory[seat.CategoryID.String()]++

		if seat.IsAccessible {
			stats.AccessibleCount++
		}
		if seat.IsBlocked {
			stats.BlockedCount++
			continue // blocked seats can never sell
		}

		stats.PotentialRevenue = stats.PotentialRevenue.Add(priceByCategory[seat.CategoryID])
	}

	return stats, nil
}

func (s *chartService) findMap(ctx context.Context, mapID uuid.UUID) (*entity.SeatMap, error) {
	seatMap, err := s.repo.SeatMap.FindByID(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("find seat map: %w", err)
	}
	if seatMap == nil {
		return nil, ErrMapNotFound
	}
	return seatMap, nil
}

func (s *chartService) findSeat(ctx context.Context, mapID, seatID uuid.UUID) (*entity.Seat, error) {
	seat, err := s.repo.Seat.FindByID(ctx, seatID)
	if err != nil {
		return nil, fmt.Errorf("find seat: %w", err)
	}
	if seat == nil || seat.SeatMapID != mapID {
		return nil, ErrSeatNotFound
	}
	return seat, nil
}

func (s *chartService) checkCategory(ctx context.Context, mapID, categoryID uuid.UUID) error {
	category, err := s.repo.Category.FindByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if category == nil || category.SeatMapID != mapID {
		return ErrCategoryNotFound
	}
	return nil
}
