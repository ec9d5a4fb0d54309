package usecase

import (
	"context"
	"sync"
	"time"

	"seat-chart/internal/data/entity"
	"seat-chart/internal/data/repository"
	"seat-chart/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository stubs; the repository layer is an interface per
// entity, so services can be exercised without Postgres.

type stubSeatMapRepo struct {
	mu   sync.Mutex
	maps map[uuid.UUID]*entity.SeatMap
}

func (r *stubSeatMapRepo) Create(_ context.Context, seatMap *entity.SeatMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *seatMap
	r.maps[seatMap.ID] = &copied
	return nil
}

func (r *stubSeatMapRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.SeatMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seatMap, ok := r.maps[id]
	if !ok {
		return nil, nil
	}
	copied := *seatMap
	return &copied, nil
}

func (r *stubSeatMapRepo) SetPublished(_ context.Context, id uuid.UUID, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seatMap, ok := r.maps[id]; ok && seatMap.PublishedAt == nil {
		seatMap.PublishedAt = &publishedAt
	}
	return nil
}

type stubCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.PriceCategory
}

func (r *stubCategoryRepo) Create(_ context.Context, category *entity.PriceCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PriceCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (r *stubCategoryRepo) FindBySeatMapID(_ context.Context, seatMapID uuid.UUID) ([]*entity.PriceCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var categories []*entity.PriceCategory
	for _, category := range r.categories {
		if category.SeatMapID == seatMapID {
			copied := *category
			categories = append(categories, &copied)
		}
	}
	return categories, nil
}

type stubSeatRepo struct {
	mu    sync.Mutex
	seats map[uuid.UUID]*entity.Seat
}

func (r *stubSeatRepo) Create(_ context.Context, seat *entity.Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *seat
	r.seats[seat.ID] = &copied
	return nil
}

func (r *stubSeatRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[id]
	if !ok {
		return nil, nil
	}
	copied := *seat
	return &copied, nil
}

func (r *stubSeatRepo) FindBySeatMapID(_ context.Context, seatMapID uuid.UUID) ([]*entity.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var seats []*entity.Seat
	for _, seat := range r.seats {
		if seat.SeatMapID == seatMapID {
			copied := *seat
			seats = append(seats, &copied)
		}
	}
	return seats, nil
}

func (r *stubSeatRepo) Update(_ context.Context, seat *entity.Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *seat
	r.seats[seat.ID] = &copied
	return nil
}

func (r *stubSeatRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seat, ok := r.seats[id]; ok {
		seat.IsBlocked = blocked
	}
	return nil
}

func (r *stubSeatRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seats, id)
	return nil
}

type stubSaleRepo struct {
	mu    sync.Mutex
	sales []*entity.SeatSale
}

func (r *stubSaleRepo) Create(_ context.Context, sale *entity.SeatSale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *sale
	r.sales = append(r.sales, &copied)
	return nil
}

func (r *stubSaleRepo) FindBySeatMapID(_ context.Context, seatMapID uuid.UUID) ([]*entity.SeatSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sales []*entity.SeatSale
	for _, sale := range r.sales {
		if sale.SeatMapID == seatMapID {
			copied := *sale
			sales = append(sales, &copied)
		}
	}
	return sales, nil
}

func newStubRepository() *repository.Repository {
	return &repository.Repository{
		SeatMap:  &stubSeatMapRepo{maps: make(map[uuid.UUID]*entity.SeatMap)},
		Category: &stubCategoryRepo{categories: make(map[uuid.UUID]*entity.PriceCategory)},
		Seat:     &stubSeatRepo{seats: make(map[uuid.UUID]*entity.Seat)},
		Sale:     &stubSaleRepo{},
	}
}

func testConfig() *utils.Config {
	return &utils.Config{
		Reservation: utils.ReservationConfig{
			HoldTTL:              time.Minute,
			MaxSeatsPerSelection: 8,
			OrganizerToken:       "box-office",
		},
		Upload: utils.UploadConfig{
			MaxSizeMB:    1,
			AllowedTypes: []string{"image/png", "image/jpeg"},
		},
		Chart: utils.ChartConfig{
			OverlapEpsilon: 0.5,
		},
	}
}

// seedChart inserts a map with one category and returns both ids.
func seedChart(repo *repository.Repository, price string) (mapID, categoryID uuid.UUID) {
	now := time.Now()
	mapID = uuid.New()
	categoryID = uuid.New()

	repo.SeatMap.Create(context.Background(), &entity.SeatMap{
		Base:          entity.Base{ID: mapID, CreatedAt: now, UpdatedAt: now},
		VenueImageRef: "/uploads/chart.png",
		ImageWidth:    4000,
		ImageHeight:   3000,
	})
	repo.Category.Create(context.Background(), &entity.PriceCategory{
		BaseSimple: entity.BaseSimple{ID: categoryID, CreatedAt: now},
		SeatMapID:  mapID,
		Name:       "VIP",
		UnitPrice:  decimal.RequireFromString(price),
		ColorHint:  "#d4af37",
	})

	return mapID, categoryID
}

// seedSeat inserts a seat directly, bypassing service validation.
func seedSeat(repo *repository.Repository, mapID, categoryID uuid.UUID, label string, x, y float64) uuid.UUID {
	now := time.Now()
	id := uuid.New()
	repo.Seat.Create(context.Background(), &entity.Seat{
		Base:       entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		SeatMapID:  mapID,
		PosX:       x,
		PosY:       y,
		Label:      label,
		CategoryID: categoryID,
	})
	return id
}
