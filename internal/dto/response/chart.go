package response

import (
	"time"

	"seat-chart/internal/data/entity"
	"seat-chart/internal/usecase"
	"seat-chart/pkg/geometry"

	"github.com/shopspring/decimal"
)

type SeatMapResponse struct {
	ID          string     `json:"id"`
	ImageRef    string     `json:"image_ref"`
	ImageWidth  int        `json:"image_width"`
	ImageHeight int        `json:"image_height"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Frozen      bool       `json:"frozen"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CategoryResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ColorHint   string          `json:"color_hint,omitempty"`
	Description *string         `json:"description,omitempty"`
}

type SeatResponse struct {
	ID           string   `json:"id"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	PixelX       *float64 `json:"pixel_x,omitempty"`
	PixelY       *float64 `json:"pixel_y,omitempty"`
	Label        string   `json:"label"`
	Row          *string  `json:"row,omitempty"`
	Section      *string  `json:"section,omitempty"`
	CategoryID   string   `json:"category_id"`
	IsAccessible bool     `json:"is_accessible"`
	IsBlocked    bool     `json:"is_blocked"`
}

type ChartDetailResponse struct {
	Map        SeatMapResponse    `json:"map"`
	Categories []CategoryResponse `json:"categories"`
	Seats      []SeatResponse     `json:"seats"`
}

type StatisticsResponse struct {
	TotalSeats       int             `json:"total_seats"`
	SeatsByCategory  map[string]int  `json:"seats_by_category"`
	BlockedCount     int             `json:"blocked_count"`
	AccessibleCount  int             `json:"accessible_count"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
}

func SeatMapToResponse(seatMap *entity.SeatMap) SeatMapResponse {
	return SeatMapResponse{
		ID:          seatMap.ID.String(),
		ImageRef:    seatMap.VenueImageRef,
		ImageWidth:  seatMap.ImageWidth,
		ImageHeight: seatMap.ImageHeight,
		PublishedAt: seatMap.PublishedAt,
		Frozen:      seatMap.Frozen(),
		CreatedAt:   seatMap.CreatedAt,
	}
}

func CategoryToResponse(category *entity.PriceCategory) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		UnitPrice:   category.UnitPrice,
		ColorHint:   category.ColorHint,
		Description: category.Description,
	}
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		ID:           seat.ID.String(),
		X:            seat.PosX,
		Y:            seat.PosY,
		Label:        seat.Label,
		Row:          seat.Row,
		Section:      seat.Section,
		CategoryID:   seat.CategoryID.String(),
		IsAccessible: seat.IsAccessible,
		IsBlocked:    seat.IsBlocked,
	}
}

// ChartDetailToResponse renders a chart detail. When display is a valid
// size, each seat also carries its pixel position projected onto that
// display; otherwise only normalized coordinates are returned.
func ChartDetailToResponse(detail *usecase.ChartDetail, display geometry.ImageSize) ChartDetailResponse {
	categories := make([]CategoryResponse, 0, len(detail.Categories))
	for _, category := range detail.Categories {
		categories = append(categories, CategoryToResponse(category))
	}

	seats := make([]SeatResponse, 0, len(detail.Seats))
	for _, seat := range detail.Seats {
		seatResponse := SeatToResponse(seat)
		if display.Valid() {
			pixelX, pixelY := geometry.ToPixel(geometry.Normalized{X: seat.PosX, Y: seat.PosY}, display)
			seatResponse.PixelX = &pixelX
			seatResponse.PixelY = &pixelY
		}
		seats = append(seats, seatResponse)
	}

	return ChartDetailResponse{
		Map:        SeatMapToResponse(detail.Map),
		Categories: categories,
		Seats:      seats,
	}
}

func StatisticsToResponse(stats *usecase.ChartStatistics) StatisticsResponse {
	return StatisticsResponse{
		TotalSeats:       stats.TotalSeats,
		SeatsByCategory:  stats.SeatsByCategory,
		BlockedCount:     stats.BlockedCount,
		AccessibleCount:  stats.AccessibleCount,
		PotentialRevenue: stats.PotentialRevenue,
	}
}
