package response

import (
	"time"

	"seat-chart/internal/data/entity"
	"seat-chart/internal/data/holdstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HoldResponse struct {
	SeatID string `json:"seat_id"`
	Kind   string `json:"kind"`
	// ExpiresAt is omitted for organizer reservations, which never lapse.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SaleResponse is one row of the durable sales ledger. The holder token is
// the buyer's own secret and never leaves the server.
type SaleResponse struct {
	ID     string          `json:"id"`
	SeatID string          `json:"seat_id"`
	Price  decimal.Decimal `json:"price"`
	SoldAt time.Time       `json:"sold_at"`
}

// ChartStatusResponse maps seat id to live status for rendering the chart.
type ChartStatusResponse struct {
	SeatMapID string            `json:"seat_map_id"`
	Seats     map[string]string `json:"seats"`
}

func HoldToResponse(hold *holdstore.Hold) HoldResponse {
	resp := HoldResponse{
		SeatID: hold.SeatID.String(),
		Kind:   string(hold.Kind),
	}
	if !hold.ExpiresAt.IsZero() {
		expiresAt := hold.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

func SalesToResponse(sales []*entity.SeatSale) []SaleResponse {
	responses := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		responses = append(responses, SaleResponse{
			ID:     sale.ID.String(),
			SeatID: sale.SeatID.String(),
			Price:  sale.Price,
			SoldAt: sale.CreatedAt,
		})
	}
	return responses
}

func ChartStatusToResponse(seatMapID uuid.UUID, statuses map[uuid.UUID]holdstore.SeatStatus) ChartStatusResponse {
	seats := make(map[string]string, len(statuses))
	for seatID, status := range statuses {
		seats[seatID.String()] = string(status)
	}
	return ChartStatusResponse{
		SeatMapID: seatMapID.String(),
		Seats:     seats,
	}
}
