package response

import (
	"seat-chart/internal/usecase"

	"github.com/shopspring/decimal"
)

type SessionResponse struct {
	ID          string          `json:"id"`
	SeatMapID   string          `json:"seat_map_id"`
	HeldSeatIDs []string        `json:"held_seat_ids"`
	MaxSeats    int             `json:"max_seats"`
	Total       decimal.Decimal `json:"total"`
}

type CheckoutResponse struct {
	CommittedSeatIDs []string          `json:"committed_seat_ids"`
	// Failed maps seat id to the reason it could not be sold.
	Failed map[string]string `json:"failed,omitempty"`
	Total  decimal.Decimal   `json:"total"`
	Closed bool              `json:"closed"`
}

func SessionToResponse(summary *usecase.SessionSummary) SessionResponse {
	heldSeatIDs := make([]string, 0, len(summary.HeldSeatIDs))
	for _, seatID := range summary.HeldSeatIDs {
		heldSeatIDs = append(heldSeatIDs, seatID.String())
	}

	return SessionResponse{
		ID:          summary.ID.String(),
		SeatMapID:   summary.SeatMapID.String(),
		HeldSeatIDs: heldSeatIDs,
		MaxSeats:    summary.MaxSeats,
		Total:       summary.Total,
	}
}

func CheckoutToResponse(result *usecase.CheckoutResult) CheckoutResponse {
	committed := make([]string, 0, len(result.Committed))
	for _, seatID := range result.Committed {
		committed = append(committed, seatID.String())
	}

	var failed map[string]string
	if len(result.Failed) > 0 {
		failed = make(map[string]string, len(result.Failed))
		for seatID, reason := range result.Failed {
			failed[seatID.String()] = reason
		}
	}

	return CheckoutResponse{
		CommittedSeatIDs: committed,
		Failed:           failed,
		Total:            result.Total,
		Closed:           result.Closed,
	}
}
