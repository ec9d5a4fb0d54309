package request

type CreateSessionRequest struct {
	SeatMapID string `json:"seat_map_id" validate:"required,uuid4"`
	// MaxSeats of 0 falls back to the configured default.
	MaxSeats int `json:"max_seats" validate:"min=0,max=100"`
}

type SelectSeatRequest struct {
	SeatID string `json:"seat_id" validate:"required,uuid4"`
}
