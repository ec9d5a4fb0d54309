package entity

import "github.com/google/uuid"

// Seat is a placed seat on a chart. PosX/PosY are normalized coordinates in
// [0,100]; sale state is never stored here - it lives in the hold store.
type Seat struct {
	Base
	SeatMapID    uuid.UUID `db:"seat_map_id"`
	PosX         float64   `db:"pos_x"`
	PosY         float64   `db:"pos_y"`
	Label        string    `db:"label"` // A1, A2, B1, etc.
	Row          *string   `db:"seat_row"`
	Section      *string   `db:"section"`
	CategoryID   uuid.UUID `db:"category_id"`
	IsAccessible bool      `db:"is_accessible"` // ADA flag
	IsBlocked    bool      `db:"is_blocked"`    // permanently unsellable, e.g. obstructed view
}
