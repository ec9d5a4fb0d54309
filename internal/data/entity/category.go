package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceCategory groups seats under one price point ("VIP", "Balcony", ...).
// Owned by a single seat map.
type PriceCategory struct {
	BaseSimple
	SeatMapID   uuid.UUID       `db:"seat_map_id"`
	Name        string          `db:"name"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	ColorHint   string          `db:"color_hint"` // e.g. #d4af37, for rendering
	Description *string         `db:"description"`
}
