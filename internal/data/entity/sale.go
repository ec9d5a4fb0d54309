package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeatSale is the durable ledger row written when a hold is committed.
// The hold store answers live status; this table survives a cache flush.
type SeatSale struct {
	BaseSimple
	SeatMapID   uuid.UUID       `db:"seat_map_id"`
	SeatID      uuid.UUID       `db:"seat_id"`
	HolderToken string          `db:"holder_token"`
	Price       decimal.Decimal `db:"price"`
}
