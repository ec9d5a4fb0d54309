package repository

import (
	"seat-chart/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	SeatMap  SeatMapRepository
	Category CategoryRepository
	Seat     SeatRepository
	Sale     SaleRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		SeatMap:  NewSeatMapRepository(db, log),
		Category: NewCategoryRepository(db, log),
		Seat:     NewSeatRepository(db, log),
		Sale:     NewSaleRepository(db, log),
	}
}
