package repository

import (
	"context"
	"fmt"

	"seat-chart/internal/data/entity"
	"seat-chart/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *entity.SeatSale) error
	FindBySeatMapID(ctx context.Context, seatMapID uuid.UUID) ([]*entity.SeatSale, error)
}

type saleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSaleRepository(db database.PgxIface, log *zap.Logger) SaleRepository {
	return &saleRepository{
		db:  db,
		log: log.With(zap.String("repository", "sale")),
	}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.SeatSale) error {
	query := `
		INSERT INTO seat_sales (id, seat_map_id, seat_id, holder_token, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		sale.ID,
		sale.SeatMapID,
		sale.SeatID,
		sale.HolderToken,
		sale.Price,
		sale.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to record seat sale",
			zap.Error(err),
			zap.String("seat_id", sale.SeatID.String()),
		)
		return fmt.Errorf("failed to record seat sale: %w", err)
	}

	return nil
}

func (r *saleRepository) FindBySeatMapID(ctx context.Context, seatMapID uuid.UUID) ([]*entity.SeatSale, error) {
	query := `
		SELECT id, seat_map_id, seat_id, holder_token, price, created_at
		FROM seat_sales
		WHERE seat_map_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, seatMapID)
	if err != nil {
		r.log.Error("Failed to find seat sales",
			zap.Error(err),
			zap.String("seat_map_id", seatMapID.String()),
		)
		return nil, fmt.Errorf("failed to find seat sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.SeatSale
	for rows.Next() {
		var sale entity.SeatSale
		if err := rows.Scan(
			&sale.ID,
			&sale.SeatMapID,
			&sale.SeatID,
			&sale.HolderToken,
			&sale.Price,
			&sale.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan seat sale: %w", err)
		}
		sales = append(sales, &sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seat sales: %w", err)
	}

	return sales, nil
}
