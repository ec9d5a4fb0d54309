package repository

import (
	"context"
	"fmt"

	"seat-chart/internal/data/entity"
	"seat-chart/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.PriceCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PriceCategory, error)
	FindBySeatMapID(ctx context.Context, seatMapID uuid.UUID) ([]*entity.PriceCategory, error)
}

type categoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCategoryRepository(db database.PgxIface, log *zap.Logger) CategoryRepository {
	return &categoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "category")),
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.PriceCategory) error {
	query := `
		INSERT INTO price_categories (id, seat_map_id, name, unit_price, color_hint, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		category.ID,
		category.SeatMapID,
		category.Name,
		category.UnitPrice,
		category.ColorHint,
		category.Description,
		category.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create price category",
			zap.Error(err),
			zap.String("seat_map_id", category.SeatMapID.String()),
			zap.String("name", category.Name),
		)
		return fmt.Errorf("failed to create price category: %w", err)
	}

	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PriceCategory, error) {
	query := `
		SELECT id, seat_map_id, name, unit_price, color_hint, description, created_at
		FROM price_categories
		WHERE id = $1
	`

	var category entity.PriceCategory
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.SeatMapID,
		&category.Name,
		&category.UnitPrice,
		&category.ColorHint,
		&category.Description,
		&category.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find price category by ID",
			zap.Error(err),
			zap.String("category_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find price category: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) FindBySeatMapID(ctx context.Context, seatMapID uuid.UUID) ([]*entity.PriceCategory, error) {
	query := `
		SELECT id, seat_map_id, name, unit_price, color_hint, description, created_at
		FROM price_categories
		WHERE seat_map_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, seatMapID)
	if err != nil {
		r.log.Error("Failed to find price categories by seat map",
			zap.Error(err),
			zap.String("seat_map_id", seatMapID.String()),
		)
		return nil, fmt.Errorf("failed to find price categories: %w", err)
	}
	defer rows.Close()

	var categories []*entity.PriceCategory
	for rows.Next() {
		var category entity.PriceCategory
		if err := rows.Scan(
			&category.ID,
			&category.SeatMapID,
			&category.Name,
			&category.UnitPrice,
			&category.ColorHint,
			&category.Description,
			&category.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price category: %w", err)
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price categories: %w", err)
	}

	return categories, nil
}
