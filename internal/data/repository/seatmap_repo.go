package repository

import (
	"context"
	"fmt"
	"time"

	"seat-chart/internal/data/entity"
	"seat-chart/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SeatMapRepository interface {
	Create(ctx context.Context, seatMap *entity.SeatMap) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.SeatMap, error)
	SetPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error
}

type seatMapRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatMapRepository(db database.PgxIface, log *zap.Logger) SeatMapRepository {
	return &seatMapRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_map")),
	}
}

func (r *seatMapRepository) Create(ctx context.Context, seatMap *entity.SeatMap) error {
	query := `
		INSERT INTO seat_maps (id, venue_image_ref, image_width, image_height, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		seatMap.ID,
		seatMap.VenueImageRef,
		seatMap.ImageWidth,
		seatMap.ImageHeight,
		seatMap.PublishedAt,
		seatMap.CreatedAt,
		seatMap.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create seat map",
			zap.Error(err),
			zap.String("seat_map_id", seatMap.ID.String()),
		)
		return fmt.Errorf("failed to create seat map: %w", err)
	}

	return nil
}

func (r *seatMapRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.SeatMap, error) {
	query := `
		SELECT id, venue_image_ref, image_width, image_height, published_at, created_at, updated_at
		FROM seat_maps
		WHERE id = $1
	`

	var seatMap entity.SeatMap
	err := r.db.QueryRow(ctx, query, id).Scan(
		&seatMap.ID,
		&seatMap.VenueImageRef,
		&seatMap.ImageWidth,
		&seatMap.ImageHeight,
		&seatMap.PublishedAt,
		&seatMap.CreatedAt,
		&seatMap.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat map by ID",
			zap.Error(err),
			zap.String("seat_map_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find seat map: %w", err)
	}

	return &seatMap, nil
}

func (r *seatMapRepository) SetPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	query := `
		UPDATE seat_maps
		SET published_at = $2, updated_at = $3
		WHERE id = $1 AND published_at IS NULL
	`

	_, err := r.db.Exec(ctx, query, id, publishedAt, time.Now())
	if err != nil {
		r.log.Error("Failed to publish seat map",
			zap.Error(err),
			zap.String("seat_map_id", id.String()),
		)
		return fmt.Errorf("failed to publish seat map: %w", err)
	}

	return nil
}
