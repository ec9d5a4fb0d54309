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

type SeatRepository interface {
	Create(ctx context.Context, seat *entity.Seat) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error)
	FindBySeatMapID(ctx context.Context, seatMapID uuid.UUID) ([]*entity.Seat, error)
	Update(ctx context.Context, seat *entity.Seat) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) Create(ctx context.Context, seat *entity.Seat) error {
	query := `
		INSERT INTO seats (id, seat_map_id, pos_x, pos_y, label, seat_row, section, category_id, is_accessible, is_blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		seat.ID,
		seat.SeatMapID,
		seat.PosX,
		seat.PosY,
		seat.Label,
		seat.Row,
		seat.Section,
		seat.CategoryID,
		seat.IsAccessible,
		seat.IsBlocked,
		seat.CreatedAt,
		seat.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create seat",
			zap.Error(err),
			zap.String("seat_map_id", seat.SeatMapID.String()),
			zap.String("label", seat.Label),
		)
		return fmt.Errorf("failed to create seat: %w", err)
	}

	return nil
}

func (r *seatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	query := `
		SELECT id, seat_map_id, pos_x, pos_y, label, seat_row, section, category_id, is_accessible, is_blocked, created_at, updated_at
		FROM seats
		WHERE id = $1
	`

	var seat entity.Seat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&seat.ID,
		&seat.SeatMapID,
		&seat.PosX,
		&seat.PosY,
		&seat.Label,
		&seat.Row,
		&seat.Section,
		&seat.CategoryID,
		&seat.IsAccessible,
		&seat.IsBlocked,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat by ID",
			zap.Error(err),
			zap.String("seat_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find seat: %w", err)
	}

	return &seat, nil
}

func (r *seatRepository) FindBySeatMapID(ctx context.Context, seatMapID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT id, seat_map_id, pos_x, pos_y, label, seat_row, section, category_id, is_accessible, is_blocked, created_at, updated_at
		FROM seats
		WHERE seat_map_id = $1
		ORDER BY label ASC
	`

	rows, err := r.db.Query(ctx, query, seatMapID)
	if err != nil {
		r.log.Error("Failed to find seats by seat map",
			zap.Error(err),
			zap.String("seat_map_id", seatMapID.String()),
		)
		return nil, fmt.Errorf("failed to find seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		if err := rows.Scan(
			&seat.ID,
			&seat.SeatMapID,
			&seat.PosX,
			&seat.PosY,
			&seat.Label,
			&seat.Row,
			&seat.Section,
			&seat.CategoryID,
			&seat.IsAccessible,
			&seat.IsBlocked,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seats: %w", err)
	}

	return seats, nil
}

func (r *seatRepository) Update(ctx context.Context, seat *entity.Seat) error {
	query := `
		UPDATE seats
		SET pos_x = $2, pos_y = $3, label = $4, seat_row = $5, section = $6, category_id = $7, is_accessible = $8, updated_at = $9
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query,
		seat.ID,
		seat.PosX,
		seat.PosY,
		seat.Label,
		seat.Row,
		seat.Section,
		seat.CategoryID,
		seat.IsAccessible,
		time.Now(),
	)

	if err != nil {
		r.log.Error("Failed to update seat",
			zap.Error(err),
			zap.String("seat_id", seat.ID.String()),
		)
		return fmt.Errorf("failed to update seat: %w", err)
	}

	return nil
}

func (r *seatRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	query := `
		UPDATE seats
		SET is_blocked = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id, blocked, time.Now())
	if err != nil {
		r.log.Error("Failed to update seat blocked flag",
			zap.Error(err),
			zap.String("seat_id", id.String()),
			zap.Bool("blocked", blocked),
		)
		return fmt.Errorf("failed to update seat blocked flag: %w", err)
	}

	return nil
}

func (r *seatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM seats WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete seat",
			zap.Error(err),
			zap.String("seat_id", id.String()),
		)
		return fmt.Errorf("failed to delete seat: %w", err)
	}

	return nil
}
