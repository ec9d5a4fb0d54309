package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutNotifier hands a completed checkout to the event/ticket system
// for downstream payment capture. That system is an external collaborator;
// this interface is its seam.
type CheckoutNotifier interface {
	CheckoutCompleted(ctx context.Context, seatMapID uuid.UUID, seatIDs []uuid.UUID, total decimal.Decimal) error
}

// LogNotifier is the default wiring when no ticketing backend is
// configured: it just records the sale.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) CheckoutCompleted(_ context.Context, seatMapID uuid.UUID, seatIDs []uuid.UUID, total decimal.Decimal) error {
	n.log.Info("Checkout completed",
		zap.String("seat_map_id", seatMapID.String()),
		zap.Int("seats", len(seatIDs)),
		zap.String("total", total.String()),
	)
	return nil
}
