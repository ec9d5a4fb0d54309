package wire

import (
	"seat-chart/internal/adaptor"
	"seat-chart/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSession(
	r chi.Router,
	handler *adaptor.Handler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== BUYER ROUTES ====================
	// POST /api/sessions - Start a selection session for a chart
	r.Post("/api/sessions", handler.Session.CreateSession)

	// GET /api/sessions/{id} - Held seats and running total
	r.Get("/api/sessions/{id}", handler.Session.GetSession)

	// POST /api/sessions/{id}/seats - Select (hold) a seat
	r.Post("/api/sessions/{id}/seats", handler.Session.SelectSeat)

	// DELETE /api/sessions/{id}/seats/{seatID} - Deselect a seat
	r.Delete("/api/sessions/{id}/seats/{seatID}", handler.Session.DeselectSeat)

	// POST /api/sessions/{id}/checkout - Commit every held seat
	r.Post("/api/sessions/{id}/checkout", handler.Session.Checkout)

	// DELETE /api/sessions/{id} - Abandon the session
	r.Delete("/api/sessions/{id}", handler.Session.CancelSession)
}
