package wire

import (
	"seat-chart/internal/adaptor"
	"seat-chart/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireChart(
	r chi.Router,
	handler *adaptor.Handler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ORGANIZER ROUTES ====================
	// Authoring and comp-ticket flows, grouped so an authorization gate can
	// wrap them when one is wired in.
	r.Group(func(r chi.Router) {
		// POST /api/charts - Upload a venue image and create a chart
		r.Post("/api/charts", handler.Authoring.UploadChart)

		// POST /api/charts/{id}/categories - Add a price category
		r.Post("/api/charts/{id}/categories", handler.Chart.AddCategory)

		// POST /api/charts/{id}/placement - Choose the active category
		r.Post("/api/charts/{id}/placement", handler.Authoring.BeginPlacement)

		// POST /api/charts/{id}/seats - Place a seat at a pixel click
		r.Post("/api/charts/{id}/seats", handler.Authoring.PlaceSeat)

		// PATCH /api/charts/{id}/seats/{seatID} - Edit a placed seat
		r.Patch("/api/charts/{id}/seats/{seatID}", handler.Chart.UpdateSeat)

		// DELETE /api/charts/{id}/seats/{seatID} - Remove a seat
		r.Delete("/api/charts/{id}/seats/{seatID}", handler.Chart.RemoveSeat)

		// PUT /api/charts/{id}/seats/{seatID}/block - Block or unblock
		r.Put("/api/charts/{id}/seats/{seatID}/block", handler.Chart.BlockSeat)

		// POST /api/charts/{id}/seats/{seatID}/reserve - Comp a seat
		r.Post("/api/charts/{id}/seats/{seatID}/reserve", handler.Reservation.Reserve)

		// POST /api/charts/{id}/seats/{seatID}/release - Un-comp a seat
		r.Post("/api/charts/{id}/seats/{seatID}/release", handler.Reservation.Release)

		// POST /api/charts/{id}/publish - Freeze the chart for sale
		r.Post("/api/charts/{id}/publish", handler.Authoring.Publish)

		// GET /api/charts/{id}/statistics - Authoring aggregates
		r.Get("/api/charts/{id}/statistics", handler.Chart.Statistics)

		// GET /api/charts/{id}/sales - Durable sales ledger
		r.Get("/api/charts/{id}/sales", handler.Reservation.Sales)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/charts/{id} - Chart definition for rendering
	r.Get("/api/charts/{id}", handler.Chart.GetChart)

	// GET /api/charts/{id}/status - Live status of every seat
	r.Get("/api/charts/{id}/status", handler.Reservation.ChartStatus)

	// GET /api/charts/{id}/seats/{seatID}/status - One seat's live status
	r.Get("/api/charts/{id}/seats/{seatID}/status", handler.Reservation.SeatStatus)
}
