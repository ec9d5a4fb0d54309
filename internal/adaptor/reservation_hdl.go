package adaptor

import (
	"net/http"

	"seat-chart/internal/dto/response"
	"seat-chart/internal/usecase"
	"seat-chart/pkg/utils"

	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// ChartStatus handles GET /api/charts/{id}/status
func (h *ReservationHandler) ChartStatus(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	statuses, err := h.service.BulkStatus(r.Context(), mapID)
	if err != nil {
		handleServiceError(w, h.log, err, "get chart status")
		return
	}

	utils.ResponseSuccess(w, "success", response.ChartStatusToResponse(mapID, statuses))
}

// SeatStatus handles GET /api/charts/{id}/seats/{seatID}/status
func (h *ReservationHandler) SeatStatus(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	seatID, ok := urlUUID(w, r, "seatID")
	if !ok {
		return
	}

	status, err := h.service.StatusOf(r.Context(), mapID, seatID)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat status")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]string{
		"seat_id": seatID.String(),
		"status":  string(status),
	})
}

// Reserve handles POST /api/charts/{id}/seats/{seatID}/reserve
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	seatID, ok := urlUUID(w, r, "seatID")
	if !ok {
		return
	}

	hold, err := h.service.Reserve(r.Context(), mapID, seatID)
	if err != nil {
		handleServiceError(w, h.log, err, "reserve seat")
		return
	}

	utils.ResponseCreated(w, "success", response.HoldToResponse(hold))
}

// Release handles POST /api/charts/{id}/seats/{seatID}/release
func (h *ReservationHandler) Release(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	seatID, ok := urlUUID(w, r, "seatID")
	if !ok {
		return
	}

	if err := h.service.ReleaseReservation(r.Context(), mapID, seatID); err != nil {
		handleServiceError(w, h.log, err, "release reservation")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Sales handles GET /api/charts/{id}/sales
func (h *ReservationHandler) Sales(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	sales, err := h.service.Sales(r.Context(), mapID)
	if err != nil {
		handleServiceError(w, h.log, err, "list sales")
		return
	}

	utils.ResponseSuccess(w, "success", response.SalesToResponse(sales))
}
