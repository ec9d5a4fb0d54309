package adaptor

import (
	"encoding/json"
	"net/http"

	"seat-chart/internal/dto/request"
	"seat-chart/internal/dto/response"
	"seat-chart/internal/usecase"
	"seat-chart/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionHandler struct {
	service usecase.SessionService
	log     *zap.Logger
}

func NewSessionHandler(service usecase.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log.With(zap.String("handler", "session")),
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	seatMapID, err := uuid.Parse(req.SeatMapID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid seat_map_id", nil)
		return
	}

	summary, err := h.service.Create(r.Context(), seatMapID, req.MaxSeats)
	if err != nil {
		handleServiceError(w, h.log, err, "create session")
		return
	}

	utils.ResponseCreated(w, "success", response.SessionToResponse(summary))
}

// SelectSeat handles POST /api/sessions/{id}/seats
func (h *SessionHandler) SelectSeat(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.SelectSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid seat_id", nil)
		return
	}

	summary, err := h.service.Select(r.Context(), sessionID, seatID)
	if err != nil {
		handleServiceError(w, h.log, err, "select seat")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(summary))
}

// DeselectSeat handles DELETE /api/sessions/{id}/seats/{seatID}
func (h *SessionHandler) DeselectSeat(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	seatID, ok := urlUUID(w, r, "seatID")
	if !ok {
		return
	}

	summary, err := h.service.Deselect(r.Context(), sessionID, seatID)
	if err != nil {
		handleServiceError(w, h.log, err, "deselect seat")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(summary))
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, h.log, err, "get session")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(summary))
}

// Checkout handles POST /api/sessions/{id}/checkout
func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.Checkout(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, h.log, err, "checkout")
		return
	}

	utils.ResponseSuccess(w, "success", response.CheckoutToResponse(result))
}

// CancelSession handles DELETE /api/sessions/{id}
func (h *SessionHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), sessionID); err != nil {
		handleServiceError(w, h.log, err, "cancel session")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
