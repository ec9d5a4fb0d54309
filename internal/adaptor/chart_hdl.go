package adaptor

import (
	"encoding/json"
	"net/http"

	"seat-chart/internal/dto/request"
	"seat-chart/internal/dto/response"
	"seat-chart/internal/usecase"
	"seat-chart/pkg/geometry"
	"seat-chart/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChartHandler struct {
	service usecase.ChartService
	log     *zap.Logger
}

func NewChartHandler(service usecase.ChartService, log *zap.Logger) *ChartHandler {
	return &ChartHandler{
		service: service,
		log:     log.With(zap.String("handler", "chart")),
	}
}

// GetChart handles GET /api/charts/{id}
// Optional display_width and display_height query parameters ask for seat
// positions projected onto that resolution alongside the normalized ones.
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetChart(r.Context(), mapID)
	if err != nil {
		handleServiceError(w, h.log, err, "get chart")
		return
	}

	display := geometry.ImageSize{
		Width:  utils.ParseInt(r.URL.Query().Get("display_width"), 0),
		Height: utils.ParseInt(r.URL.Query().Get("display_height"), 0),
	}

	utils.ResponseSuccess(w, "success", response.ChartDetailToResponse(detail, display))
}

// AddCategory handles POST /api/charts/{id}/categories
func (h *ChartHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	category, err := h.service.AddCategory(r.Context(), mapID, req.Name, req.UnitPrice, req.ColorHint, req.Description)
	if err != nil {
		handleServiceError(w, h.log, err, "add category")
		return
	}

	utils.ResponseCreated(w, "success", response.CategoryToResponse(category))
}

// UpdateSeat handles PATCH /api/charts/{id}/seats/{seatID}
func (h *ChartHandler) UpdateSeat(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	seatID, ok := urlUUID(w, r, "seatID")
	if !ok {
		return
	}

	var req request.UpdateSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}
	if (req.X == nil) != (req.Y == nil) {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"position": "x and y must be sent together"})
		return
	}

	update := usecase.SeatUpdate{
		Label:        req.Label,
		Row:          req.Row,
		Section:      req.Section,
		IsAccessible: req.IsAccessible,
	}
	if req.X != nil {
		update.Position = &geometry.Normalized{X: *req.X, Y: *req.Y}
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid category_id", nil)
			return
		}
		update.CategoryID = &categoryID
	}

	seat, err := h.service.UpdateSeat(r.Context(), mapID, seatID, update)
	if err != nil {
		handleServiceError(w, h.log, err, "update seat")
		return
	}

	utils.ResponseSuccess(w, "success", response.SeatToResponse(seat))
}

// RemoveSeat handles DELETE /api/charts/{id}/seats/{seatID}
func (h *ChartHandler) RemoveSeat(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	seatID, ok := urlUUID(w, r, "seatID")
	if !ok {
		return
	}

	if err := h.service.RemoveSeat(r.Context(), mapID, seatID); err != nil {
		handleServiceError(w, h.log, err, "remove seat")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// BlockSeat handles PUT /api/charts/{id}/seats/{seatID}/block
func (h *ChartHandler) BlockSeat(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	seatID, ok := urlUUID(w, r, "seatID")
	if !ok {
		return
	}

	var req request.BlockSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.SetSeatBlocked(r.Context(), mapID, seatID, *req.Blocked); err != nil {
		handleServiceError(w, h.log, err, "block seat")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Statistics handles GET /api/charts/{id}/statistics
func (h *ChartHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.service.Statistics(r.Context(), mapID)
	if err != nil {
		handleServiceError(w, h.log, err, "get statistics")
		return
	}

	utils.ResponseSuccess(w, "success", response.StatisticsToResponse(stats))
}
