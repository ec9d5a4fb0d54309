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

// 32 MB of multipart form state in memory before spilling to disk; the
// upload itself is size-checked downstream.
const maxMultipartMemory = 32 << 20

type AuthoringHandler struct {
	service usecase.AuthoringService
	log     *zap.Logger
}

func NewAuthoringHandler(service usecase.AuthoringService, log *zap.Logger) *AuthoringHandler {
	return &AuthoringHandler{
		service: service,
		log:     log.With(zap.String("handler", "authoring")),
	}
}

// UploadChart handles POST /api/charts (multipart, field "image")
func (h *AuthoringHandler) UploadChart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.ResponseBadRequest(w, "Image file is required", nil)
		return
	}
	defer file.Close()

	seatMap, err := h.service.UploadChart(r.Context(), header.Filename, file)
	if err != nil {
		handleServiceError(w, h.log, err, "upload chart")
		return
	}

	utils.ResponseCreated(w, "success", response.SeatMapToResponse(seatMap))
}

// BeginPlacement handles POST /api/charts/{id}/placement
func (h *AuthoringHandler) BeginPlacement(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.BeginPlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid category_id", nil)
		return
	}

	if err := h.service.BeginPlacement(r.Context(), mapID, categoryID); err != nil {
		handleServiceError(w, h.log, err, "begin placement")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// PlaceSeat handles POST /api/charts/{id}/seats
func (h *AuthoringHandler) PlaceSeat(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.PlaceSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	seat, err := h.service.PlaceAt(r.Context(), mapID, req.PixelX, req.PixelY,
		geometry.ImageSize{Width: req.DisplayWidth, Height: req.DisplayHeight},
		usecase.SeatAttrs{
			Label:        req.Label,
			Row:          req.Row,
			Section:      req.Section,
			IsAccessible: req.IsAccessible,
		})
	if err != nil {
		handleServiceError(w, h.log, err, "place seat")
		return
	}

	utils.ResponseCreated(w, "success", response.SeatToResponse(seat))
}

// Publish handles POST /api/charts/{id}/publish
func (h *AuthoringHandler) Publish(w http.ResponseWriter, r *http.Request) {
	mapID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Publish(r.Context(), mapID); err != nil {
		handleServiceError(w, h.log, err, "publish chart")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
