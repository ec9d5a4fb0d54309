package adaptor

import (
	"errors"
	"net/http"

	"seat-chart/internal/usecase"
	"seat-chart/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Sentinel values are expected outcomes and log at warn; anything
// unclassified is a storage-class fault and logs at error.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError
	var uploadErr *usecase.UploadRejectedError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.As(err, &uploadErr):
		log.Warn(operation+" upload rejected", zap.Error(err))
		utils.ResponseUnprocessable(w, uploadErr.Detail, map[string]string{"reason": uploadErr.Reason})

	case errors.Is(err, usecase.ErrMapNotFound),
		errors.Is(err, usecase.ErrSeatNotFound),
		errors.Is(err, usecase.ErrCategoryNotFound),
		errors.Is(err, usecase.ErrSessionNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrNotHolder):
		log.Warn(operation+" failed - not holder", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrHoldExpired):
		log.Warn(operation+" failed - hold expired", zap.Error(err))
		utils.ResponseGone(w, err.Error())

	case errors.Is(err, usecase.ErrSeatUnavailable),
		errors.Is(err, usecase.ErrSeatBlocked),
		errors.Is(err, usecase.ErrMapFrozen),
		errors.Is(err, usecase.ErrSelectionLimit):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// urlUUID parses a uuid path parameter; it writes the 400 itself and
// reports ok=false when the value is malformed.
func urlUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
