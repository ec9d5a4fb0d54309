package adaptor

import (
	"seat-chart/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Chart       *ChartHandler
	Authoring   *AuthoringHandler
	Reservation *ReservationHandler
	Session     *SessionHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Chart:       NewChartHandler(service.Chart, log),
		Authoring:   NewAuthoringHandler(service.Authoring, log),
		Reservation: NewReservationHandler(service.Reservation, log),
		Session:     NewSessionHandler(service.Session, log),
	}
}
