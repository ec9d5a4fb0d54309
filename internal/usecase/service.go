package usecase

import (
	"seat-chart/internal/data/holdstore"
	"seat-chart/internal/data/repository"
	"seat-chart/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Chart       ChartService
	Authoring   AuthoringService
	Reservation ReservationService
	Session     SessionService
}

func NewService(repo *repository.Repository, store holdstore.Store, images ImageStore, notifier CheckoutNotifier, config *utils.Config, log *zap.Logger) *Service {
	chart := NewChartService(repo, config, log)
	reservation := NewReservationService(repo, store, config, log)

	return &Service{
		Chart:       chart,
		Authoring:   NewAuthoringService(chart, images, config, log),
		Reservation: reservation,
		Session:     NewSessionService(repo, reservation, notifier, config, log),
	}
}
