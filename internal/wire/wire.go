// internal/wire/wire.go
package wire

import (
	"net/http"

	"seat-chart/internal/adaptor"
	"seat-chart/internal/data/holdstore"
	"seat-chart/internal/data/repository"
	"seat-chart/internal/usecase"
	"seat-chart/pkg/middleware"
	"seat-chart/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application.
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies.
func Wiring(
	repo *repository.Repository,
	store holdstore.Store,
	images usecase.ImageStore,
	notifier usecase.CheckoutNotifier,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, store, images, notifier, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the chi router.
func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireChart(r, handler, config, logger)
	wireSession(r, handler, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
