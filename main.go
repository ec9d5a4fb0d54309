// main.go
package main

import (
	"log"

	"seat-chart/cmd"
	"seat-chart/internal/data/holdstore"
	"seat-chart/internal/data/repository"
	"seat-chart/internal/usecase"
	"seat-chart/internal/wire"
	"seat-chart/pkg/database"
	"seat-chart/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Hold store: redis when reachable, otherwise in-process memory.
	var store holdstore.Store
	if rdb, err := database.InitRedis(config.Redis); err != nil {
		logger.Warn("Redis unavailable, using in-memory hold store", zap.Error(err))
		store = holdstore.NewMemoryStore(config.Reservation.SweepInterval, logger)
	} else {
		store = holdstore.NewRedisStore(rdb, logger)
	}
	defer store.Close()

	// Local image storage for uploaded charts
	images, err := usecase.NewLocalImageStore(config.Upload.Dir)
	if err != nil {
		logger.Fatal("Failed to init image store", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, store, images, usecase.NewLogNotifier(logger), config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port, logger)
}
