package main

import (
	"net/http"

	"worktime/config"
	"worktime/database"
	"worktime/handlers"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	router := handlers.NewRouter(logger)

	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := http.ListenAndServe(":"+cfg.ServerPort, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
