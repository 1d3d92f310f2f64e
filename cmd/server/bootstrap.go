package main

import (
	"context"
	"fmt"

	"github.com/huangang/taskhub/backend/internal/config"
	"github.com/huangang/taskhub/backend/internal/handlers"
	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/internal/services"
	"github.com/huangang/taskhub/backend/internal/store"
	"github.com/huangang/taskhub/backend/internal/store/mongostore"
	"github.com/huangang/taskhub/backend/internal/utils"
	"github.com/huangang/taskhub/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	store   store.Store
	sweeper *services.OrphanSweeper

	authService    *services.AuthService
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	projectHandler *handlers.ProjectHandler
	taskHandler    *handlers.TaskHandler
	healthHandler  *handlers.HealthHandler
}

// bootstrap opens the store and wires every service to it. A store that
// cannot be reached at startup is fatal.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("Database connected")

	return wireServices(cfg, st)
}

// wireServices builds the services and handlers on top of an open store.
func wireServices(cfg *config.Config, st store.Store) *appServices {
	authService := services.NewAuthService(st, &cfg.JWT)
	projectService := services.NewProjectService(st, services.NewProjectAggregator(st))
	taskService := services.NewTaskService(st)

	var sweeper *services.OrphanSweeper
	if cfg.Sweeper.Enabled {
		sweeper = services.NewOrphanSweeper(st, cfg.Sweeper.Schedule)
		if err := sweeper.Start(); err != nil {
			logger.Warn().Err(err).Msg("Failed to start orphan task sweeper")
			sweeper = nil
		}
	}

	return &appServices{
		store:          st,
		sweeper:        sweeper,
		authService:    authService,
		authHandler:    handlers.NewAuthHandler(authService),
		userHandler:    handlers.NewUserHandler(authService),
		projectHandler: handlers.NewProjectHandler(projectService),
		taskHandler:    handlers.NewTaskHandler(taskService),
		healthHandler:  handlers.NewHealthHandler(st),
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Database.Driver == "mongodb" {
		return mongostore.Connect(context.Background(), &cfg.Database)
	}

	db, err := models.OpenDB(&cfg.Database, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	st := store.NewGormStore(db)
	if err := models.AutoMigrate(db); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}

// shutdown stops background work and releases the store.
func (s *appServices) shutdown() {
	if s.sweeper != nil {
		s.sweeper.Stop()
		logger.Info().Msg("Orphan task sweeper stopped")
	}
	if err := s.store.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close database")
		return
	}
	logger.Info().Msg("Database closed")
}
