// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/easyretail/shop-backend/internal/config"
	"github.com/easyretail/shop-backend/internal/database"
	"github.com/easyretail/shop-backend/internal/i18n"
	"github.com/easyretail/shop-backend/internal/logging"
	"github.com/easyretail/shop-backend/internal/repository"
	"github.com/easyretail/shop-backend/internal/router"
	"github.com/easyretail/shop-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.Setup(cfg.Log, cfg.IsProduction())

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logger.WithError(err).Fatal("Failed to initialize i18n")
	}

	repos, cleanup, err := openRepositories(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer cleanup()

	storageService, err := services.NewStorageService(cfg.AWS, cfg.Upload)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize storage")
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, stop := router.Initialize(router.Dependencies{
		Config:       cfg,
		Repositories: repos,
		Storage:      storageService,
		Logger:       logger,
	})
	defer stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// openRepositories picks the in-memory store, gorm, or gorm with the legacy
// SQL product store, and returns a func that closes what it opened.
func openRepositories(cfg *config.Config) (repository.Repositories, func(), error) {
	if cfg.Database.IsMemory() {
		logrus.Warn("Using in-memory store; data is lost on restart")
		return repository.NewMemoryRepositories(), func() {}, nil
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return repository.Repositories{}, nil, err
	}

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		database.Close(db)
		return repository.Repositories{}, nil, err
	}

	repos := repository.NewGormRepositories(db)
	if cfg.Database.ProductStore != config.ProductStoreSQL {
		return repos, func() { database.Close(db) }, nil
	}

	sqlDB, err := database.OpenSQL(cfg.Database)
	if err != nil {
		database.Close(db)
		return repository.Repositories{}, nil, err
	}
	logrus.Info("Using legacy SQL product store")
	repos.Products = repository.NewSQLProductRepository(sqlDB)
	return repos, closeAll(db, sqlDB), nil
}

func closeAll(db *gorm.DB, sqlDB *sql.DB) func() {
	return func() {
		if err := sqlDB.Close(); err != nil {
			logrus.WithError(err).Error("Error closing SQL product store")
		}
		database.Close(db)
	}
}
