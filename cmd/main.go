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

	"go.uber.org/zap"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/config"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/dal"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/handler"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize database connection
	db, err := initDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	clientRepo := dal.NewClientRepository(db)
	orderRepo := dal.NewOrderRepository(db)
	refRepo := dal.NewReferenceRepository(db)

	// Initialize services
	discrepancyService := service.NewDiscrepancyService(clientRepo, orderRepo, refRepo, logger)
	mismatchService := service.NewMismatchService(clientRepo, orderRepo, refRepo, logger)
	reassignService := service.NewReassignService(orderRepo, mismatchService, logger)
	mealTypeService := service.NewMealTypeService(clientRepo, orderRepo, refRepo, logger)

	// Initialize handlers
	consistencyHandler := handler.NewConsistencyHandler(
		discrepancyService,
		mismatchService,
		reassignService,
		mealTypeService,
	)

	// Create router
	router := NewRouter(consistencyHandler, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("error starting server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited properly")
}

func initDB(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("successfully connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)
	return db, nil
}
