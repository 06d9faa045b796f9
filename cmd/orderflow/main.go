package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ordrlab/orderflow/config"
	"github.com/ordrlab/orderflow/internal/gateway"
	handler "github.com/ordrlab/orderflow/internal/handler/http"
	"github.com/ordrlab/orderflow/internal/logger"
	"github.com/ordrlab/orderflow/internal/middleware"
	"github.com/ordrlab/orderflow/internal/repository"
	"github.com/ordrlab/orderflow/internal/repository/postgres"
	"github.com/ordrlab/orderflow/internal/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context cancelled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	// gateway clients live for the whole process
	identityClient := gateway.NewIdentityClient(cfg.IdentityAddr)
	ledgerClient := gateway.NewLedgerClient(cfg.LedgerAddr)
	notificationClient := gateway.NewNotificationClient(cfg.NotificationAddr)

	// dependency injection
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, identityClient, ledgerClient, notificationClient)
	orderHandler := handler.NewOrderHandler(orderService)

	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(logger.Log))

	router.Post("/orders", orderHandler.CreateOrder())
	router.Get("/orders", orderHandler.ListOrders())

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Error shutting down server", zap.Error(err))
	}

	logger.Log.Info("Server stopped")
}
