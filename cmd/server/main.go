package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anggit1/Toko-baju/internal/application/service"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/auth"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/config"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/db"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/handler"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn("Unknown log level, using INFO", map[string]interface{}{"log_level": cfg.LogLevel})
		level = logger.InfoLevel
	}
	log := logger.NewJSONLogger(os.Stdout, level)
	logger.SetDefaultLogger(log)
	defer log.Sync()

	log.Info("Starting Toko Baju transaction service", map[string]interface{}{
		"store_driver": cfg.StoreDriver,
		"port":         cfg.Port,
	})

	store, err := db.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", map[string]interface{}{"error": err.Error()})
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing store", map[string]interface{}{"error": err.Error()})
		}
	}()

	redisClient, err := auth.Connect(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	defer redisClient.Close()

	identity := auth.NewRedisIdentityProvider(redisClient, cfg.TokenPrefix)
	txService := service.NewTransactionService(store.Transactions, log)
	txHandler := handler.NewTransactionHandler(txService, identity, log)

	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.RecoveryMiddleware(log),
	)
	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	txHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.ErrorLog(),
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("Shutting down server", map[string]interface{}{"signal": sig.String()})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("Server stopped", nil)
}
