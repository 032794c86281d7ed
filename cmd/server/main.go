package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caritas/internal/auth"
	"caritas/internal/catalog"
	"caritas/internal/catalog/repository"
	"caritas/internal/commons"
	"caritas/internal/config"
	"caritas/internal/confirmation"
	"caritas/internal/dashboard"
	"caritas/internal/gateway"
	"caritas/internal/infrastructure/logger"
	"caritas/internal/infrastructure/mysql"
	"caritas/internal/reservation"
	"caritas/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A local .env is optional; real environment variables still win.
	_ = godotenv.Load()

	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	sessions := auth.NewSessionStore(cfg.Auth.SessionPath, zapLogger)
	client := gateway.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sessions, zapLogger)
	defer client.Close()

	services, err := loadCatalog(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("loading service catalog", zap.Error(err))
	}
	zapLogger.Info("service catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("services", len(services.All())))

	router := server.NewRouter(server.Controllers{
		Auth:         auth.NewModule(client, sessions, cfg.Auth.CookieSecure, zapLogger),
		Reservations: reservation.NewModule(client, services, zapLogger),
		Catalog:      catalog.NewController(services, zapLogger),
		Dashboard:    dashboard.NewModule(client, zapLogger),
		Confirmation: confirmation.NewModule(client, zapLogger),
	}, sessions, zapLogger)

	srv := server.New(cfg.Server.Host, cfg.Server.Port, cfg.API.Timeout, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// loadCatalog reads the catalog once at startup. The database is only opened
// when the catalog lives there and is closed after the snapshot.
func loadCatalog(cfg *config.Config, zapLogger *zap.Logger) (*catalog.Static, error) {
	if cfg.Catalog.Source != config.CatalogSourceMySQL {
		return catalog.FromConfig(cfg.Catalog.Services), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	zapLogger.Info("database connected")

	return catalog.Load(ctx, repository.NewMySQLCatalogRepository(db))
}
