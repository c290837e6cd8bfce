package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"spice-storefront/internal/client"
	"spice-storefront/internal/config"
	"spice-storefront/internal/repository"
	"spice-storefront/internal/server"
	"spice-storefront/internal/service"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(&cfg.Log))

	db, err := client.InitStorageClient(&cfg.Storage)
	if err != nil {
		slog.Error("init storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	states, err := service.LoadStateCatalogue()
	if err != nil {
		slog.Error("load state catalogue", "error", err)
		os.Exit(1)
	}

	// the session both feeds the client its token and depends on the client
	var sessionService service.SessionService
	backendClient := client.NewBackendClient(&cfg.Backend, client.TokenFunc(func() string {
		return sessionService.Token()
	}))
	imageUploader := client.NewCloudinaryClient(&cfg.Cloudinary)

	storageRepo := repository.NewStorageRepository(db)
	bus := service.NewBus()

	sessionService = service.NewSessionService(backendClient, storageRepo, bus)
	backendClient.OnSessionExpired(sessionService.Expire)

	cartService := service.NewCartService(backendClient, sessionService, bus)
	pricingService := service.NewPricingService(backendClient, cartService, bus)
	addressService := service.NewAddressService(backendClient, sessionService, bus)
	checkoutService := service.NewCheckoutService(
		backendClient,
		backendClient,
		sessionService,
		cartService,
		pricingService,
		addressService,
	)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	if err := sessionService.Bootstrap(bootCtx); err != nil {
		slog.Error("restore session", "error", err)
	}
	if sessionService.IsAuthenticated() {
		if err := cartService.Load(bootCtx); err != nil {
			slog.Warn("load cart", "error", err)
		}
	}
	bootCancel()

	srv := server.NewServer(server.Services{
		Session:   sessionService,
		Catalog:   service.NewCatalogService(backendClient),
		Addresses: addressService,
		Cart:      cartService,
		Pricing:   pricingService,
		Checkout:  checkoutService,
		Orders:    service.NewOrderService(backendClient, sessionService),
		Admin:     service.NewAdminService(backendClient, backendClient, imageUploader, states),
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	slog.Info("Starting HTTP server", "addr", serverAddr, "env", cfg.Environment.Name, "backend", cfg.Backend.BaseURL)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	slog.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newLogger(logCfg *config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logCfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(logCfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
