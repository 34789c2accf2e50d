package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/4ourCEo/Kitly/internal/client"
	"github.com/4ourCEo/Kitly/internal/config"
	"github.com/4ourCEo/Kitly/internal/logger"
	"github.com/4ourCEo/Kitly/internal/repository"
	"github.com/4ourCEo/Kitly/internal/server"
	"github.com/4ourCEo/Kitly/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
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

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := client.InitMysqlClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe)
	googleClient := client.NewGoogleClient(&cfg.Google)

	kitRepo := repository.NewKitRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	userRepo := repository.NewUserRepository(db)

	if err := kitRepo.Seed(context.Background()); err != nil {
		log.Warn("seed catalog", zap.Error(err))
	}

	checkoutService := service.NewCheckoutService(
		db, stripeClient,
		kitRepo,
		entitlementRepo,
		webhookEventRepo,
		log,
	)
	catalogService := service.NewCatalogService(kitRepo, entitlementRepo)
	authService := service.NewAuthService(userRepo, googleClient, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(checkoutService, catalogService, authService, cfg.BaseURL, log)

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
