package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/talent-platform/config"
	"github.com/Dosada05/talent-platform/db"
	"github.com/Dosada05/talent-platform/events"
	"github.com/Dosada05/talent-platform/handlers"
	"github.com/Dosada05/talent-platform/repositories"
	api "github.com/Dosada05/talent-platform/routes"
	"github.com/Dosada05/talent-platform/services"
	"github.com/Dosada05/talent-platform/storage"
	"github.com/go-chi/chi/v5"
)

// sweeperInterval controls how often expired verification tokens are purged.
const sweeperInterval = 1 * time.Hour

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, profile photo uploads disabled")
	}

	consentHub := events.NewHub(logger)
	go consentHub.Run()
	logger.Info("consent event hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	tokenRepo := repositories.NewPostgresTokenRepository(dbConn)
	consentRepo := repositories.NewPostgresConsentRepository(dbConn)
	txManager := repositories.NewTxManager(dbConn)
	logger.Info("repositories initialized")

	emailService := services.NewEmailService(cfg)
	verificationService := services.NewVerificationService(tokenRepo, userRepo, txManager, emailService, logger)
	consentService := services.NewConsentService(consentRepo, profileRepo, emailService, consentHub, logger)
	registrationService := services.NewRegistrationService(userRepo, profileRepo, txManager, verificationService, consentService, emailService, logger)
	authService := services.NewAuthService(userRepo)
	profileService := services.NewProfileService(userRepo, profileRepo, consentService, uploader)
	adminService := services.NewAdminService(consentRepo, userRepo)
	logger.Info("services initialized")

	// Expired unused tokens carry no state worth keeping; purge them
	// periodically.
	go func() {
		ticker := time.NewTicker(sweeperInterval)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := verificationService.DeleteExpired(context.Background())
			if err != nil {
				logger.Error("token sweeper run failed", slog.Any("error", err))
				continue
			}
			if deleted > 0 {
				logger.Info("expired verification tokens purged", slog.Int64("count", deleted))
			}
		}
	}()

	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	authHandler := handlers.NewAuthHandler(authService, verificationService, cfg.JWTSecretKey)
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	consentHandler := handlers.NewConsentHandler(consentService)
	profileHandler := handlers.NewProfileHandler(profileService)
	adminHandler := handlers.NewAdminHandler(adminService)
	webSocketHandler := handlers.NewWebSocketHandler(consentHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		registrationHandler,
		authHandler,
		verificationHandler,
		consentHandler,
		profileHandler,
		adminHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
