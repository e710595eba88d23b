package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/authvault/internal/auth"
	"github.com/iudanet/authvault/internal/config"
	"github.com/iudanet/authvault/internal/mail"
	"github.com/iudanet/authvault/internal/server/handlers"
	"github.com/iudanet/authvault/internal/server/jwt"
	"github.com/iudanet/authvault/internal/server/middleware"
	"github.com/iudanet/authvault/internal/server/storage/sqlite"
	"github.com/iudanet/authvault/internal/twofactor"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Failed to close storage", "error", cerr)
		}
	}()

	logger.Info("Storage initialized", "path", cfg.DatabasePath)

	jwtService := jwt.NewService(jwt.Config{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.Domain,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})

	verifier := twofactor.NewService(logger, store, twofactor.Config{
		Domain:  cfg.Domain,
		DuoHost: cfg.DuoHost,
		DuoIKey: cfg.DuoIKey,
		DuoSKey: cfg.DuoSKey,
	})

	var mailer mail.Mailer = mail.NoopMailer{}
	if cfg.MailEnabled {
		mailer = mail.NewSMTPMailer(logger, cfg.SMTPAddr, cfg.SMTPFrom)
	}

	authService := auth.NewService(
		logger, store, store, store,
		jwtService, verifier, mailer,
		auth.Options{
			DomainSet:                cfg.DomainSet(),
			DisableTwoFactorRemember: cfg.DisableTwoFactorRemember,
			MailEnabled:              cfg.MailEnabled,
			RequireDeviceEmail:       cfg.RequireDeviceEmail,
		},
	)

	identityHandler := handlers.NewIdentityHandler(logger, authService)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	rateLimit := middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateLimitWindow, logger)

	mux := http.NewServeMux()
	mux.Handle("POST /identity/connect/token", rateLimit(http.HandlerFunc(identityHandler.ConnectToken)))
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	handler := middleware.RecoveryMiddleware(logger)(
		middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(mux),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", server.Addr, "version", Version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	case <-stop:
	}

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func printVersion() {
	fmt.Printf("AuthVault Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
