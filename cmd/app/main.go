package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ryoha000/traQ-bookmaker/internal/bet"
	"github.com/ryoha000/traQ-bookmaker/internal/command"
	"github.com/ryoha000/traQ-bookmaker/internal/config"
	"github.com/ryoha000/traQ-bookmaker/internal/db"
	"github.com/ryoha000/traQ-bookmaker/internal/logger"
	"github.com/ryoha000/traQ-bookmaker/internal/notify"
	"github.com/ryoha000/traQ-bookmaker/internal/participant"
	"github.com/ryoha000/traQ-bookmaker/internal/server"
	"github.com/ryoha000/traQ-bookmaker/internal/settlement"
	"github.com/ryoha000/traQ-bookmaker/internal/traq"
	"github.com/ryoha000/traQ-bookmaker/internal/wager"
)

func main() {
	logger.Init()
	logger.Info("Starting traQ-bookmaker")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	traqClient := traq.NewClient(cfg.TraqBaseURL, cfg.TraqAccessToken)

	notifyService := notify.New(cfg.RedisAddr, traqClient)
	defer notifyService.Close()
	logger.Info("Notification service initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notifyService.Start(ctx)

	participantService := participant.NewService(participant.NewRepository(database))
	betService := bet.NewService(bet.NewRepository(database))
	engine := settlement.NewEngine(database)
	wagerService := wager.NewService(wager.NewRepository(database), betService, engine)

	router := command.NewRouter(
		cfg.BotUserID,
		participantService,
		wagerService,
		betService,
		notifyService,
		traqClient,
	)

	srv := server.New(cfg, router)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
