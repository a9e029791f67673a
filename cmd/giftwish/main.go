package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/giftwish/giftwish/internal/api"
	"github.com/giftwish/giftwish/internal/config"
	"github.com/giftwish/giftwish/internal/handlers"
	"github.com/giftwish/giftwish/internal/repository/postgres"
	"github.com/giftwish/giftwish/internal/service"
	"github.com/giftwish/giftwish/internal/telegram"
	"github.com/giftwish/giftwish/pkg/logger"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting Giftwish...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.MigrationsPath); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	profileRepo := postgres.NewProfileRepository(db.DB)
	wishlistRepo := postgres.NewWishlistRepository(db.DB)
	sessionRepo := postgres.NewSessionRepository(db.DB)

	// Service layer
	svc := service.New(l, profileRepo, wishlistRepo, sessionRepo)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// HTTP API
	apiServer := api.NewServer(svc, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	// Telegram front end, only when a token is configured
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}

		bot.RegisterCommand("start", handlers.NewStartHandler(svc, l))
		bot.RegisterCommand("help", handlers.NewHelpHandler(l))

		// Wishlist commands
		bot.RegisterCommand("wish", handlers.NewWishAddHandler(svc, l))
		bot.RegisterCommand("wishlist", handlers.NewWishListHandler(svc, l))
		bot.RegisterCommand("unwish", handlers.NewWishDeleteHandler(svc, l))
		bot.RegisterCommand("claim", handlers.NewWishClaimHandler(svc, l))
		bot.RegisterCommand("unclaim", handlers.NewWishUnclaimHandler(svc, l))

		// Profile commands
		bot.RegisterCommand("me", handlers.NewMeHandler(svc, l))
		bot.RegisterCommand("birthday", handlers.NewBirthdayHandler(svc, l))
		bot.RegisterCommand("interest", handlers.NewInterestHandler(svc, l))
		bot.RegisterCommand("dislike", handlers.NewDislikeHandler(svc, l))
		bot.RegisterCommand("size", handlers.NewSizeHandler(svc, l))

		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	} else {
		l.Info("TELEGRAM_TOKEN not set, chat front end disabled")
	}

	l.Info("Giftwish started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	httpServer.Close()

	l.Info("Giftwish stopped")
}
