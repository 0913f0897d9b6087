package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"booklog/internal/books"
	"booklog/internal/bot"
	"booklog/internal/config"
	"booklog/internal/server"
	"booklog/internal/storage"
	"booklog/internal/storage/ch"
	"booklog/internal/storage/gormstore"
	"booklog/internal/storage/stubs"
)

// App represents the application
type App struct {
	config   *config.Config
	logger   *zap.Logger
	store    storage.BookStore
	activity storage.ActivityLog
	bot      *bot.Bot
	server   *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting booklog")

	if err := app.initStorage(); err != nil {
		return nil, err
	}
	if err := app.initBot(); err != nil {
		return nil, err
	}
	app.initServer()

	return app, nil
}

// initStorage connects the book store and the activity log
func (a *App) initStorage() error {
	ctx := context.Background()

	if a.config.UseMockDB {
		a.logger.Info("Using mock database")
		mock := stubs.NewMockDB()
		a.store = mock
		a.activity = mock
		return nil
	}

	a.logger.Info("Connecting to Postgres",
		zap.String("host", a.config.DBHost),
		zap.String("database", a.config.DBName),
	)
	store, err := gormstore.New(a.config.PostgresDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err := store.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize book store: %w", err)
	}
	a.store = store

	a.logger.Info("Connecting to ClickHouse",
		zap.String("host", a.config.ClickHouseHost),
		zap.Int("port", a.config.ClickHousePort),
		zap.String("database", a.config.ClickHouseDatabase),
		zap.Bool("tls", a.config.ClickHouseUseTLS),
	)
	activity, err := ch.NewClickHouseLog(
		a.config.ClickHouseHost,
		a.config.ClickHousePort,
		a.config.ClickHouseDatabase,
		a.config.ClickHouseUser,
		a.config.ClickHousePassword,
		a.config.ClickHouseUseTLS,
	)
	if err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	if err := activity.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize activity log: %w", err)
	}
	a.activity = activity

	a.logger.Info("Storage initialized successfully")
	return nil
}

// initBot initializes the optional Telegram quick-log bot
func (a *App) initBot() error {
	if a.config.TelegramToken == "" {
		return nil
	}

	quickLog, err := bot.NewBot(a.config.TelegramToken, a.store, a.activity, a.config.TelegramUsers, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.bot = quickLog
	return nil
}

// initServer builds the HTTP server around the gin router
func (a *App) initServer() {
	auth := server.NewAuthenticator(server.AuthConfig{
		ClientID:     a.config.OAuthClientID,
		ClientSecret: a.config.OAuthClientSecret,
		AuthURL:      a.config.OAuthAuthURL,
		TokenURL:     a.config.OAuthTokenURL,
		UserInfoURL:  a.config.OAuthUserInfoURL,
		RedirectURL:  a.config.OAuthRedirectURL,
	}, a.logger)

	srv := server.New(a.store, a.activity, books.NewClient("", nil), auth, a.logger)

	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	if a.bot != nil {
		go func() {
			if err := a.bot.Start(ctx); err != nil {
				a.logger.Error("Bot stopped with error", zap.Error(err))
			}
		}()
	}

	<-sigChan

	a.logger.Info("Shutting down...")
	cancel()
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.activity.Close(); err != nil {
		a.logger.Error("Error closing activity log", zap.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("Error closing book store", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	return nil
}
