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

	"github.com/bookshelf-api/cmd/api/book"
	bookhttp "github.com/bookshelf-api/cmd/api/http"
	"github.com/bookshelf-api/cmd/api/inmemory"
	"github.com/bookshelf-api/cmd/api/notifications"
)

func main() {
	err := run()
	if err != nil {
		slog.Error("running bookshelf api", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	store, err := inmemory.NewInMemoryStore()
	if err != nil {
		return fmt.Errorf("creating book store: %w", err)
	}

	var notifier book.Notifier
	if cfg.NotificationsEnabled {
		notifier = notifications.NewNtfy(cfg.NotificationsBaseURL, &http.Client{Timeout: cfg.NotificationsTimeout})
	}

	bookService := book.NewService(store, notifier, cfg.NotificationsTimeout, logger)
	bookHandler := bookhttp.NewBookHandler(bookService, logger)

	server := bookhttp.NewServer(bookhttp.ServerConfig{
		Port:           cfg.Port,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, bookHandler, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("unexpected http server error: %w", err)
		}
		close(serverErr)
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-sc:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, shutdownRelease := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownRelease()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	logger.Info("graceful shutdown complete")
	return nil
}
