package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtlprog/teamtasks/internal/config"
	"github.com/mtlprog/teamtasks/internal/database"
	"github.com/mtlprog/teamtasks/internal/handler"
	"github.com/urfave/cli/v2"
)

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, c.String("database-url"), env)
	if err != nil {
		return err
	}
	defer db.Close()

	h := handler.New(db.Pool())

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           h.Routes(env.CORSAllowedOrigins),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, env.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openDatabase connects with the pool limits from env and applies migrations.
func openDatabase(ctx context.Context, databaseURL string, env *config.Env) (*database.DB, error) {
	db, err := database.New(ctx, databaseURL, database.Options{
		MaxConns: env.DBMaxConns,
		MinConns: env.DBMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
