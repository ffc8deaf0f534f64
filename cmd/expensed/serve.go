package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"expensed/internal/config"
	"expensed/internal/server"
	"expensed/internal/store"
)

// serveCmd starts the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the expense-tracker HTTP server",
	Long: `Starts the HTTP server on 0.0.0.0:$PORT.

Configuration comes from the optional YAML config file with environment
overrides: PORT (listen port), EXPENSED_DB (SQLite path), JWT_SECRET_KEY
(token signing secret). SIGINT/SIGTERM trigger graceful shutdown.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Storage.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, st, logger)
	if err := srv.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped", zap.String("db", cfg.Storage.DatabasePath))
	return nil
}
