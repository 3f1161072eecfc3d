package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/mortgage-buddy/internal/server"
	"github.com/iwvelando/mortgage-buddy/internal/session"
	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	serverConfigPath string
	address          string
	maxUploadSize    string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&opts.address, "address", "", "listen address override")
	cmd.Flags().StringVar(&opts.maxUploadSize, "max-upload-size", "", "maximum request size override, e.g. 512K")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	cfg, err := server.LoadConfig(opts.serverConfigPath)
	if err != nil {
		return err
	}
	if opts.address != "" {
		cfg.Address = opts.address
	}
	if opts.maxUploadSize != "" {
		size, err := server.ParseSize(opts.maxUploadSize)
		if err != nil {
			return err
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := initializeLogger(cfg.Logging, root.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store := cfg.NewSessionStore()
	if redisStore, ok := store.(*session.RedisStore); ok {
		defer func() {
			_ = redisStore.Close()
		}()
		if err := redisStore.Ping(ctx); err != nil {
			logger.Warn("session store is unreachable, requests with a session id will start fresh",
				zap.String("op", "main.runServe"),
				zap.String("redisAddress", cfg.Session.RedisAddress),
				zap.Error(err),
			)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      server.NewHandler(logger, cfg.UploadSizeBytes(), version, store),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("serving mortgage-buddy API",
			zap.String("op", "main.runServe"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("op", "main.runServe"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	return nil
}
