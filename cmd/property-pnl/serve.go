package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/property-pnl/internal/server"
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var serverConfigPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the valuation JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, serverConfigPath)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, serverConfigPath string) error {
	const op = "main.runServe"

	conf, err := root.loadConfiguration(cmd)
	if err != nil {
		return err
	}
	serverConf, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		return err
	}

	// Server logging settings win over the calculator's
	loggingConf := conf.Logging
	if serverConf.Logging.Level != "" || serverConf.Logging.Format != "" || serverConf.Logging.OutputFile != "" {
		loggingConf = serverConf.Logging
	}
	logger, err := initializeLogger(loggingConf, root.logLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	resolver, closeResolver := conf.FX.NewResolver(logger, false)
	defer func() {
		if err := closeResolver(); err != nil {
			logger.Warn("failed to close rate cache",
				zap.String("op", op),
				zap.Error(err),
			)
		}
	}()

	var handler http.Handler = server.NewHandler(logger, resolver, serverConf.RequestSizeBytes(), version)
	if serverConf.RateLimit.Requests > 0 {
		limiter := server.NewRateLimiter(serverConf.RateLimit.Requests, serverConf.RateLimitWindow())
		defer limiter.Stop()
		handler = server.RateLimitMiddleware(limiter, handler)
	}

	httpServer := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", op),
			zap.String("address", serverConf.Address),
			zap.Int64("maxRequestSize", serverConf.RequestSizeBytes()),
			zap.Int("rateLimitRequests", serverConf.RateLimit.Requests),
			zap.Duration("rateLimitWindow", serverConf.RateLimitWindow()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down server",
			zap.String("op", op),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown",
			zap.String("op", op),
			zap.Error(err),
		)
		return err
	}

	logger.Info("server exited",
		zap.String("op", op),
	)
	return nil
}
