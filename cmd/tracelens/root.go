package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/tracelens/internal/config"
	"github.com/sanspareilsmyn/tracelens/internal/logging"
)

// app carries what every subcommand needs once PersistentPreRunE has run.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tracelens",
		Short:         "Aggregate receive traces into windowed throughput series",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync() // Flush buffered logs on exit
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to the configuration file (defaults and TRACELENS_* env when empty)")

	root.AddCommand(
		newProcessCmd(a),
		newPlotCmd(a),
		newRunCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration from %q: %v\n", a.configFile, err)
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return err
	}

	a.cfg = cfg
	a.logger = logger
	logger.Sugar().Infow("Configuration loaded",
		"path", a.configFile,
		"mode", cfg.Aggregator.Mode,
		"level", cfg.Log.Level,
	)
	return nil
}

// serveMetrics exposes /metrics until ctx is done. It is a no-op when addr is empty.
func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
