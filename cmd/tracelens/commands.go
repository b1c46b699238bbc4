package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sanspareilsmyn/tracelens/internal/config"
	"github.com/sanspareilsmyn/tracelens/internal/pipeline"
	"github.com/sanspareilsmyn/tracelens/internal/plot"
)

func newProcessCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Aggregate the input trace into the windowed output file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.process(cmd.Context())
		},
	}
}

func newPlotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plot",
		Short: "Render a windowed output file as a line chart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.plot(a.cfg.Plot.Input)
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the trace, then plot the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// A failed or interrupted file run leaves partial output; do not plot it.
			if err := a.process(cmd.Context()); err != nil {
				return err
			}
			return a.plot(a.cfg.Output.Path)
		},
	}
}

func (a *app) process(parent context.Context) error {
	sugar := a.logger.Sugar()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	serveMetrics(ctx, a.cfg.Metrics.ListenAddr, a.logger.Named("metrics"))

	pipe, err := pipeline.New(a.cfg, a.logger)
	if err != nil {
		sugar.Errorw("Failed to initialize pipeline", zap.Error(err))
		return err
	}

	sum, runErr := pipe.Run(ctx)
	reason, runErr := outcome(runErr, a.cfg.Input.Source)

	finalLogLevel := zapcore.InfoLevel
	errField := zap.Skip()
	if runErr != nil {
		finalLogLevel = zapcore.ErrorLevel
		errField = zap.Error(runErr)
	}

	a.logger.Log(finalLogLevel, fmt.Sprintf("Processing %s.", reason),
		zap.String("mode", sum.Mode.String()),
		zap.Int64("samples", sum.Samples),
		zap.Int("windows", sum.Windows),
		zap.Int("dropped_trailing_samples", sum.Dropped),
		zap.String("output", a.cfg.Output.Path),
		errField,
	)
	return runErr
}

// outcome classifies a pipeline result. A Kafka source only ends by
// cancellation, so that is success; a cancelled file run left a truncated
// output and stays an error.
func outcome(runErr error, source string) (string, error) {
	switch {
	case runErr == nil:
		return "completed", nil
	case errors.Is(runErr, context.Canceled) && source == config.SourceKafka:
		return "stopped", nil
	case errors.Is(runErr, context.Canceled):
		return "cancelled", runErr
	default:
		return "failed", runErr
	}
}

func (a *app) plot(input string) error {
	sugar := a.logger.Sugar()

	f, err := os.Open(input)
	if err != nil {
		sugar.Errorw("Failed to open series", "path", input, zap.Error(err))
		return err
	}
	defer f.Close()

	points, err := plot.ReadSeries(f)
	if err != nil {
		sugar.Errorw("Failed to read series", "path", input, zap.Error(err))
		return err
	}

	opts := plot.Options{
		XLabel: a.cfg.Plot.XLabel,
		YLabel: a.cfg.Plot.YLabel,
		Width:  a.cfg.Plot.Width,
		Height: a.cfg.Plot.Height,
	}
	if err := plot.Render(points, opts, a.cfg.Plot.Output); err != nil {
		sugar.Errorw("Failed to render plot", "output", a.cfg.Plot.Output, zap.Error(err))
		return err
	}

	sugar.Infow("Plot saved", "input", input, "output", a.cfg.Plot.Output, "points", len(points))
	return nil
}
