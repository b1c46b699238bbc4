package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/tracelens/internal/config"
)

// Pipeline reads samples from a Source, aggregates them into windows and
// writes one record per closed window to the configured output file.
// All stages run sequentially on the caller's goroutine.
type Pipeline struct {
	cfg    *config.Config
	source Source
	logger *zap.Logger
}

// New creates a pipeline whose source is selected by cfg.Input.Source.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	initLogger := logger.Named("pipeline.init")

	var (
		src Source
		err error
	)
	switch cfg.Input.Source {
	case config.SourceKafka:
		src, err = NewKafkaSource(cfg.Kafka, logger.Named("consumer"))
	default:
		src, err = NewFileSource(cfg.Input.Path)
	}
	if err != nil {
		initLogger.Error("Failed to create source",
			zap.String("source", cfg.Input.Source),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrSourceCreationFailed, err)
	}

	initLogger.Debug("Source created", zap.String("source", cfg.Input.Source))
	return NewWithSource(cfg, src, logger), nil
}

// NewWithSource creates a pipeline reading from src. The pipeline owns src
// and closes it when Run returns.
func NewWithSource(cfg *config.Config, src Source, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		source: src,
		logger: logger.Named("pipeline"),
	}
}

// Run processes the source until it is exhausted, fails, or ctx is done.
// On cancellation the records written so far are flushed and ctx's error is
// returned with the summary.
func (p *Pipeline) Run(ctx context.Context) (sum Summary, err error) {
	sugar := p.logger.Sugar()
	defer func() {
		if cerr := p.source.Close(); cerr != nil {
			sugar.Warnw("Failed to close source", zap.Error(cerr))
		}
	}()

	mode, err := p.cfg.Mode()
	if err != nil {
		return Summary{}, err
	}

	out, err := os.Create(p.cfg.Output.Path)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrSinkOpenFailed, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrSinkWriteFailed, cerr)
		}
	}()

	calc := NewCalculator(mode, out, p.logger.Named("calculator"))
	alerter := NewAlerter(mode, p.cfg.Alerts, p.logger.Named("alerter"))

	sugar.Infow("Pipeline run starting",
		"mode", mode.String(),
		"source", p.cfg.Input.Source,
		"output", p.cfg.Output.Path,
	)

	runErr := p.consume(ctx, calc, alerter)

	sum, err = calc.Finish()
	if err != nil {
		return sum, err
	}
	if runErr != nil {
		return sum, runErr
	}

	sugar.Infow("Pipeline run finished",
		"samples", sum.Samples,
		"windows", sum.Windows,
		"dropped_trailing_samples", sum.Dropped,
	)
	return sum, nil
}

func (p *Pipeline) consume(ctx context.Context, calc *Calculator, alerter *Alerter) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s, err := p.source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			p.logger.Info("Pipeline cancelled, flushing closed windows")
			return err
		case err != nil:
			p.logger.Error("Source read failed", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrSourceReadFailed, err)
		}

		rec, closed, err := calc.Process(s)
		if err != nil {
			return err
		}
		if closed {
			alerter.Observe(rec)
		}
	}
}
