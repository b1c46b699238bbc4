// Command producer replays a receive trace into Kafka as JSON samples, for
// feeding tracelens runs configured with input.source=kafka.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/tracelens/internal/config"
	"github.com/sanspareilsmyn/tracelens/internal/logging"
	"github.com/sanspareilsmyn/tracelens/internal/message"
	"github.com/sanspareilsmyn/tracelens/internal/trace"
)

const batchSize = 100

var (
	configFile = pflag.String("config", "", "Path to the configuration file")
	tracePath  = pflag.String("trace", "", "Trace file to replay (defaults to input.path)")
	paced      = pflag.Bool("paced", false, "Sleep between samples according to their timestamps")
)

func main() {
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()

	if len(cfg.Kafka.Brokers) == 0 {
		sugar.Fatal("kafka.brokers must be set to replay a trace")
	}
	path := cfg.Input.Path
	if *tracePath != "" {
		path = *tracePath
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		sugar.Info("Shutdown signal received, stopping producer...")
		cancel()
	}()

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			sugar.Errorw("Error closing kafka writer", zap.Error(err))
		}
	}()

	sugar.Infow("Replaying trace", "trace", path, "topic", cfg.Kafka.Topic, "paced", *paced)
	n, err := replay(ctx, path, writer, *paced)
	switch {
	case err == nil:
		sugar.Infow("Replay finished", "samples", n)
	case errors.Is(err, context.Canceled):
		sugar.Infow("Replay cancelled", "samples", n)
	default:
		sugar.Errorw("Replay failed", "samples", n, zap.Error(err))
		os.Exit(1)
	}
}

func replay(ctx context.Context, path string, w *kafka.Writer, paced bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var (
		r     = trace.NewReader(f)
		batch = make([]kafka.Message, 0, batchSize)
		sent  int
		last  float64
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.WriteMessages(ctx, batch...); err != nil {
			return err
		}
		sent += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		s, err := r.Next()
		if errors.Is(err, io.EOF) {
			return sent, flush()
		}
		if err != nil {
			return sent, err
		}

		if paced && s.Time > last {
			if err := flush(); err != nil {
				return sent, err
			}
			select {
			case <-time.After(time.Duration((s.Time - last) * float64(time.Second))):
			case <-ctx.Done():
				return sent, ctx.Err()
			}
		}
		last = s.Time

		data, err := message.EncodeSampleJSON(s)
		if err != nil {
			return sent, err
		}
		batch = append(batch, kafka.Message{Value: data})
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return sent, err
			}
		}
	}
}
