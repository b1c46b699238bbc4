package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/tracelens/internal/config"
	"github.com/sanspareilsmyn/tracelens/internal/message"
	"github.com/sanspareilsmyn/tracelens/internal/trace"
)

type kafkaZapLogger struct {
	log *zap.Logger
}

func (l kafkaZapLogger) Printf(msg string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(msg, args...))
}

type kafkaZapErrorLogger struct {
	log *zap.Logger
}

func (l kafkaZapErrorLogger) Printf(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// messageReader is the subset of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSource reads JSON trace samples from a Kafka topic. It never reaches
// io.EOF; it runs until its context is cancelled.
type KafkaSource struct {
	reader messageReader
	logger *zap.Logger
}

// NewKafkaSource creates a consumer-group reader for cfg.Topic.
func NewKafkaSource(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaSource, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		logger.Error("Kafka configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
			zap.String("group_id", cfg.GroupID),
		)
		return nil, ErrInvalidKafkaConfig
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		Logger:      kafkaZapLogger{logger.Named("kafka-reader").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger: kafkaZapErrorLogger{logger.Named("kafka-reader-error").WithOptions(zap.AddCallerSkip(1))},
	})

	logger.Info("Kafka consumer created",
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID),
		zap.Strings("brokers", cfg.Brokers),
	)
	return newKafkaSource(r, logger), nil
}

func newKafkaSource(r messageReader, logger *zap.Logger) *KafkaSource {
	return &KafkaSource{reader: r, logger: logger}
}

// Next blocks until the next message arrives, decodes it and commits its offset.
func (k *KafkaSource) Next(ctx context.Context) (trace.Sample, error) {
	m, err := k.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			k.logger.Debug("Context done, stopping consumer fetch.", zap.Error(err))
			return trace.Sample{}, err
		}
		return trace.Sample{}, fmt.Errorf("%w: %w", ErrKafkaFetchFailed, err)
	}

	s, err := message.ParseSampleJSON(m.Value)
	if err != nil {
		k.logger.Error("Undecodable trace message",
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		return trace.Sample{}, fmt.Errorf("%w at offset %d: %w", ErrInvalidMessage, m.Offset, err)
	}

	if err := k.reader.CommitMessages(ctx, m); err != nil {
		return trace.Sample{}, fmt.Errorf("%w: %w", ErrKafkaCommitFailed, err)
	}
	return s, nil
}

// Close closes the underlying reader.
func (k *KafkaSource) Close() error {
	k.logger.Info("Closing Kafka consumer reader...")
	return k.reader.Close()
}
