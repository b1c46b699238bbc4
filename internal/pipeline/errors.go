package pipeline

import "errors"

var (
	ErrInvalidKafkaConfig   = errors.New("invalid Kafka configuration provided")
	ErrKafkaFetchFailed     = errors.New("failed to fetch message from Kafka")
	ErrKafkaCommitFailed    = errors.New("failed to commit Kafka message")
	ErrInvalidMessage       = errors.New("invalid trace message")
	ErrSourceCreationFailed = errors.New("failed to create sample source")
	ErrSourceReadFailed     = errors.New("failed to read sample")
	ErrSinkOpenFailed       = errors.New("failed to open output")
	ErrSinkWriteFailed      = errors.New("failed to write window record")
)
