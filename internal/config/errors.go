package config

import "errors"

var (
	ErrReadingConfigFile      = errors.New("failed to read config file")
	ErrUnmarshallingConfig    = errors.New("failed to unmarshal config")
	ErrConfigFileMissing      = errors.New("config file not found")
	ErrUnknownInputSource     = errors.New("input source must be \"file\" or \"kafka\"")
	ErrEmptyInputPath         = errors.New("input path cannot be empty for file source")
	ErrEmptyOutputPath        = errors.New("output path cannot be empty")
	ErrInvalidAggregatorMode  = errors.New("invalid aggregator mode")
	ErrEmptyKafkaBrokers      = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic        = errors.New("kafka topic cannot be empty")
	ErrEmptyKafkaGroupID      = errors.New("kafka groupID cannot be empty")
	ErrInvalidPlotSize        = errors.New("plot width and height must be positive")
	ErrInvalidAlertThresholds = errors.New("alerts minThroughput must not exceed maxThroughput")
)
