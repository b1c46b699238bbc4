package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/sanspareilsmyn/tracelens/internal/window"
)

const (
	SourceFile  = "file"
	SourceKafka = "kafka"

	defaultInputSource    = SourceFile
	defaultInputPath      = "../traces/test/mmWave-tcp-data0.txt"
	defaultOutputPath     = "../traces/test/processedwindow.txt"
	defaultAggregatorMode = "sum"
	defaultPlotInput      = "processedwindow.txt"
	defaultPlotOutput     = "data.png"
	defaultPlotYLabel     = "MB/s"
	defaultPlotXLabel     = "time (s)"
	defaultPlotWidthIn    = 6.0
	defaultPlotHeightIn   = 4.0
	defaultKafkaTopic     = "rx-trace"
	defaultKafkaGroupID   = "tracelens-default-group"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogFileEnabled = false
	defaultLogDirectory   = "log"
	defaultLogFilename    = "tracelens.log"
	defaultLogMaxSizeMB   = 100
	defaultLogMaxBackups  = 3
	defaultLogMaxAgeDays  = 7
	defaultLogCompress    = false

	// Environment variable prefix
	envPrefix = "TRACELENS"
)

type Config struct {
	Input      InputConfig      `mapstructure:"input"`
	Output     OutputConfig     `mapstructure:"output"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Plot       PlotConfig       `mapstructure:"plot"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Alerts     AlertConfig      `mapstructure:"alerts"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

type InputConfig struct {
	Source string `mapstructure:"source"` // "file" or "kafka"
	Path   string `mapstructure:"path"`
}

type OutputConfig struct {
	Path string `mapstructure:"path"`
}

type AggregatorConfig struct {
	Mode string `mapstructure:"mode"` // "sum" or "rate"
}

type PlotConfig struct {
	Input  string  `mapstructure:"input"`
	Output string  `mapstructure:"output"`
	YLabel string  `mapstructure:"yLabel"`
	XLabel string  `mapstructure:"xLabel"`
	Width  float64 `mapstructure:"width"`  // inches
	Height float64 `mapstructure:"height"` // inches
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupID"`
}

// AlertConfig bounds are in MB/s; nil disables the check.
type AlertConfig struct {
	MinThroughput *float64 `mapstructure:"minThroughput"`
	MaxThroughput *float64 `mapstructure:"maxThroughput"`
}

type MetricsConfig struct {
	ListenAddr string `mapstructure:"listenAddr"` // empty disables the /metrics endpoint
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Mode parses the configured aggregation mode.
func (c *Config) Mode() (window.Mode, error) {
	return window.ParseMode(c.Aggregator.Mode)
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
// An empty configPath runs on defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	setDefaults(v)

	if configPath != "" {
		if err := readConfigFile(v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Alert bounds have no default (nil disables the check), so they are
	// bound explicitly for AutomaticEnv to see them.
	_ = v.BindEnv("alerts.minThroughput", envPrefix+"_ALERTS_MINTHROUGHPUT")
	_ = v.BindEnv("alerts.maxThroughput", envPrefix+"_ALERTS_MAXTHROUGHPUT")
}

// setDefaults applies default configuration values using Viper.
// Registering a key here is also what lets AutomaticEnv override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.source", defaultInputSource)
	v.SetDefault("input.path", defaultInputPath)
	v.SetDefault("output.path", defaultOutputPath)
	v.SetDefault("aggregator.mode", defaultAggregatorMode)
	v.SetDefault("plot.input", defaultPlotInput)
	v.SetDefault("plot.output", defaultPlotOutput)
	v.SetDefault("plot.yLabel", defaultPlotYLabel)
	v.SetDefault("plot.xLabel", defaultPlotXLabel)
	v.SetDefault("plot.width", defaultPlotWidthIn)
	v.SetDefault("plot.height", defaultPlotHeightIn)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", defaultKafkaTopic)
	v.SetDefault("kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("metrics.listenAddr", "")
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) || errors.Is(err, fs.ErrNotExist) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	switch cfg.Input.Source {
	case SourceFile:
		if cfg.Input.Path == "" {
			return ErrEmptyInputPath
		}
	case SourceKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return ErrEmptyKafkaBrokers
		}
		if cfg.Kafka.Topic == "" {
			return ErrEmptyKafkaTopic
		}
		if cfg.Kafka.GroupID == "" {
			return ErrEmptyKafkaGroupID
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInputSource, cfg.Input.Source)
	}

	if cfg.Output.Path == "" {
		return ErrEmptyOutputPath
	}
	if _, err := cfg.Mode(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAggregatorMode, err)
	}
	if cfg.Plot.Width <= 0 || cfg.Plot.Height <= 0 {
		return ErrInvalidPlotSize
	}
	if lo, hi := cfg.Alerts.MinThroughput, cfg.Alerts.MaxThroughput; lo != nil && hi != nil && *lo > *hi {
		return ErrInvalidAlertThresholds
	}
	return nil
}
