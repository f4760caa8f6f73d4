// Package config loads fsmx settings from the environment and optional
// dotenv files, and maps them onto engine options.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/comalice/fsmx/internal/core"
	"github.com/comalice/fsmx/internal/production"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when parsed values fail validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the FSM_* settings.
type Config struct {
	MachineID     string        `env:"FSM_MACHINE_ID"`
	History       bool          `env:"FSM_HISTORY" envDefault:"true"`
	Metrics       bool          `env:"FSM_METRICS" envDefault:"true"`
	LogLevel      string        `env:"FSM_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"FSM_LOG_FORMAT" envDefault:"console"`
	PublishBuffer int           `env:"FSM_PUBLISH_BUFFER" envDefault:"64"`
	ReportDir     string        `env:"FSM_REPORT_DIR"`
	ReportFormat  string        `env:"FSM_REPORT_FORMAT" envDefault:"yaml"`
	ListenAddr    string        `env:"FSM_LISTEN_ADDR" envDefault:":9090"`
	TickInterval  time.Duration `env:"FSM_TICK_INTERVAL" envDefault:"1s"`
}

// Load reads dotenv files and parses the environment. With no files, a .env
// in the working directory is loaded if present. Variables already set in the
// environment take precedence over file values.
func Load(files ...string) (Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
	} else {
		// The default .env file might not exist and that's ok.
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
	return cfg
}

// Validate checks enumerated and bounded fields.
func (c Config) Validate() error {
	var errs []error
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("FSM_LOG_LEVEL: %w", err))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("FSM_LOG_FORMAT: want console or json, got %q", c.LogFormat))
	}
	switch production.Format(c.ReportFormat) {
	case production.FormatJSON, production.FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("FSM_REPORT_FORMAT: want json or yaml, got %q", c.ReportFormat))
	}
	if c.PublishBuffer < 0 {
		errs = append(errs, fmt.Errorf("FSM_PUBLISH_BUFFER: must not be negative, got %d", c.PublishBuffer))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("FSM_TICK_INTERVAL: must be positive, got %s", c.TickInterval))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// EngineOptions maps the config onto engine options. The machine ID is only
// set when FSM_MACHINE_ID is.
func (c Config) EngineOptions(logger zerolog.Logger) []core.Option {
	opts := []core.Option{
		core.WithHistory(c.History),
		core.WithMetrics(c.Metrics),
		core.WithLogger(logger),
	}
	if c.MachineID != "" {
		opts = append(opts, core.WithID(c.MachineID))
	}
	return opts
}

// ReportWriter opens the configured report directory, or returns nil when
// FSM_REPORT_DIR is unset.
func (c Config) ReportWriter() (*production.ReportWriter, error) {
	if c.ReportDir == "" {
		return nil, nil
	}
	return production.NewReportWriter(c.ReportDir, production.Format(c.ReportFormat))
}
