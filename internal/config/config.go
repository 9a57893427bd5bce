package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/torosent/captest/internal/threshold"
)

// Defaults applied before the config file and flags.
const (
	DefaultConcurrency = 2
	DefaultDuration    = 60 * time.Second
	DefaultVerbosity   = 3
	DefaultQueueSlack  = 2
	DefaultTimeout     = 30 * time.Second
	DefaultDelay       = 10 * time.Millisecond
)

type Config struct {
	Source      string        `mapstructure:"source"`
	BaseURL     string        `mapstructure:"base_url"`
	Concurrency int           `mapstructure:"concurrency"`
	Duration    time.Duration `mapstructure:"duration"`
	Verbosity   int           `mapstructure:"verbosity"`
	QueueSlack  int           `mapstructure:"queue_slack"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Delay       time.Duration `mapstructure:"delay"`
	Rate        int           `mapstructure:"rate"`
	Seed        int64         `mapstructure:"seed"`
	JSONOutput  bool          `mapstructure:"json_output"`
	Progress    bool          `mapstructure:"progress"`
	LogFile     string        `mapstructure:"log_file"`
	Syslog      bool          `mapstructure:"syslog"`
	HistoryFile string        `mapstructure:"history_file"`
	Thresholds  []string      `mapstructure:"thresholds"`
	Tracing     TracingConfig `mapstructure:"tracing"`
	ConfigFile  string        `mapstructure:"-"`
}

// TracingConfig configures OTLP export of run and fetch spans.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" (default) or "http"
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
	Propagate   *bool   `mapstructure:"propagate"` // nil follows Enabled
}

// Enabled reports whether an exporter endpoint was configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ShouldPropagate reports whether traceparent headers are sent.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate != nil {
		return *t.Propagate
	}
	return t.Enabled()
}

// Default returns a Config holding the built-in defaults.
func Default() Config {
	return Config{
		Concurrency: DefaultConcurrency,
		Duration:    DefaultDuration,
		Verbosity:   DefaultVerbosity,
		QueueSlack:  DefaultQueueSlack,
		Timeout:     DefaultTimeout,
		Delay:       DefaultDelay,
	}
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.Source) == "" {
		issues = append(issues, "source is required (use --help for usage information)")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Duration <= 0 {
		issues = append(issues, "time-out must be > 0")
	}
	if c.Verbosity < 0 || c.Verbosity > 4 {
		issues = append(issues, "verbosity must be between 0 and 4")
	}
	if c.QueueSlack < 1 {
		issues = append(issues, "queue-slack must be >= 1")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if c.Delay < 0 {
		issues = append(issues, "delay must be >= 0")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if c.Syslog && strings.TrimSpace(c.LogFile) != "" {
		issues = append(issues, "syslog and log-file are mutually exclusive")
	}
	if _, err := threshold.ParseMultiple(c.Thresholds); err != nil {
		issues = append(issues, err.Error())
	}
	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

// Warnings lists settings that are valid but worth flagging to the operator.
func (c Config) Warnings() []string {
	var warnings []string
	if c.Concurrency > 500 {
		warnings = append(warnings, fmt.Sprintf("High concurrency configured (%d workers). Ensure you have authorization to test the target system.", c.Concurrency))
	}
	if c.Rate > 1000 {
		warnings = append(warnings, fmt.Sprintf("High rate limit configured (%d RPS). Ensure you have authorization to test the target system.", c.Rate))
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		warnings = append(warnings, "No base URL configured; catalog targets must be absolute URLs.")
	}
	return warnings
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(strings.TrimSpace(t.Protocol)) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol %q must be grpc or http", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, "tracing sample rate must be between 0.0 and 1.0")
	}
	return issues
}
