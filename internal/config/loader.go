package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// ErrNoSource is returned, after the usage text is printed, when captest is
// started without any arguments.
var ErrNoSource = errors.New("a catalog source is required (-s/--source)")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and configuration files to produce a
// Config. Precedence is defaults, then the config file, then flags.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 {
		displayHelp(cmd)
		return nil, ErrNoSource
	}
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	cfg := Default()
	cfg.ConfigFile = configPath

	if err := applyConfigSettings(&cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(&cfg, flagSet); err != nil {
		return nil, err
	}

	if extra := flagSet.Args(); len(extra) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(extra, " "))
	}

	return &cfg, nil
}

var configBindings = []binding[Config]{
	{[]string{"source"}, func(c *Config, raw any) (err error) { c.Source, err = trimmedString(raw); return }},
	{[]string{"base_url", "baseurl", "base-url"}, func(c *Config, raw any) (err error) { c.BaseURL, err = trimmedString(raw); return }},
	{[]string{"concurrency"}, func(c *Config, raw any) (err error) { c.Concurrency, err = cast.ToIntE(raw); return }},
	{[]string{"duration", "time_out", "time-out"}, func(c *Config, raw any) (err error) { c.Duration, err = asDuration(raw); return }},
	{[]string{"verbosity"}, func(c *Config, raw any) (err error) { c.Verbosity, err = cast.ToIntE(raw); return }},
	{[]string{"queue_slack", "queueslack", "queue-slack"}, func(c *Config, raw any) (err error) { c.QueueSlack, err = cast.ToIntE(raw); return }},
	{[]string{"timeout"}, func(c *Config, raw any) (err error) { c.Timeout, err = asDuration(raw); return }},
	{[]string{"delay"}, func(c *Config, raw any) (err error) { c.Delay, err = asDuration(raw); return }},
	{[]string{"rate"}, func(c *Config, raw any) (err error) { c.Rate, err = cast.ToIntE(raw); return }},
	{[]string{"seed"}, func(c *Config, raw any) (err error) { c.Seed, err = cast.ToInt64E(raw); return }},
	{[]string{"json_output", "jsonoutput", "json-output"}, func(c *Config, raw any) (err error) { c.JSONOutput, err = cast.ToBoolE(raw); return }},
	{[]string{"progress"}, func(c *Config, raw any) (err error) { c.Progress, err = cast.ToBoolE(raw); return }},
	{[]string{"log_file", "logfile", "log-file"}, func(c *Config, raw any) (err error) { c.LogFile, err = trimmedString(raw); return }},
	{[]string{"syslog"}, func(c *Config, raw any) (err error) { c.Syslog, err = cast.ToBoolE(raw); return }},
	{[]string{"history_file", "historyfile", "history-file"}, func(c *Config, raw any) (err error) { c.HistoryFile, err = trimmedString(raw); return }},
	{[]string{"thresholds"}, func(c *Config, raw any) (err error) { c.Thresholds, err = asStringSlice(raw); return }},
	{[]string{"tracing"}, func(c *Config, raw any) (err error) { c.Tracing, err = parseTracing(raw); return }},
}

var tracingBindings = []binding[TracingConfig]{
	{[]string{"endpoint"}, func(t *TracingConfig, raw any) (err error) { t.Endpoint, err = trimmedString(raw); return }},
	{[]string{"protocol"}, func(t *TracingConfig, raw any) error {
		p, err := trimmedString(raw)
		t.Protocol = strings.ToLower(p)
		return err
	}},
	{[]string{"insecure"}, func(t *TracingConfig, raw any) (err error) { t.Insecure, err = cast.ToBoolE(raw); return }},
	{[]string{"sample_rate", "samplerate", "sample-rate"}, func(t *TracingConfig, raw any) (err error) { t.SampleRate, err = cast.ToFloat64E(raw); return }},
	{[]string{"service_name", "servicename", "service-name"}, func(t *TracingConfig, raw any) (err error) { t.ServiceName, err = trimmedString(raw); return }},
	{[]string{"propagate"}, func(t *TracingConfig, raw any) error {
		v, err := cast.ToBoolE(raw)
		t.Propagate = &v
		return err
	}},
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]any) error {
	return applyBindings(cfg, settings, configBindings)
}

func parseTracing(value any) (TracingConfig, error) {
	var t TracingConfig
	if value == nil {
		return t, nil
	}
	settings, err := cast.ToStringMapE(value)
	if err != nil {
		return t, err
	}
	err = applyBindings(&t, settings, tracingBindings)
	return t, err
}
