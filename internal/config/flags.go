package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "captest",
		Short:         "Replay a weighted URL catalog against a server and report throughput",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Catalog and target
	flags.StringP("source", "s", "", "Catalog of weighted targets (CSV 'target,weight', JSON or YAML)")
	flags.StringP("base-url", "B", "", "Base URL prepended to every catalog target")

	// Load control
	flags.IntP("concurrency", "c", DefaultConcurrency, "Number of concurrent fetch workers")
	flags.StringP("time-out", "t", DefaultDuration.String(), "How long to generate load (duration or seconds, e.g. 90s, 60)")
	flags.Int("queue-slack", DefaultQueueSlack, "Queue holds concurrency*queue-slack pending targets")
	flags.Duration("timeout", DefaultTimeout, "Per-request timeout")
	flags.Duration("delay", DefaultDelay, "Pause each worker takes between fetches")
	flags.Int("rate", 0, "Cap on targets enqueued per second (0 means unlimited)")
	flags.Int64("seed", 0, "Seed for target selection (0 means time based)")

	// Logging
	flags.IntP("verbosity", "v", DefaultVerbosity, "Log verbosity: 0 fatal, 1 error, 2 warning, 3 info, 4 debug")
	flags.String("log-file", "", "Append log lines to this file as well as stderr")
	flags.Bool("syslog", false, "Send log lines to the local syslog daemon")

	// Output
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.Bool("progress", false, "Show a live progress line on stderr")
	flags.String("history-file", "", "Append a JSON summary of the run to this file")
	flags.StringSlice("threshold", nil, "Pass/fail thresholds (repeatable, e.g., 'requests:rate > 100')")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing
	flags.String("tracing-endpoint", "", "OTLP collector endpoint (host:port); empty disables tracing")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of fetches to trace (0.0-1.0)")
	flags.Bool("tracing-propagate", true, "Send W3C traceparent headers to the target")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\n%s\n\nFlags:\n", cmd.UseLine(), cmd.Short)
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("source") {
		val, err := fs.GetString("source")
		if err != nil {
			return err
		}
		cfg.Source = strings.TrimSpace(val)
	}
	if fs.Changed("base-url") {
		val, err := fs.GetString("base-url")
		if err != nil {
			return err
		}
		cfg.BaseURL = strings.TrimSpace(val)
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("time-out") {
		val, err := fs.GetString("time-out")
		if err != nil {
			return err
		}
		dur, err := ParseDuration(val)
		if err != nil {
			return fmt.Errorf("time-out: %w", err)
		}
		cfg.Duration = dur
	}
	if fs.Changed("queue-slack") {
		val, err := fs.GetInt("queue-slack")
		if err != nil {
			return err
		}
		cfg.QueueSlack = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("delay") {
		val, err := fs.GetDuration("delay")
		if err != nil {
			return err
		}
		cfg.Delay = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("seed") {
		val, err := fs.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = val
	}
	if fs.Changed("verbosity") {
		val, err := fs.GetInt("verbosity")
		if err != nil {
			return err
		}
		cfg.Verbosity = val
	}
	if fs.Changed("log-file") {
		val, err := fs.GetString("log-file")
		if err != nil {
			return err
		}
		cfg.LogFile = strings.TrimSpace(val)
	}
	if fs.Changed("syslog") {
		val, err := fs.GetBool("syslog")
		if err != nil {
			return err
		}
		cfg.Syslog = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("progress") {
		val, err := fs.GetBool("progress")
		if err != nil {
			return err
		}
		cfg.Progress = val
	}
	if fs.Changed("history-file") {
		val, err := fs.GetString("history-file")
		if err != nil {
			return err
		}
		cfg.HistoryFile = strings.TrimSpace(val)
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}

	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("tracing-propagate") {
		val, err := fs.GetBool("tracing-propagate")
		if err != nil {
			return err
		}
		cfg.Tracing.Propagate = &val
	}

	return nil
}
