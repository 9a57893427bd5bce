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

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/torosent/captest/internal/catalog"
	"github.com/torosent/captest/internal/config"
	"github.com/torosent/captest/internal/history"
	"github.com/torosent/captest/internal/httpclient"
	"github.com/torosent/captest/internal/logging"
	"github.com/torosent/captest/internal/metrics"
	"github.com/torosent/captest/internal/output"
	"github.com/torosent/captest/internal/runner"
	"github.com/torosent/captest/internal/sampler"
	"github.com/torosent/captest/internal/threshold"
	"github.com/torosent/captest/internal/tracing"
)

const (
	progressInterval = time.Second
	flushTimeout     = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Verbosity: cfg.Verbosity,
		Output:    stderr,
		File:      cfg.LogFile,
		Syslog:    cfg.Syslog,
	})
	if err != nil {
		return err
	}
	defer closeLog()
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.Source)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d targets from %s (total weight %d)", cat.Len(), cfg.Source, cat.TotalWeight())

	pick, err := sampler.NewSeeded(cat, cfg.Seed)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := provider.Shutdown(flushCtx); err != nil {
			logger.Warnf("Tracing shutdown: %v", err)
		}
	}()

	var fetchOpts []httpclient.FetcherOption
	if provider.Enabled() {
		fetchOpts = append(fetchOpts, httpclient.WithTracer(provider.Tracer(), provider.ShouldPropagate()))
	}
	fetcher := httpclient.NewFetcher(httpclient.NewClient(cfg.Timeout), cfg.BaseURL, fetchOpts...)

	r, err := runner.New(runner.Options{
		Concurrency:   cfg.Concurrency,
		Duration:      cfg.Duration,
		QueueSlack:    cfg.QueueSlack,
		Delay:         cfg.Delay,
		RatePerSecond: cfg.Rate,
		Sampler:       pick,
		Fetcher:       fetcher,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	runCtx, span := tracing.StartRunSpan(ctx, provider.Tracer(), r.ID(), cfg.Concurrency)

	var progress *output.ProgressReporter
	if cfg.Progress {
		progress = output.NewProgressReporter(r, progressInterval, stderr)
		progress.Start()
	}

	result := r.Run(runCtx)

	if progress != nil {
		progress.Stop()
	}
	tracing.EndSpan(span, ctx.Err(),
		attribute.Int64("captest.requests", result.TotalRequests),
		attribute.Int64("captest.errors", result.TotalErrors),
		attribute.Float64("captest.rate", result.Rate),
	)

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(stdout, result.Summary); err != nil {
			return err
		}
	} else {
		output.PrintReport(stdout, result.Summary)
	}

	if cfg.HistoryFile != "" {
		if err := appendHistory(cfg, result.Summary); err != nil {
			logger.Errorf("History not recorded: %v", err)
		}
	}

	return checkThresholds(thresholds, result.Summary, logger)
}

func appendHistory(cfg *config.Config, s metrics.Summary) error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	return history.Append(ctx, cfg.HistoryFile, history.Record{
		Source:  cfg.Source,
		BaseURL: cfg.BaseURL,
		Summary: s,
	})
}

func checkThresholds(thresholds []threshold.Threshold, s metrics.Summary, logger log.FieldLogger) error {
	if len(thresholds) == 0 {
		return nil
	}
	results := threshold.NewEvaluator(thresholds).Evaluate(s)
	for _, res := range results {
		if res.Pass {
			logger.Info(res.Message)
		} else {
			logger.Error(res.Message)
		}
	}
	if failed := threshold.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d thresholds failed", failed, len(results))
	}
	return nil
}
