package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/logging"
	"github.com/hamed0406/sitecheck/internal/monitor"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/report"
	"github.com/hamed0406/sitecheck/internal/targets"
)

// checked when neither URLs nor target files are given
var defaultURLs = []string{
	"https://www.google.com",
	"https://www.rust-lang.org",
	"https://www.github.com",
	"https://www.thiswebsitedoesnotexist.com",
}

var defaultConfig = monitor.Config{
	Workers:    4,
	Timeout:    5 * time.Second,
	MaxRetries: 2,
}

type checkOptions struct {
	files          []string
	workers        int
	timeoutSeconds int
	maxRetries     int
	retryBackoff   time.Duration
	jsonOut        string
	color          bool
	failOnErrors   bool
	logDir         string
	logLevel       string
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [urls...]",
		Short: "Check URLs and print one line per result",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, tgts, err := opts.plan(args, cmd.Flags().Changed)
			if err != nil {
				return err
			}

			logger, err := logging.New(opts.logLevel, opts.logDir, false)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			checker := probe.NewHTTPChecker(cfg.Workers)
			defer checker.Close()

			return opts.run(ctx, cfg, tgts, checker, cmd.OutOrStdout(), logger)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.files, "file", "f", nil, "target file or glob (YAML or one URL per line), repeatable")
	f.IntVar(&opts.workers, "workers", defaultConfig.Workers, "number of concurrent workers")
	f.IntVar(&opts.timeoutSeconds, "timeout", int(defaultConfig.Timeout/time.Second), "per-attempt HTTP timeout in seconds")
	f.IntVar(&opts.maxRetries, "max-retries", defaultConfig.MaxRetries, "attempts after the first transport failure")
	f.DurationVar(&opts.retryBackoff, "retry-backoff", 0, "delay between attempts, e.g. 250ms")
	f.StringVar(&opts.jsonOut, "json-out", "", "path to write the JSON report")
	f.BoolVar(&opts.color, "color", false, "color result lines by outcome")
	f.BoolVar(&opts.failOnErrors, "fail-on-errors", false, "exit non-zero if any check failed")
	f.StringVar(&opts.logDir, "log-dir", "logs", "directory for the JSON log file")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

// plan resolves the run configuration and targets. Settings come from the
// defaults, then target files, then explicitly set flags.
func (o *checkOptions) plan(args []string, changed func(string) bool) (monitor.Config, []domain.Target, error) {
	cfg := defaultConfig
	var tgts []domain.Target

	if len(o.files) > 0 {
		file, err := targets.LoadAll(o.files)
		if err != nil {
			return cfg, nil, err
		}
		cfg = file.Apply(cfg)
		tgts = file.DomainTargets()
	}

	var errs error
	for _, u := range args {
		errs = multierr.Append(errs, targets.ValidateURL(u))
	}
	if errs != nil {
		return cfg, nil, errs
	}
	tgts = append(tgts, domain.TargetsFromURLs(args)...)

	if len(tgts) == 0 {
		if len(o.files) > 0 {
			return cfg, nil, fmt.Errorf("no targets in %v", o.files)
		}
		tgts = domain.TargetsFromURLs(defaultURLs)
	}

	if changed("workers") {
		cfg.Workers = o.workers
	}
	if changed("timeout") {
		cfg.Timeout = time.Duration(o.timeoutSeconds) * time.Second
	}
	if changed("max-retries") {
		cfg.MaxRetries = o.maxRetries
	}
	if changed("retry-backoff") {
		cfg.RetryBackoff = o.retryBackoff
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, tgts, nil
}

// run checks tgts, printing each line to out as it arrives, then the summary.
func (o *checkOptions) run(ctx context.Context, cfg monitor.Config, tgts []domain.Target, p probe.Prober, out io.Writer, logger *zap.Logger) error {
	m, err := monitor.New(cfg, p, logger)
	if err != nil {
		return err
	}

	printer := report.NewPrinter(out, o.color)
	var results []domain.CheckResult
	runErr := m.Stream(ctx, tgts, func(r domain.CheckResult) {
		printer.Print(r)
		if o.jsonOut != "" {
			results = append(results, r)
		}
	})
	printer.Finish()

	if o.jsonOut != "" {
		if err := report.WriteJSON(o.jsonOut, results); err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	if o.failOnErrors && printer.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d checks failed", printer.Summary.Failed, printer.Summary.Total)
	}
	return nil
}
