package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	jsonAdapter "github.com/bft-labs/hecship/internal/adapters/json"
	"github.com/bft-labs/hecship/internal/cliconfig"
	"github.com/bft-labs/hecship/internal/tail"
	"github.com/bft-labs/hecship/pkg/hecship"
	"github.com/bft-labs/hecship/pkg/log"
)

const helpDescription = `
Ship newline-delimited JSON events to an HTTP event collector.

Each input line is one JSON object. Lines are packed into batches bounded by
--max-batch-bytes, or sent one request per line with --immediate. Events
without "time" or "host" get the current epoch seconds and the local host
name. Pending events are flushed on EOF, SIGINT or SIGTERM.

Configure via $HOME/.hecship/config.toml, HECSHIP_* environment variables or
flags, in increasing order of precedence.
`

var exampleUsage = strings.TrimSpace(`
  app | hecship --collector-host splunk.example.com --token <token>
  hecship --file /var/log/app/events.jsonl --follow --gzip
  hecship --config ./hecship.toml --immediate < events.jsonl
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return hecship.Version
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "hecship",
		Short:         "Ship JSON lines to an HTTP event collector",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides the file; flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closer, err := cliconfig.NewLogger(cfg, os.Stderr)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.hecship/config.toml)")
	root.Flags().StringVar(&cfg.Token, "token", cfg.Token, "collector token")
	root.Flags().StringVar(&cfg.CollectorHost, "collector-host", cfg.CollectorHost, "collector host name or address")
	root.Flags().IntVar(&cfg.Port, "port", cfg.Port, "collector port")
	root.Flags().StringVar(&cfg.LocalHost, "local-host", cfg.LocalHost, "host value for events without one (default: hostname)")
	root.Flags().BoolVar(&cfg.UseTLS, "tls", cfg.UseTLS, "use https")
	root.Flags().BoolVar(&cfg.InsecureSkipVerify, "insecure-skip-verify", cfg.InsecureSkipVerify, "skip TLS certificate verification")

	root.Flags().IntVar(&cfg.MaxBatchBytes, "max-batch-bytes", cfg.MaxBatchBytes, "serialized bytes per batch")
	root.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent delivery workers")
	root.Flags().IntVar(&cfg.QueueCapacity, "queue-capacity", cfg.QueueCapacity, "dispatch queue capacity in units (0 = unbounded)")
	root.Flags().StringVar(&cfg.Overflow, "overflow", cfg.Overflow, "full queue policy: block, drop-oldest or reject")
	root.Flags().BoolVar(&cfg.Gzip, "gzip", cfg.Gzip, "gzip request bodies")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout per request")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "maximum time to drain on exit")

	root.Flags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "log every enqueue and delivery")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write JSON logs to this rotated file")

	root.Flags().StringVar(&cfg.File, "file", cfg.File, "read events from this file instead of stdin")
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep reading lines appended to --file")
	root.Flags().BoolVar(&cfg.Immediate, "immediate", cfg.Immediate, "send each event as its own request")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hecship: %v\n", err)
		os.Exit(1)
	}
}

// run ships the configured input until EOF or ctx is done, then drains.
func run(ctx context.Context, cfg cliconfig.Config, logger log.Logger) error {
	counter := &deliveryCounter{}
	client, err := hecship.New(cfg.ClientConfig(),
		hecship.WithLogger(logger),
		hecship.WithOutcomeHandler(counter),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	if err := client.Open(); err != nil {
		return fmt.Errorf("open client: %w", err)
	}

	s := &shipper{
		client:    client,
		decoder:   jsonAdapter.NewEncoder(),
		immediate: cfg.Immediate,
		logger:    logger,
	}

	readErr := readInput(ctx, cfg, logger, s.handle)
	if errors.Is(readErr, context.Canceled) {
		logger.Info("received signal, stopping...")
		readErr = nil
	}

	closeErr := client.Close()

	logger.Info("shipping finished",
		log.Int("submitted", s.submitted),
		log.Int("skipped", s.skipped),
		log.Int("rejected", s.rejected),
		log.Any("units_delivered", counter.delivered.Load()),
		log.Any("events_delivered", counter.events.Load()),
		log.Any("units_failed", counter.failed.Load()),
		log.Any("units_dropped", counter.dropped.Load()),
	)

	if readErr != nil {
		return fmt.Errorf("read input: %w", readErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close client: %w", closeErr)
	}
	if n := counter.failed.Load(); n > 0 {
		return fmt.Errorf("%d unit(s) failed delivery", n)
	}
	return nil
}

func readInput(ctx context.Context, cfg cliconfig.Config, logger log.Logger, fn tail.LineFunc) error {
	if cfg.File == "" || cfg.File == "-" {
		return tail.ReadLines(ctx, os.Stdin, fn)
	}
	f := tail.NewFollower(cfg.File, tail.Options{Follow: cfg.Follow, Logger: logger})
	return f.Run(ctx, fn)
}
