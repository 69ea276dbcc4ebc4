package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sopaggregator/lib/restyutil"
	"sopaggregator/lib/sopfeed"
	"sopaggregator/lib/telemetry"
	"sopaggregator/lib/timezone"

	"github.com/spf13/cobra"
)

type globalsKey struct{}

type globals struct {
	config   Config
	client   *sopfeed.Client
	location *time.Location
}

func getGlobals(ctx context.Context) *globals {
	return ctx.Value(globalsKey{}).(*globals)
}

type rootFlags struct {
	config   string
	endpoint string
	verbose  bool

	// released by execute, whether or not the command succeeded
	closers []func(context.Context) error
}

func (f *rootFlags) close(ctx context.Context) error {
	errlist := []error{}
	for _, c := range f.closers {
		errlist = append(errlist, c(ctx))
	}
	f.closers = nil
	return errors.Join(errlist...)
}

func newRootCmd() (*cobra.Command, *rootFlags) {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "sop",
		Short:         "sop shows Statement of Poll tallies grouped by region.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, flags)
		},
	}
	cmd.PersistentFlags().StringVar(&flags.config, "config", "config.json5", "The json5 config file to read.")
	cmd.PersistentFlags().StringVar(&flags.endpoint, "endpoint", "", "Overrides the feed endpoint from the config.")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging/instrumentation.")

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newServeCmd())
	return cmd, flags
}

// execute runs cmd and then shuts down telemetry. cobra skips post-run
// hooks when a command fails, so this cannot live in PersistentPostRunE.
func execute(ctx context.Context, cmd *cobra.Command, flags *rootFlags) error {
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, flags.close(context.Background()))
}

func setup(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()
	telemetry.InitSlog(flags.verbose)

	cfg, err := readConfig(flags.config)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if flags.endpoint != "" {
		cfg.Endpoint = flags.endpoint
	}

	loc, err := timezone.Load(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	tel, err := telemetry.SetupFromEnv(ctx, "sop")
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	flags.closers = append(flags.closers, tel.Shutdown)

	opts := sopfeed.ClientOptions{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.timeout(),
	}
	if flags.verbose && cfg.Transcripts != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.Transcripts)
		if err != nil {
			slog.WarnContext(ctx, "http transcripts disabled", "dir", cfg.Transcripts, "err", err)
		} else {
			opts.Transcripts = output
		}
	}

	slog.DebugContext(ctx, "configured", "endpoint", cfg.Endpoint, "timezone", loc.String())
	cmd.SetContext(context.WithValue(ctx, globalsKey{}, &globals{
		config:   cfg,
		client:   sopfeed.NewClient(opts),
		location: loc,
	}))
	return nil
}

func ExecuteContext(ctx context.Context) {
	cmd, flags := newRootCmd()
	if err := execute(ctx, cmd, flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
