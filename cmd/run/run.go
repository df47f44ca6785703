// Package run implements the foldersync command: it resolves the
// configuration, then syncs the directories until it's interrupted or runs
// out of rounds.
package run

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/masa604/Task---Folder-Sync/pkg/config"
	"github.com/masa604/Task---Folder-Sync/pkg/errors"
	"github.com/masa604/Task---Folder-Sync/pkg/fswatch"
	"github.com/masa604/Task---Folder-Sync/pkg/logging"
	"github.com/masa604/Task---Folder-Sync/pkg/monitor"
	"github.com/masa604/Task---Folder-Sync/pkg/scheduler"
	"github.com/masa604/Task---Folder-Sync/pkg/sync"
)

// Mocked in unit tests.
var (
	fs               = afero.NewOsFs()
	stdout io.Writer = os.Stdout
	clock            = clockwork.NewRealClock()
	runSync          = run

	signalNotifyContext = signal.NotifyContext
)

type flags struct {
	configPath      string
	maxRounds       int
	monitorInterval time.Duration
	monitorMode     string
	exclude         []string
	verbose         bool
}

// New creates the command that syncs a replica directory with its source.
// `verboseEnv` enables debug logging when it's true, like `--verbose`.
func New(verboseEnv bool) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "foldersync <source> <replica> <period> <log>",
		Short: "Periodically mirror a source directory into a replica directory",
		Long: "foldersync makes the files in <replica> match the files in <source> " +
			"every <period> seconds.\n\n" +
			"New and changed files are copied from the source, and files that " +
			"don't exist in the source are removed from the replica. Only the " +
			"files directly inside the directories are synced: subdirectories " +
			"are ignored.\n\n" +
			"Every action is appended to the <log> file, and printed to the console.",
		Args:         cobra.ExactArgs(4),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}
			cfg.Verbose = cfg.Verbose || verboseEnv

			ctx, stop := interruptContext()
			defer stop()
			return runSync(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "",
		"Path to a YAML or TOML config file. Flags take precedence over its values.")
	cmd.Flags().IntVar(&f.maxRounds, "max-rounds", config.DefaultMaxRounds,
		"Number of sync rounds to run before exiting.")
	cmd.Flags().DurationVar(&f.monitorInterval, "monitor-interval", config.DefaultMonitorInterval,
		"How often to check the directories for added or removed files.")
	cmd.Flags().StringVar(&f.monitorMode, "monitor-mode", string(config.ModePoll),
		"How to detect added or removed files: \"poll\", or \"notify\" "+
			"to also react to filesystem notifications.")
	cmd.Flags().StringArrayVar(&f.exclude, "exclude", nil,
		"Glob pattern of file names to leave alone. Can be repeated.")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false,
		"Write debug messages to the log file.")
	return cmd
}

// interruptContext returns a context that's cancelled by the first interrupt
// or termination signal. The default signal handling is restored right
// after, so a second interrupt kills the process while it's still reporting
// on the sync.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, stop := signalNotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// resolveConfig merges the defaults, the config file, the flags that were
// explicitly set, and the positional arguments, in increasing order of
// precedence.
func resolveConfig(cmd *cobra.Command, f flags, args []string) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		file, err := config.ParseFile(f.configPath)
		if err != nil {
			return config.Config{}, errors.WithContext(err, "parse config")
		}
		cfg = cfg.WithFile(file)
	}

	changed := cmd.Flags().Changed
	if changed("max-rounds") {
		cfg.MaxRounds = f.maxRounds
	}
	if changed("monitor-interval") {
		cfg.MonitorInterval = f.monitorInterval
	}
	if changed("monitor-mode") {
		cfg.MonitorMode = config.MonitorMode(f.monitorMode)
	}
	if changed("exclude") {
		cfg.Exclude = f.exclude
	}
	cfg.Verbose = cfg.Verbose || f.verbose

	period, err := config.ParsePeriod(args[2])
	if err != nil {
		return config.Config{}, err
	}

	cfg.Source = args[0]
	cfg.Replica = args[1]
	cfg.Period = period
	cfg.LogPath = args[3]
	if err := cfg.ExpandPaths(); err != nil {
		return config.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// run syncs the directories until the round limit is hit, or `ctx` is
// cancelled. It only returns an error if the run couldn't start, or if one
// of the directories is unavailable.
func run(ctx context.Context, cfg config.Config) error {
	logger, logFile, err := logging.Open(fs, cfg.LogPath, stdout, cfg.Verbose)
	if err != nil {
		return errors.WithContext(err, "set up logging")
	}
	defer logFile.Close()

	filter, err := sync.NewFilter(cfg.Exclude)
	if err != nil {
		return errors.WithContext(err, "parse exclude patterns")
	}

	logger.WithFields(log.Fields{
		"source":  cfg.Source,
		"replica": cfg.Replica,
		"period":  cfg.Period.String(),
	}).Info("Start of directories sync")

	// The monitor only reports what it sees, so it's stopped along with the
	// sync rather than waited for.
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go startMonitor(monitorCtx, fs, logger, cfg, filter)

	engine := sync.NewEngine(fs, filter, logger)
	outcome, err := scheduler.New(engine, cfg.Source, cfg.Replica, scheduler.Options{
		MaxRounds: cfg.MaxRounds,
		Interval:  cfg.Period,
		Clock:     clock,
	}, logger).Run(ctx)
	if err != nil {
		logger.WithError(err).Error("Unable to sync directories. Ending process.")
		return err
	}

	if outcome == scheduler.Interrupted {
		reportInterrupt(logger, fs, cfg.Source, cfg.Replica, filter)
	}
	return nil
}

func startMonitor(ctx context.Context, fs afero.Fs, logger log.FieldLogger,
	cfg config.Config, filter sync.Filter) {
	opts := monitor.Options{
		Interval: cfg.MonitorInterval,
		Filter:   filter,
	}

	if cfg.MonitorMode == config.ModeNotify {
		watcher, err := fswatch.Watch([]string{cfg.Source, cfg.Replica})
		if err != nil {
			logger.WithError(err).Warnf("Failed to watch directories for changes. "+
				"Checking for changes every %s instead.", cfg.MonitorInterval)
		} else {
			defer watcher.Close()
			opts.Wakeups = watcher.Updates()
		}
	}

	monitor.New(fs, logger, cfg.Source, cfg.Replica, opts).Run(ctx)
}

// reportInterrupt logs that the sync was interrupted, and warns if the
// directories were left out of sync.
func reportInterrupt(logger log.FieldLogger, fs afero.Fs, source, replica string, filter sync.Filter) {
	logger.Info("Sync interrupted by user.")

	report, err := sync.Verify(fs, source, replica, filter)
	if err != nil {
		logger.WithError(err).Warn("Process ended with unsynchronized directories!")
		return
	}

	if !report.Synced() {
		logger.WithFields(log.Fields{
			"missing":   report.Missing,
			"differing": report.Differing,
			"extra":     report.Extra,
		}).Warn("Process ended with unsynchronized directories!")
	}
}
