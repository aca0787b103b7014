package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/hdkit/internal/engine"
	"github.com/mrz1836/hdkit/internal/metrics"
	"github.com/mrz1836/hdkit/internal/output"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute whenever an input file changes",
	Long: `Watch a YAML snapshot file and print a fresh batch each time it changes.

The file holds the same fields as the derive flags; anything it leaves out
falls back to the configuration. The BIP44 coin field follows the network
unless bip44.coin is written out. Rapid edits are coalesced and only the
batch for the latest saved contents is printed.

Example snapshot.yaml:
  phrase: abandon abandon ability
  network: litecoin
  bip44: {purpose: 44, account: 0, change: 0}
  count: 5

Example:
  hdkit watch --input snapshot.yaml
  hdkit watch --input snapshot.yaml --debounce 1s -o json`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	watchInputPath   string
	watchDebounce    time.Duration
	watchExitAfter   int
	watchHidePrivate bool
)

// errWatchDone stops the watch loop after --exit-after results.
var errWatchDone = errors.New("watch: result limit reached")

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(watchCmd)

	f := watchCmd.Flags()
	f.StringVar(&watchInputPath, "input", "", "YAML snapshot file to watch (required)")
	f.DurationVar(&watchDebounce, "debounce", 0, "quiet period before recomputing (default from config)")
	f.IntVar(&watchExitAfter, "exit-after", 0, "exit after printing this many results (0 runs until interrupted)")
	f.BoolVar(&watchHidePrivate, "hide-private", false, "omit all private key material from the output")
	_ = watchCmd.MarkFlagRequired("input")
}

// watchOptions wires one watch session.
type watchOptions struct {
	Path      string
	Base      engine.Snapshot
	Scheduler *engine.Scheduler
	ExitAfter int
	Render    func(*engine.Result) error
	OnError   func(error)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce := cfg.Debounce()
	if cmd.Flags().Changed("debounce") {
		debounce = watchDebounce
	}

	sched := engine.NewScheduler(engine.SchedulerConfig{
		Computer: newEngine(),
		Debounce: debounce,
		Metrics:  metrics.Global,
		Logger:   logger,
	})

	results := formatter.HidingPrivate(watchHidePrivate || !cfg.Output.ShowPrivate)
	stderr := cmd.ErrOrStderr()

	return watchInput(ctx, watchOptions{
		Path:      watchInputPath,
		Base:      cfg.Snapshot(),
		Scheduler: sched,
		ExitAfter: watchExitAfter,
		Render: func(res *engine.Result) error {
			return results.Result(res, stderr)
		},
		OnError: func(err error) {
			logger.Error("reloading %s: %v", watchInputPath, err)
			_ = output.FormatError(stderr, err, formatter.Format())
		},
	})
}

// watchInput submits the file's snapshot now and after every change, and
// renders each published result until ctx ends or ExitAfter is reached.
func watchInput(ctx context.Context, opts watchOptions) error {
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return err
	}

	snap, err := loadSnapshotFile(path, opts.Base)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are still seen
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	sched := opts.Scheduler
	sched.Start()
	defer sched.Stop()
	sched.Submit(snap)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				next, err := loadSnapshotFile(path, opts.Base)
				if errors.Is(err, errEmptySnapshot) {
					continue
				}
				if err != nil {
					if opts.OnError != nil {
						opts.OnError(err)
					}
					continue
				}
				sched.Submit(next)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
	})

	g.Go(func() error {
		printed := 0
		for {
			select {
			case <-gctx.Done():
				return nil
			case res := <-sched.Updates():
				if err := opts.Render(res); err != nil {
					return err
				}
				printed++
				if opts.ExitAfter > 0 && printed >= opts.ExitAfter {
					return errWatchDone
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errWatchDone) {
		return err
	}
	return nil
}

// errEmptySnapshot marks a file caught mid-write.
var errEmptySnapshot = errors.New("snapshot file is empty")

// loadSnapshotFile overlays the YAML file at path onto base.
func loadSnapshotFile(path string, base engine.Snapshot) (engine.Snapshot, error) {
	// #nosec G304 -- path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return base, kiterr.WithDetails(kiterr.ErrNotFound, map[string]string{"file": path})
	}
	if len(data) == 0 {
		return base, errEmptySnapshot
	}

	snap := base
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return base, kiterr.WithDetails(
			kiterr.Wrap(kiterr.ErrInvalidInput, "parsing snapshot: %v", err),
			map[string]string{"file": path},
		)
	}
	return snap, nil
}
