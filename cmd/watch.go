package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/TFMV/pathlength/internal/style"
	"github.com/TFMV/pathlength/internal/walk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newWatchCommand builds the watch command, which shares the root command's
// persistent flags through v.
func newWatchCommand(v *viper.Viper) *cobra.Command {
	var (
		watchDebounce time.Duration
		watchTimeout  time.Duration
	)

	watchCmd := &cobra.Command{
		Use:   "watch [options] [path]",
		Short: "Rescan and report path lengths whenever the tree changes",
		Long: `Scan a directory, then watch it for filesystem changes and rescan after each
burst of activity. Every scan is rendered with the selected style.

Examples:
  pathlength watch .
  pathlength watch --recursive --filter="gt 240" --style=format /path/to/project
  pathlength watch --timeout=10m --debounce=1s /path/to/project`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings(v)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runWatch(ctx, cmd, targetPath(args), s, watchDebounce, watchTimeout)
		},
	}

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", walk.DefaultDebounce, "quiet period before rescanning")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "duration to watch before exiting (e.g. 1h, 30m)")

	return watchCmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string, s settings, debounce, timeout time.Duration) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	st, err := selectStyle(style.NewRegistry(), s.Style)
	if err != nil {
		return err
	}

	logger := newLogger(s)
	defer logger.Sync()

	opts, err := buildOptions(path, s, stderr, logger)
	if err != nil {
		return err
	}
	// Pre-parse so that a bad expression fails before watching starts.
	if opts.FilterExpression != "" {
		f, err := walk.ParseFilter(opts.FilterExpression)
		if err != nil {
			return err
		}
		opts.Filter = &f
	}

	engine := walk.NewEngine()
	detach := st.Apply(style.ApplyOptions{
		Engine: engine,
		Output: stdout,
		Pretty: s.Pretty,
		Format: s.Format,
	})
	defer detach()

	if s.Stats {
		defer engine.On(walk.EventEnd, func(ev walk.Event) {
			printStats(stderr, ev.(walk.EndEvent).Stats)
		})()
	}

	fmt.Fprintf(stderr, "Watching %s for changes...\n", displayPath(opts.Cwd))

	return walk.Watch(ctx, engine, walk.WatchOptions{
		Options:  opts,
		Debounce: debounce,
		Timeout:  timeout,
	}, func(ctx context.Context, results []walk.Result, err error) error {
		if err != nil {
			reportError(stderr, err, s.Stack)
		}
		return nil
	})
}

func displayPath(path string) string {
	if path != "" {
		return path
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
