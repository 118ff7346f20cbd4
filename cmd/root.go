package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/pathlength/internal/style"
	"github.com/TFMV/pathlength/internal/walk"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "0.1.0"

// settings is the resolved configuration for one command invocation.
type settings struct {
	Filter      string
	Force       bool
	Limit       int
	Pretty      bool
	Recursive   bool
	Style       string
	Format      string
	Debug       bool
	Stack       bool
	Progress    bool
	Stats       bool
	Concurrency int
}

// NewRootCommand builds the pathlength command tree. Each call uses its own
// viper instance so that commands can be built and executed independently.
func NewRootCommand() *cobra.Command {
	return newRootCommand(viper.New())
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "pathlength [options] [path]",
		Short: "Check the length of file and directory paths",
		Long: `pathlength scans a directory and reports the length of the real path of
each file and directory it finds, optionally filtered by a length expression.

Examples:
  pathlength
  pathlength --recursive --filter="gte 200" /path/to/project
  pathlength -r -f ">=100" --limit=10 --style=json --pretty .
  pathlength --style=format --format="{length} {base}" /tmp`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings(v)
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), targetPath(args), s)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pathlength.yaml)")
	flags.StringP("filter", "f", "", "filter paths by length (e.g. \"gte 20\", \">=20\")")
	flags.BoolP("force", "F", false, "ignore errors for individual directory listings")
	flags.IntP("limit", "l", -1, "limit number of results (negative for unlimited)")
	flags.BoolP("pretty", "p", false, "enable pretty formatting for supporting styles")
	flags.BoolP("recursive", "r", false, "search directories recursively")
	flags.StringP("style", "s", "", "use style for output (json, table, xml, yaml, format)")
	flags.String("format", "", "template for the format style (e.g. \"{length} {path}\")")
	flags.BoolP("debug", "d", false, "enable debug level logging")
	flags.Bool("stack", false, "print the full error chain for errors")
	flags.Bool("progress", false, "show progress updates on a terminal")
	flags.Bool("stats", false, "print scan statistics when done")
	flags.Int("concurrency", walk.DefaultConcurrency, "maximum concurrent filesystem calls")

	for _, name := range []string{
		"filter", "force", "limit", "pretty", "recursive", "style", "format",
		"debug", "stack", "progress", "stats", "concurrency",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(newWatchCommand(v), newStylesCommand())
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

// run executes args and reports any error to stderr. The --stack setting is
// read through viper so that it can also come from the config file or the
// environment.
func run(args []string, stdout, stderr io.Writer) int {
	v := viper.New()
	rootCmd := newRootCommand(v)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		reportError(stderr, err, v.GetBool("stack"))
		return 1
	}
	return 0
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".pathlength")
	}

	v.SetEnvPrefix("PATHLENGTH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func loadSettings(v *viper.Viper) settings {
	return settings{
		Filter:      v.GetString("filter"),
		Force:       v.GetBool("force"),
		Limit:       v.GetInt("limit"),
		Pretty:      v.GetBool("pretty"),
		Recursive:   v.GetBool("recursive"),
		Style:       v.GetString("style"),
		Format:      v.GetString("format"),
		Debug:       v.GetBool("debug"),
		Stack:       v.GetBool("stack"),
		Progress:    v.GetBool("progress"),
		Stats:       v.GetBool("stats"),
		Concurrency: v.GetInt("concurrency"),
	}
}

func targetPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// buildOptions converts settings into scan options rooted at path.
func buildOptions(path string, s settings, stderr io.Writer, logger *zap.Logger) (walk.Options, error) {
	opts := walk.DefaultOptions()

	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return opts, fmt.Errorf("invalid path %q: %w", path, err)
		}
		opts.Cwd = abs
	}
	opts.FilterExpression = s.Filter
	opts.Force = s.Force
	opts.Limit = s.Limit
	opts.Recursive = s.Recursive
	opts.Concurrency = s.Concurrency
	opts.Logger = logger

	if s.Progress && isTerminal(stderr) {
		opts.Progress = func(stats walk.Stats) {
			fmt.Fprintf(stderr, "\rChecked: %d paths, %d results, %d dirs",
				stats.PathsChecked, stats.ResultsFound, stats.DirsListed)
		}
	}
	return opts, nil
}

func selectStyle(registry *style.Registry, name string) (style.Style, error) {
	if name == "" {
		return registry.Default(), nil
	}
	st, ok := registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("invalid style: %s", name)
	}
	return st, nil
}

func newLogger(s settings) *zap.Logger {
	if s.Debug {
		return walk.NewLogger(walk.LogLevelDebug)
	}
	return walk.NewLogger(walk.LogLevelError)
}

func runCheck(ctx context.Context, stdout, stderr io.Writer, path string, s settings) error {
	if ctx == nil {
		ctx = context.Background()
	}

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

	engine := walk.NewEngine()
	detach := st.Apply(style.ApplyOptions{
		Engine: engine,
		Output: stdout,
		Pretty: s.Pretty,
		Format: s.Format,
	})
	defer detach()

	_, stats, err := engine.CheckWithStats(ctx, opts)
	if opts.Progress != nil {
		fmt.Fprintln(stderr)
	}
	if err != nil {
		return err
	}

	if s.Stats {
		printStats(stderr, stats)
	}
	return nil
}

func printStats(w io.Writer, stats walk.Stats) {
	fmt.Fprintf(w, "%d results from %d paths checked (%d directories listed, %d errors ignored) in %s\n",
		stats.ResultsFound, stats.PathsChecked, stats.DirsListed, stats.ErrorsIgnored, stats.ElapsedTime)
}

// reportError writes a failure message. With stack, every wrapped error in
// the chain is listed.
func reportError(w io.Writer, err error, stack bool) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "\npathlength failed: %v\n", err)

	if !stack {
		fmt.Fprintln(w, "Try again with the --stack option to print the full error chain")
		return
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(w, "  %T: %v\n", e, e)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
