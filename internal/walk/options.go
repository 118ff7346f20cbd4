package walk

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultConcurrency bounds the number of filesystem calls a single scan
// keeps in flight when Options.Concurrency is not set.
const DefaultConcurrency int = 100

// DefaultProgressInterval is how often Options.Progress is called during a scan.
const DefaultProgressInterval = 250 * time.Millisecond

// ProgressFn is called periodically with scan statistics, and once more when
// the scan finishes.
type ProgressFn func(stats Stats)

// Options configures a single scan. It is snapshotted when the scan starts.
type Options struct {
	// Cwd is the directory (or file) from which scanning begins. Defaults to
	// the process working directory.
	Cwd string

	// Filter restricts which paths are included in the results. A nil filter
	// accepts every path.
	Filter *Filter

	// FilterExpression is parsed into Filter when Filter is nil, e.g. "gte 20".
	FilterExpression string

	// Force ignores directory listing errors, treating such directories as empty.
	Force bool

	// Limit caps the number of results. Negative means unlimited.
	Limit int

	// Recursive descends below the direct children of Cwd.
	Recursive bool

	Concurrency      int           // Max concurrent filesystem calls
	FileSystem       FileSystem    // Defaults to OSFileSystem
	Logger           *zap.Logger   // Built from LogLevel when nil
	LogLevel         LogLevel      // Used only when Logger is nil
	Progress         ProgressFn    // Optional progress callback
	ProgressInterval time.Duration // Defaults to DefaultProgressInterval
}

// DefaultOptions returns options for an unlimited, non-recursive, unfiltered
// scan of the working directory.
func DefaultOptions() Options {
	return Options{
		Limit:       -1,
		Concurrency: DefaultConcurrency,
		LogLevel:    LogLevelError,
	}
}

// HasLimit reports whether the options cap the number of results.
func (o Options) HasLimit() bool {
	return o.Limit >= 0
}

// finalize fills in defaults and parses FilterExpression. A Filter that was
// not built by ParseFilter or NewFilter is rejected. It performs no I/O beyond
// looking up the working directory.
func (o Options) finalize() (Options, error) {
	if o.Filter == nil && o.FilterExpression != "" {
		f, err := ParseFilter(o.FilterExpression)
		if err != nil {
			return o, err
		}
		o.Filter = &f
	}
	if o.Filter != nil && !o.Filter.Operator().Valid() {
		return o, fmt.Errorf("%w: filter has no valid operator", ErrInvalidArgument)
	}
	if o.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("getting working directory: %w", err)
		}
		o.Cwd = wd
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.FileSystem == nil {
		o.FileSystem = OSFileSystem
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	return o, nil
}
