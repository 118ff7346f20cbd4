package walk

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits for filesystem activity to settle
// before rescanning.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions defines options for rescanning a tree whenever it changes.
type WatchOptions struct {
	// Scan options used for the initial scan and every rescan.
	Options Options

	// Quiet period after the last filesystem event before rescanning.
	Debounce time.Duration

	// Timeout duration (0 means no timeout)
	Timeout time.Duration
}

// ScanHandler receives the outcome of each scan performed by Watch. Returning
// an error stops watching.
type ScanHandler func(ctx context.Context, results []Result, err error) error

// Watch scans opts.Options.Cwd once, then rescans it every time the watched
// directories change, until ctx is done or the timeout elapses. Scan errors are
// passed to handler rather than ending the watch.
func Watch(ctx context.Context, engine *Engine, opts WatchOptions, handler ScanHandler) error {
	if engine == nil {
		engine = NewEngine()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	scanOpts, err := opts.Options.finalize()
	if err != nil {
		return err
	}
	logger := scanOpts.Logger
	if logger == nil {
		logger = NewLogger(scanOpts.LogLevel)
		defer logger.Sync()
		scanOpts.Logger = logger
	}

	root, err := scanOpts.FileSystem.RealPath(scanOpts.Cwd)
	if err != nil {
		return &PathError{Op: OpResolve, Path: scanOpts.Cwd, Err: err}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	rescan := func() error {
		addWatches(watcher, root, scanOpts.Recursive, logger)
		results, err := engine.Check(ctx, scanOpts)
		if ctx.Err() != nil {
			return nil
		}
		return handler(ctx, results, err)
	}

	if err := rescan(); err != nil {
		return err
	}

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("filesystem event", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			timer.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if err := rescan(); err != nil {
				return err
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// addWatches registers root and, when recursive, every directory below it.
// Adding an already watched path is a no-op.
func addWatches(watcher *fsnotify.Watcher, root string, recursive bool, logger *zap.Logger) {
	if err := watcher.Add(root); err != nil {
		logger.Warn("error watching path", zap.String("path", root), zap.Error(err))
		return
	}
	if !recursive {
		return
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, not fatal.
			return nil
		}
		if d.IsDir() && path != root {
			if err := watcher.Add(path); err != nil {
				logger.Warn("error watching directory", zap.String("path", path), zap.Error(err))
			}
		}
		return nil
	})
}
