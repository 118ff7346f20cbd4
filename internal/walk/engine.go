// Package walk checks the length of file and directory paths found by scanning
// a directory tree, optionally filtering them with a length comparison.
package walk

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Result is the length recorded for one accepted path.
type Result struct {
	Directory bool   `json:"directory" yaml:"directory" xml:"directory,attr"`
	Length    int    `json:"length" yaml:"length" xml:"length,attr"`
	Path      string `json:"path" yaml:"path" xml:"path,attr"`
}

// Stats holds scan statistics that are updated atomically during the walk.
type Stats struct {
	PathsChecked  int64         // Paths visited, accepted or not
	DirsListed    int64         // Directories whose entries were read
	ResultsFound  int64         // Paths added to the results
	ErrorsIgnored int64         // Listing errors suppressed by Force
	ElapsedTime   time.Duration // Time since the scan started
}

// Engine scans directory trees and notifies subscribers of its progress.
// An Engine may run several scans at once; each scan owns its own results.
type Engine struct {
	mu       sync.Mutex
	handlers []subscription
	nextID   int
}

type subscription struct {
	id   int
	all  bool
	kind EventKind
	fn   Handler
}

// NewEngine returns an Engine with no subscribers.
func NewEngine() *Engine {
	return &Engine{}
}

// Subscribe registers h for every notification.
//
// Notifications of one scan are delivered serially, so a handler never runs
// concurrently with another handler for the same scan. Handlers of different
// scans on the same Engine may run concurrently. A handler may start a new scan
// on the Engine, but a slow handler delays the scan that notified it.
func (e *Engine) Subscribe(h Handler) (unsubscribe func()) {
	return e.add(subscription{all: true, fn: h})
}

// On registers h for notifications of the given kind only. Delivery follows
// the same rules as Subscribe.
func (e *Engine) On(kind EventKind, h Handler) (unsubscribe func()) {
	return e.add(subscription{kind: kind, fn: h})
}

func (e *Engine) add(sub subscription) func() {
	e.mu.Lock()
	e.nextID++
	sub.id = e.nextID
	e.handlers = append(e.handlers, sub)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.handlers = slices.DeleteFunc(e.handlers, func(s subscription) bool { return s.id == sub.id })
	}
}

func (e *Engine) subscriptions() []subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.handlers)
}

// Check scans the tree described by opts and returns the accepted paths
// sorted by path. Any error aborts the whole scan and no results are returned.
func (e *Engine) Check(ctx context.Context, opts Options) ([]Result, error) {
	results, _, err := e.CheckWithStats(ctx, opts)
	return results, err
}

// CheckWithStats is like Check but also returns the scan statistics.
func (e *Engine) CheckWithStats(ctx context.Context, opts Options) ([]Result, Stats, error) {
	opts, err := opts.finalize()
	if err != nil {
		return nil, Stats{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(opts.LogLevel)
		defer logger.Sync()
	}

	logger.Debug("checking path lengths",
		zap.String("cwd", opts.Cwd),
		zap.Stringer("filter", filterStringer{opts.Filter}),
		zap.Bool("force", opts.Force),
		zap.Int("limit", opts.Limit),
		zap.Bool("recursive", opts.Recursive),
	)

	s := &scan{
		engine: e,
		opts:   opts,
		logger: logger,
		sem:    semaphore.NewWeighted(int64(opts.Concurrency)),
		start:  time.Now(),
	}
	s.emit(CheckEvent{Options: opts})
	stopProgress := s.startProgress(ctx)

	root, err := opts.FileSystem.RealPath(opts.Cwd)
	if err != nil {
		stopProgress()
		return nil, s.snapshot(), &PathError{Op: OpResolve, Path: opts.Cwd, Err: err}
	}
	s.root = root

	if err := s.visit(ctx, root); err != nil {
		stopProgress()
		logger.Debug("check failed", zap.String("root", root), zap.Error(err))
		return nil, s.snapshot(), err
	}

	slices.SortFunc(s.results, func(a, b Result) int {
		return strings.Compare(a.Path, b.Path)
	})

	stats := stopProgress()
	logger.Debug("check completed",
		zap.String("root", root),
		zap.Int("results", len(s.results)),
		zap.Duration("elapsed", stats.ElapsedTime),
	)

	s.emit(EndEvent{Options: opts, Results: s.results, Stats: stats})

	return s.results, stats, nil
}

// Check scans with a new Engine that has no subscribers.
func Check(ctx context.Context, opts Options) ([]Result, error) {
	return NewEngine().Check(ctx, opts)
}

// scan is the state of one Check invocation.
type scan struct {
	engine *Engine
	opts   Options
	logger *zap.Logger
	sem    *semaphore.Weighted
	root   string
	start  time.Time
	stats  Stats

	mu      sync.Mutex // guards results
	results []Result

	dispatch sync.Mutex // serialises handler calls for this scan
}

func (s *scan) emit(ev Event) {
	handlers := s.engine.subscriptions()

	s.dispatch.Lock()
	defer s.dispatch.Unlock()
	for _, h := range handlers {
		if h.all || h.kind == ev.Kind() {
			h.fn(ev)
		}
	}
}

// visit checks path and, when eligible, visits its children concurrently.
// It returns only once the whole subtree below path has been visited.
func (s *scan) visit(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.emit(CheckPathEvent{Options: s.opts, Path: path})
	atomic.AddInt64(&s.stats.PathsChecked, 1)
	s.logger.Debug("checking path", zap.String("path", path))

	info, err := s.lstat(ctx, path)
	if err != nil {
		return err
	}

	directory := info.IsDir()
	s.accept(path, directory)

	symlink := info.Mode()&fs.ModeSymlink != 0
	recurse := directory && !symlink && (s.opts.Recursive || path == s.root)
	if !recurse || s.limitReached() {
		return nil
	}

	names, err := s.readDir(ctx, path)
	if err != nil {
		if !s.opts.Force || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		atomic.AddInt64(&s.stats.ErrorsIgnored, 1)
		s.logger.Warn("ignoring error since force is enabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	atomic.AddInt64(&s.stats.DirsListed, 1)

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		child := filepath.Join(path, name)
		g.Go(func() error {
			return s.visit(gctx, child)
		})
	}
	return g.Wait()
}

// accept records path when it passes the filter and the limit has not been
// reached. The limit is enforced here rather than by stopping sibling visits.
func (s *scan) accept(path string, directory bool) {
	if s.opts.Filter != nil && !s.opts.Filter.Check(path) {
		s.logger.Debug("path did not match filter", zap.String("path", path))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limitReachedLocked() {
		return
	}

	result := Result{
		Directory: directory,
		Length:    PathLength(path),
		Path:      path,
	}
	s.results = append(s.results, result)
	atomic.AddInt64(&s.stats.ResultsFound, 1)
	s.logger.Debug("path found", zap.String("path", path), zap.Int("length", result.Length))

	s.emit(ResultEvent{Result: result})
}

func (s *scan) limitReached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limitReachedLocked()
}

func (s *scan) limitReachedLocked() bool {
	return s.opts.HasLimit() && len(s.results) >= s.opts.Limit
}

func (s *scan) lstat(ctx context.Context, path string) (fs.FileInfo, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	info, err := s.opts.FileSystem.Lstat(path)
	if err != nil {
		return nil, &PathError{Op: OpLstat, Path: path, Err: err}
	}
	return info, nil
}

func (s *scan) readDir(ctx context.Context, path string) ([]string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	names, err := s.opts.FileSystem.ReadDirNames(path)
	if err != nil {
		return nil, &PathError{Op: OpReadDir, Path: path, Err: err}
	}
	return names, nil
}

func (s *scan) snapshot() Stats {
	return Stats{
		PathsChecked:  atomic.LoadInt64(&s.stats.PathsChecked),
		DirsListed:    atomic.LoadInt64(&s.stats.DirsListed),
		ResultsFound:  atomic.LoadInt64(&s.stats.ResultsFound),
		ErrorsIgnored: atomic.LoadInt64(&s.stats.ErrorsIgnored),
		ElapsedTime:   time.Since(s.start),
	}
}

// startProgress reports stats on a ticker until the returned function is
// called. The stop function makes a final report and returns the final stats.
func (s *scan) startProgress(ctx context.Context) func() Stats {
	if s.opts.Progress == nil {
		return s.snapshot
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.opts.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.opts.Progress(s.snapshot())
			}
		}
	}()

	var once sync.Once
	var final Stats
	return func() Stats {
		once.Do(func() {
			close(done)
			wg.Wait()
			final = s.snapshot()
			s.opts.Progress(final)
		})
		return final
	}
}

type filterStringer struct{ filter *Filter }

func (f filterStringer) String() string {
	if f.filter == nil {
		return "none"
	}
	return f.filter.String()
}
