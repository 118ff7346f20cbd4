package walk

import (
	"context"

	"go.uber.org/zap"

	internal "github.com/TFMV/pathlength/internal/walk"
)

// Re-export the types from the internal package
type (
	// Operator is a logical comparison between a path length and an operand.
	Operator = internal.Operator

	// Filter accepts or rejects a path by comparing its length to an operand.
	Filter = internal.Filter

	// Options configures a single scan.
	Options = internal.Options

	// Result is the length recorded for one accepted path.
	Result = internal.Result

	// Stats holds scan statistics.
	Stats = internal.Stats

	// Engine scans directory trees and notifies subscribers.
	Engine = internal.Engine

	// FileSystem is the set of filesystem operations a scan depends on.
	FileSystem = internal.FileSystem

	// PathError records a filesystem failure during a scan.
	PathError = internal.PathError

	// ProgressFn is called periodically with scan statistics.
	ProgressFn = internal.ProgressFn

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// Event types
	Event          = internal.Event
	EventKind      = internal.EventKind
	Handler        = internal.Handler
	Subscriber     = internal.Subscriber
	CheckEvent     = internal.CheckEvent
	CheckPathEvent = internal.CheckPathEvent
	ResultEvent    = internal.ResultEvent
	EndEvent       = internal.EndEvent

	// Watch types
	WatchOptions = internal.WatchOptions
	ScanHandler  = internal.ScanHandler
)

// Re-export the constants
const (
	Equals               = internal.Equals
	GreaterThan          = internal.GreaterThan
	GreaterThanOrEqualTo = internal.GreaterThanOrEqualTo
	LessThan             = internal.LessThan
	LessThanOrEqualTo    = internal.LessThanOrEqualTo
	NotEquals            = internal.NotEquals

	EventCheck     = internal.EventCheck
	EventCheckPath = internal.EventCheckPath
	EventResult    = internal.EventResult
	EventEnd       = internal.EventEnd

	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	DefaultConcurrency = internal.DefaultConcurrency

	OpResolve = internal.OpResolve
	OpLstat   = internal.OpLstat
	OpReadDir = internal.OpReadDir
)

// Re-export the sentinel errors
var (
	ErrInvalidExpression = internal.ErrInvalidExpression
	ErrInvalidArgument   = internal.ErrInvalidArgument
)

// NewEngine returns an Engine with no subscribers.
func NewEngine() *Engine {
	return internal.NewEngine()
}

// DefaultOptions returns options for an unlimited, non-recursive, unfiltered scan.
func DefaultOptions() Options {
	return internal.DefaultOptions()
}

// Check scans the tree described by opts and returns the sorted results.
func Check(ctx context.Context, opts Options) ([]Result, error) {
	return internal.Check(ctx, opts)
}

// ParseFilter parses a filter expression such as "gte 20".
func ParseFilter(expression string) (Filter, error) {
	return internal.ParseFilter(expression)
}

// NewFilter builds a Filter from an operator and a non-negative operand.
func NewFilter(op Operator, operand float64) (Filter, error) {
	return internal.NewFilter(op, operand)
}

// ParseOperator resolves an operator name or alias.
func ParseOperator(token string) (Operator, error) {
	return internal.ParseOperator(token)
}

// Watch rescans the tree every time it changes.
func Watch(ctx context.Context, engine *Engine, opts WatchOptions, handler ScanHandler) error {
	return internal.Watch(ctx, engine, opts, handler)
}

// PathLength returns the number of characters in the NFC form of path.
func PathLength(path string) int {
	return internal.PathLength(path)
}

// IsResolutionError reports whether err came from resolving the scan root.
func IsResolutionError(err error) bool {
	return internal.IsResolutionError(err)
}

// NewLogger creates a zap logger writing to stderr at the given level.
func NewLogger(level LogLevel) *zap.Logger {
	return internal.NewLogger(level)
}
