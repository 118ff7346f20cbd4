package walk

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpression is returned when a filter or operator expression cannot be parsed.
	ErrInvalidExpression = errors.New("pathlength: invalid expression")

	// ErrInvalidArgument is returned when a Filter is constructed from bad values.
	ErrInvalidArgument = errors.New("pathlength: invalid argument")
)

// Filesystem operations reported by PathError.
const (
	OpResolve = "resolve"
	OpLstat   = "lstat"
	OpReadDir = "readdir"
)

// PathError records a filesystem failure during a scan.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// IsResolutionError reports whether err came from canonicalising the scan root.
func IsResolutionError(err error) bool {
	var pe *PathError
	return errors.As(err, &pe) && pe.Op == OpResolve
}
