// Package style renders scan results by subscribing to an engine's notifications.
package style

import (
	"io"
	"slices"
	"sync"

	"github.com/TFMV/pathlength/internal/walk"
)

// ApplyOptions configures how a Style is attached to an engine.
type ApplyOptions struct {
	Engine walk.Subscriber // Source of scan notifications
	Output io.Writer       // Destination for rendered output
	Pretty bool            // Prettier, possibly buffered, output where supported
	Format string          // Template used by the format style
}

// Style writes scan results to an output stream in a particular format.
type Style interface {
	// Name is the value accepted by the --style flag.
	Name() string
	// Apply subscribes the style to opts.Engine. The returned function detaches
	// it and finishes any output left open by a scan that failed.
	Apply(opts ApplyOptions) (detach func())
}

// Registry maps style names to styles and tracks the default.
type Registry struct {
	mu     sync.RWMutex
	styles map[string]Style
	def    Style
}

// NewRegistry returns a registry holding the built-in styles, with the table
// style as the default.
func NewRegistry() *Registry {
	r := &Registry{styles: make(map[string]Style)}
	r.Register(JSON{}, false)
	r.Register(Table{}, true)
	r.Register(XML{}, false)
	r.Register(YAML{}, false)
	r.Register(Format{}, false)
	return r
}

// Register adds s, replacing any style with the same name. When isDefault is
// true s also becomes the default style.
func (r *Registry) Register(s Style, isDefault bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles[s.Name()] = s
	if isDefault {
		r.def = s
	}
}

// Lookup finds the style registered under name.
func (r *Registry) Lookup(name string) (Style, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.styles[name]
	return s, ok
}

// Default returns the default style, or nil if none has been registered.
func (r *Registry) Default() Style {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// Names returns the registered style names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.styles))
	for name := range r.styles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// document tracks output a style has started and not yet finished. A failed
// scan notifies check but never end, so the next check, or detaching the
// style, finishes the document that scan left open.
type document struct {
	open   bool
	finish func()
}

func (d *document) begin() {
	d.end()
	d.open = true
}

func (d *document) end() {
	if d.open {
		d.open = false
		d.finish()
	}
}

func detachAll(fns ...func()) func() {
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}
