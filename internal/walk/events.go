package walk

// EventKind identifies a scan notification.
type EventKind int

const (
	// EventCheck fires once options are finalised, before any path is visited.
	EventCheck EventKind = iota
	// EventCheckPath fires immediately before a path is checked.
	EventCheckPath
	// EventResult fires after a path has been accepted into the results.
	EventResult
	// EventEnd fires once every path has been visited and the results are sorted.
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventCheck:
		return "check"
	case EventCheckPath:
		return "checkpath"
	case EventResult:
		return "result"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by an Engine during a scan.
type Event interface {
	Kind() EventKind
}

// CheckEvent carries the finalised options of a scan that is about to start.
type CheckEvent struct {
	Options Options
}

// CheckPathEvent names a path that is about to be checked.
type CheckPathEvent struct {
	Options Options
	Path    string
}

// ResultEvent carries a path accepted into the results.
type ResultEvent struct {
	Result Result
}

// EndEvent carries the sorted results of a completed scan.
type EndEvent struct {
	Options Options
	Results []Result
	Stats   Stats
}

func (CheckEvent) Kind() EventKind     { return EventCheck }
func (CheckPathEvent) Kind() EventKind { return EventCheckPath }
func (ResultEvent) Kind() EventKind    { return EventResult }
func (EndEvent) Kind() EventKind       { return EventEnd }

// Handler receives scan notifications.
type Handler func(Event)

// Subscriber is implemented by anything that dispatches scan notifications.
type Subscriber interface {
	Subscribe(h Handler) (unsubscribe func())
	On(kind EventKind, h Handler) (unsubscribe func())
}
