package player

import "github.com/sharetube/client/pkg/mediatime"

// EventKind is what happened on the media element.
type EventKind int

const (
	EventPlay EventKind = iota
	EventPause
	EventSeeking
	EventSeeked
	EventTimeUpdate
	EventLoaded
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventSeeking:
		return "seeking"
	case EventSeeked:
		return "seeked"
	case EventTimeUpdate:
		return "timeupdate"
	case EventLoaded:
		return "loaded"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a native media element event. Events fire the same way whether the action
// came from the user or from a programmatic call.
type Event struct {
	Kind     EventKind
	Position float64
	Err      error
}

// Player is the local media element together with the streaming engine feeding it.
// Commands are asynchronous: their effects are observed through Events.
type Player interface {
	// Load starts loading the media at path, relative to the media host.
	Load(path string) error
	Play() error
	Pause() error
	Seek(position float64) error
	Paused() bool
	Position() float64
	Buffered() []mediatime.Range
	Events() <-chan Event
}
