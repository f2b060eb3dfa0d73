package persist

import (
	"slices"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// EventKind identifies a persistence notification.
type EventKind uint8

const (
	EventSaveFinished EventKind = iota + 1 // a document was written
	EventLoadFinished                      // the registry was rebuilt from a file (or freshly created)
	EventLoadError                         // a file could not be read or interpreted
)

func (k EventKind) String() string {
	switch k {
	case EventSaveFinished:
		return "SaveFinished"
	case EventLoadFinished:
		return "LoadFinished"
	case EventLoadError:
		return "LoadError"
	default:
		return "Unknown"
	}
}

// Event is delivered to subscribers after a save or load step.
type Event struct {
	Kind EventKind
	// Path is the file the event refers to.
	Path string
	// Err is the cause of an EventLoadError.
	Err error
}

// Handler receives events synchronously on the goroutine that called Save or Load.
// Handlers are called in the order they subscribed.
type Handler func(Event)

// eventHub fans events out to subscribed handlers.
type eventHub struct {
	nextID   atomic.Uint64
	handlers *xsync.MapOf[uint64, Handler]
}

func newEventHub() *eventHub {
	return &eventHub{handlers: xsync.NewMapOf[uint64, Handler]()}
}

// subscribe registers h and returns a function that removes it again.
func (h *eventHub) subscribe(handler Handler) (cancel func()) {
	id := h.nextID.Add(1)
	h.handlers.Store(id, handler)
	return func() { h.handlers.Delete(id) }
}

// emit calls every handler in subscription order.
func (h *eventHub) emit(e Event) {
	ids := make([]uint64, 0, h.handlers.Size())
	h.handlers.Range(func(id uint64, _ Handler) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)
	for _, id := range ids {
		if handler, ok := h.handlers.Load(id); ok {
			handler(e)
		}
	}
}
