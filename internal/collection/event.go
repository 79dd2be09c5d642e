package collection

import "fmt"

// EventKind says how a row range changed.
type EventKind int

const (
	RowsInserted EventKind = iota
	RowsRemoved
	DataChanged
)

func (k EventKind) String() string {
	switch k {
	case RowsInserted:
		return "RowsInserted"
	case RowsRemoved:
		return "RowsRemoved"
	case DataChanged:
		return "DataChanged"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event describes one applied mutation. First and Last are inclusive row
// indices. For RowsInserted they are positions in the new sequence, for
// RowsRemoved positions in the sequence as it was before the removal.
type Event struct {
	Kind  EventKind
	First int
	Last  int
}

// Count is the number of rows the event covers.
func (e Event) Count() int { return e.Last - e.First + 1 }

func (e Event) String() string {
	switch e.Kind {
	case RowsInserted:
		return fmt.Sprintf("%s(%d, %d)", e.Kind, e.First, e.Count())
	case DataChanged:
		return fmt.Sprintf("%s(%d)", e.Kind, e.First)
	}
	return fmt.Sprintf("%s(%d, %d)", e.Kind, e.First, e.Last)
}

// Observer receives change notifications. Events are delivered on the
// goroutine that performed the mutation, after the collection already
// reflects it.
type Observer interface {
	CollectionChanged(c *Collection, e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(c *Collection, e Event)

func (f ObserverFunc) CollectionChanged(c *Collection, e Event) { f(c, e) }
