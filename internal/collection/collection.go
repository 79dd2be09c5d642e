// Package collection holds the ordered set of loaded datasets behind the
// dataset list and the map renderer.
//
// Rows are positions in the current ordering and change with every
// mutation; dataset.ID is the only stable key. Every applied mutation is
// reported to observers as exactly one Event, and nothing is reported for a
// request that changed nothing.
//
// A Collection is not safe for concurrent use. All calls must come from
// the goroutine that owns it (the UI loop); loaders hand results back to
// that goroutine instead of calling in directly.
package collection

import (
	"fmt"

	"geomap/internal/dataset"
)

type Collection struct {
	items []*dataset.Dataset
	subs  []*subscription
}

type subscription struct {
	o Observer
}

func New() *Collection {
	return &Collection{}
}

// Subscribe attaches o. Observers are notified in subscription order and
// only about mutations that happen after they subscribed. The returned
// func detaches o; calling it more than once is harmless.
func (c *Collection) Subscribe(o Observer) (unsubscribe func()) {
	s := &subscription{o: o}
	c.subs = append(c.subs, s)
	return func() {
		if s.o == nil {
			return
		}
		s.o = nil
		// copy so a dispatch already iterating the old slice is unaffected
		subs := make([]*subscription, 0, len(c.subs))
		for _, cur := range c.subs {
			if cur != s {
				subs = append(subs, cur)
			}
		}
		c.subs = subs
	}
}

func (c *Collection) notify(e Event) {
	for _, s := range c.subs {
		if s.o != nil {
			s.o.CollectionChanged(c, e)
		}
	}
}

// Len is the row count.
func (c *Collection) Len() int { return len(c.items) }

// Get returns a snapshot of the ordered sequence for rendering. The slice
// is a copy; the datasets are shared.
func (c *Collection) Get() []*dataset.Dataset {
	out := make([]*dataset.Dataset, len(c.items))
	copy(out, c.items)
	return out
}

// At returns the dataset at row, or nil when row is out of range.
func (c *Collection) At(row int) *dataset.Dataset {
	if row < 0 || row >= len(c.items) {
		return nil
	}
	return c.items[row]
}

// Row finds the current row of id.
func (c *Collection) Row(id dataset.ID) (int, bool) {
	for i, d := range c.items {
		if d.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Add appends d, or with reloaded set replaces in place the first row whose
// label equals d.Label. A replacement is reported as DataChanged on that row
// so views keep their scroll position and selection; a reload that matches
// nothing is appended like a fresh load. Add returns d.ID.
//
// Adding a nil dataset, or one whose ID is already held by a row it would
// not replace, panics.
func (c *Collection) Add(d *dataset.Dataset, reloaded bool) dataset.ID {
	if d == nil {
		panic("collection: Add of nil dataset")
	}
	target := -1
	if reloaded {
		for i, cur := range c.items {
			if cur.Label == d.Label {
				target = i
				break
			}
		}
	}
	if row, ok := c.Row(d.ID); ok && row != target {
		panic(fmt.Sprintf("collection: dataset %s already present at row %d", d.ID, row))
	}
	if target >= 0 {
		c.items[target] = d
		c.notify(Event{Kind: DataChanged, First: target, Last: target})
		return d.ID
	}
	n := len(c.items)
	c.items = append(c.items, d)
	c.notify(Event{Kind: RowsInserted, First: n, Last: n})
	return d.ID
}

// Clear empties the collection with a single removal covering every row.
// Clearing an empty collection does nothing.
func (c *Collection) Clear() {
	n := len(c.items)
	if n == 0 {
		return
	}
	clear(c.items)
	c.items = c.items[:0]
	c.notify(Event{Kind: RowsRemoved, First: 0, Last: n - 1})
}

// EraseByID removes the row holding id. It reports false, and changes
// nothing, when id is not present; callers racing another removal expect
// that.
func (c *Collection) EraseByID(id dataset.ID) bool {
	row, ok := c.Row(id)
	if !ok {
		return false
	}
	c.remove(row, row+1)
	return true
}

// RemoveRows removes count rows starting at row. A range reaching past the
// end is clamped to the rows that exist and the call reports false; so does
// a start beyond the end, which removes nothing. Negative arguments panic.
func (c *Collection) RemoveRows(row, count int) bool {
	if row < 0 || count < 0 {
		panic(fmt.Sprintf("collection: RemoveRows(%d, %d): negative argument", row, count))
	}
	n := len(c.items)
	if row > n {
		return false
	}
	// compare before adding so a huge count cannot overflow
	full := count <= n-row
	end := n
	if full {
		end = row + count
	}
	if end > row {
		c.remove(row, end)
	}
	return full
}

// remove drops rows [start, end) and reports them as one event.
func (c *Collection) remove(start, end int) {
	n := len(c.items)
	copy(c.items[start:], c.items[end:])
	clear(c.items[n-(end-start):])
	c.items = c.items[:n-(end-start)]
	c.notify(Event{Kind: RowsRemoved, First: start, Last: end - 1})
}
