package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/sirupsen/logrus"

	"geomap/internal/collection"
	"geomap/internal/dataset"
	"geomap/internal/loader"
)

type datasetItem struct {
	id          dataset.ID
	title, desc string
}

func (d datasetItem) Title() string       { return d.title }
func (d datasetItem) Description() string { return d.desc }
func (d datasetItem) FilterValue() string { return d.title }

// itemAt builds the list row for a collection row through the role
// accessors, the same surface any other view would use.
func itemAt(c *collection.Collection, row int) datasetItem {
	check := "[ ]"
	if v, _ := c.Data(row, collection.RoleVisible).(bool); v {
		check = "[x]"
	}
	kind, _ := c.Data(row, collection.RoleKind).(dataset.Kind)
	id, _ := c.Data(row, collection.RoleIdentity).(dataset.ID)
	name, _ := c.Data(row, collection.RoleDisplay).(string)
	tip, _ := c.Data(row, collection.RoleToolTip).(string)
	return datasetItem{
		id:    id,
		title: fmt.Sprintf("%s %s %s", check, kind.Glyph(), name),
		desc:  tip,
	}
}

// datasetPanel mirrors the collection in a bubbles list. It only ever
// patches the rows named by an event; it never rereads the whole sequence.
type datasetPanel struct {
	l list.Model
}

func newDatasetPanel() *datasetPanel {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	l := list.New(nil, d, 0, 0)
	l.Title = "Datasets"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	// filtering would decouple list indices from collection rows
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return &datasetPanel{l: l}
}

func (p *datasetPanel) CollectionChanged(c *collection.Collection, e collection.Event) {
	switch e.Kind {
	case collection.RowsInserted:
		for row := e.First; row <= e.Last; row++ {
			p.l.InsertItem(row, itemAt(c, row))
		}
	case collection.RowsRemoved:
		for row := e.Last; row >= e.First; row-- {
			p.l.RemoveItem(row)
		}
		if n := len(p.l.Items()); n > 0 && p.l.Index() >= n {
			p.l.Select(n - 1)
		}
	case collection.DataChanged:
		for row := e.First; row <= e.Last; row++ {
			p.l.SetItem(row, itemAt(c, row))
		}
	}
}

// selectedRow is the collection row under the cursor, or -1.
func (p *datasetPanel) selectedRow() int {
	if len(p.l.Items()) == 0 {
		return -1
	}
	return p.l.Index()
}

// watchSync keeps the watcher tracking exactly the files in the collection.
type watchSync struct {
	w       *loader.Watcher
	log     *logrus.Entry
	tracked map[string]bool
}

func newWatchSync(w *loader.Watcher, log *logrus.Entry) *watchSync {
	return &watchSync{w: w, log: log, tracked: make(map[string]bool)}
}

func (s *watchSync) CollectionChanged(c *collection.Collection, _ collection.Event) {
	want := make(map[string]bool, c.Len())
	for _, d := range c.Get() {
		if strings.HasPrefix(d.Label, pasteLabelPrefix) {
			continue
		}
		want[d.Label] = true
	}
	for p := range s.tracked {
		if !want[p] {
			s.w.Untrack(p)
			delete(s.tracked, p)
		}
	}
	for p := range want {
		if s.tracked[p] {
			continue
		}
		if err := s.w.Track(p); err != nil {
			s.log.WithError(err).WithField("path", p).Warn("cannot watch")
			continue
		}
		s.tracked[p] = true
	}
}
