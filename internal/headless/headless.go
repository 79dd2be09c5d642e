// Package headless loads datasets into a collection without a terminal UI
// and prints what the collection holds.
package headless

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sirupsen/logrus"

	"geomap/internal/collection"
	"geomap/internal/dataset"
	"geomap/internal/loader"
	"geomap/internal/logging"
)

// EventLogger logs every collection change at debug level.
type EventLogger struct {
	Log *logrus.Entry
}

func (l EventLogger) CollectionChanged(c *collection.Collection, e collection.Event) {
	f := logrus.Fields{"event": e.String(), "rows": c.Len()}
	if e.Kind != collection.RowsRemoved && e.First < c.Len() {
		f["label"] = c.Data(e.First, collection.RoleLabel)
	}
	l.Log.WithFields(f).Debug("collection changed")
}

// Options controls a listing run.
type Options struct {
	Concurrency int
	Log         *logrus.Entry
}

// Run loads paths in order and writes one line per resulting row to w.
// Files that fail to load are reported after the listing; the returned
// error counts them.
func Run(ctx context.Context, w io.Writer, paths []string, opts Options) error {
	log := opts.Log
	if log == nil {
		log = logging.NewLogger("headless")
	}
	ld := loader.New(loader.WithConcurrency(opts.Concurrency), loader.WithLogger(log))

	c := collection.New()
	defer c.Subscribe(EventLogger{Log: log})()

	var failed []loader.Result
	for _, r := range ld.LoadAll(ctx, paths, false) {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		c.Add(r.Dataset, false)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.Len() > 0 {
		if _, err := fmt.Fprintln(w, Table(c)); err != nil {
			return err
		}
	}
	for _, r := range failed {
		if _, err := fmt.Fprintf(w, "error: %s: %v\n", r.Path, r.Err); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed to load", len(failed), len(paths))
	}
	return nil
}

// Table renders the collection rows through the role accessors.
func Table(c *collection.Collection) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ROW", "ID", "KIND", "VISIBLE", "POINTS", "LINES", "POLYGONS", "LABEL")
	for row := 0; row < c.Len(); row++ {
		d := c.At(row)
		kind, _ := c.Data(row, collection.RoleKind).(dataset.Kind)
		id, _ := c.Data(row, collection.RoleIdentity).(dataset.ID)
		visible, _ := c.Data(row, collection.RoleVisible).(bool)
		label, _ := c.Data(row, collection.RoleLabel).(string)
		t.Row(
			strconv.Itoa(row),
			id.String(),
			kind.String(),
			strconv.FormatBool(visible),
			strconv.Itoa(len(d.Data.Points)),
			strconv.Itoa(len(d.Data.Lines)),
			strconv.Itoa(len(d.Data.Polygons)),
			label,
		)
	}
	return t.String()
}
