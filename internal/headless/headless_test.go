package headless

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomap/internal/collection"
	"geomap/internal/dataset"
	"geomap/internal/geom"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func quietLog() *logrus.Entry {
	l, _ := logtest.NewNullLogger()
	return logrus.NewEntry(l)
}

func TestRunListsRowsInOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.wkt", "LINESTRING (0 0, 1 1)")
	b := writeFile(t, dir, "b.csv", "lon,lat\n1,2\n3,4\n")

	var out bytes.Buffer
	err := Run(context.Background(), &out, []string{a, b}, Options{Concurrency: 2, Log: quietLog()})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "KIND")
	assert.Contains(t, s, a)
	assert.Contains(t, s, b)
	assert.Contains(t, s, "lines")
	assert.Contains(t, s, "points")
	assert.Less(t, bytes.Index(out.Bytes(), []byte(a)), bytes.Index(out.Bytes(), []byte(b)))
}

func TestRunReportsFailures(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.wkt", "POINT (1 2)")
	bad := writeFile(t, dir, "b.shp", "")

	var out bytes.Buffer
	err := Run(context.Background(), &out, []string{a, bad}, Options{Log: quietLog()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out.String(), a)
	assert.Contains(t, out.String(), "error: "+bad)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := Run(ctx, &out, []string{"a.wkt"}, Options{Log: quietLog()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestEventLoggerLogsEachEvent(t *testing.T) {
	l, hook := logtest.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)

	c := collection.New()
	c.Subscribe(EventLogger{Log: logrus.NewEntry(l)})
	d := dataset.New("a.csv", geom.Data{Points: [][2]float64{{1, 1}}})
	c.Add(d, false)
	c.SetData(0, false, collection.RoleVisible)
	c.Clear()

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "RowsInserted(0, 0)", entries[0].Data["event"])
	assert.Equal(t, "a.csv", entries[0].Data["label"])
	assert.Equal(t, "DataChanged(0)", entries[1].Data["event"])
	assert.Equal(t, "RowsRemoved(0, 0)", entries[2].Data["event"])
	assert.Equal(t, 0, entries[2].Data["rows"])
}

func TestTableUsesRoles(t *testing.T) {
	c := collection.New()
	d := dataset.New("/tmp/x.csv", geom.Data{Points: [][2]float64{{1, 1}, {2, 2}}})
	c.Add(d, false)
	c.SetData(0, false, collection.RoleVisible)

	s := Table(c)
	assert.Contains(t, s, d.ID.String())
	assert.Contains(t, s, "false")
	assert.Contains(t, s, "/tmp/x.csv")
}
