package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomap/internal/dataset"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	ld := New()
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		kind    dataset.Kind
	}{
		{"pts.csv", "lat,lon\n1,2\n3,4\n", dataset.KindPoints},
		{"line.wkt", "LINESTRING (0 0, 1 1)", dataset.KindLines},
		{"poly.geojson", `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`, dataset.KindMesh},
		{"place.kml", `<kml><Placemark><Point><coordinates>5,6</coordinates></Point></Placemark></kml>`, dataset.KindPoints},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.name, tt.content)
			d, err := ld.Load(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, p, d.Label)
			assert.Equal(t, tt.kind, d.Kind)
			assert.True(t, d.Visible)
			assert.NotZero(t, d.ID)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	ld := New()
	ctx := context.Background()

	_, err := ld.Load(ctx, writeFile(t, dir, "a.shp", "x"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = ld.Load(ctx, writeFile(t, dir, "empty.geojson", `{"type":"FeatureCollection","features":[]}`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = ld.Load(ctx, filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ld.Load(cancelled, writeFile(t, dir, "ok.wkt", "POINT (1 1)"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, n := range []string{"c.wkt", "a.wkt", "bad.txt", "b.wkt"} {
		paths = append(paths, writeFile(t, dir, n, "POINT (1 2)"))
	}

	results := New(WithConcurrency(2)).LoadAll(context.Background(), paths, true)

	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		assert.True(t, r.Reloaded)
	}
	assert.ErrorIs(t, results[2].Err, ErrUnsupported)
	assert.Nil(t, results[2].Dataset)
	for _, i := range []int{0, 1, 3} {
		require.NoError(t, results[i].Err)
		assert.Equal(t, paths[i], results[i].Dataset.Label)
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("x/y.GeoJSON"))
	assert.True(t, Supported("a.wkt"))
	assert.False(t, Supported("a.shp"))
	assert.False(t, Supported("noext"))
}

func recv(t *testing.T, ch <-chan string, within time.Duration) (string, bool) {
	t.Helper()
	select {
	case p := <-ch:
		return p, true
	case <-time.After(within):
		return "", false
	}
}

func TestWatcherDebouncesTrackedWrites(t *testing.T) {
	dir := t.TempDir()
	tracked := writeFile(t, dir, "a.wkt", "POINT (1 1)")
	other := writeFile(t, dir, "b.wkt", "POINT (1 1)")

	w, err := NewWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)
	require.NoError(t, w.Track(tracked))
	require.NoError(t, w.Track(tracked))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(tracked, []byte("POINT (2 2)"), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("POINT (2 2)"), 0o644))

	p, ok := recv(t, w.Changes(), 2*time.Second)
	require.True(t, ok, "no change reported")
	abs, _ := filepath.Abs(tracked)
	assert.Equal(t, abs, p)

	_, ok = recv(t, w.Changes(), 300*time.Millisecond)
	assert.False(t, ok, "burst must collapse into one change")
}

func TestWatcherUntrack(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.csv", "lat,lon\n1,1\n")

	w, err := NewWatcher(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()
	go w.Run(context.Background())
	require.NoError(t, w.Track(p))
	w.Untrack(p)
	w.Untrack(p)

	require.NoError(t, os.WriteFile(p, []byte("lat,lon\n2,2\n"), 0o644))
	_, ok := recv(t, w.Changes(), 200*time.Millisecond)
	assert.False(t, ok)
}

func TestWatcherRearmReportsOnce(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.wkt", "POINT (1 1)")
	abs, _ := filepath.Abs(p)

	w, err := NewWatcher(30*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Track(p))

	for i := 0; i < 5; i++ {
		w.touch(abs)
		time.Sleep(10 * time.Millisecond)
	}
	got, ok := recv(t, w.Changes(), time.Second)
	require.True(t, ok)
	assert.Equal(t, abs, got)

	_, ok = recv(t, w.Changes(), 200*time.Millisecond)
	assert.False(t, ok)
}

func TestWatcherCloseClosesChanges(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.wkt", "POINT (1 1)")
	abs, _ := filepath.Abs(p)

	w, err := NewWatcher(time.Hour, nil)
	require.NoError(t, err)
	require.NoError(t, w.Track(p))
	w.touch(abs)

	closed := make(chan struct{})
	go func() {
		for range w.Changes() {
		}
		close(closed)
	}()
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Changes still open after Close")
	}
	// touching a closed watcher is ignored
	w.touch(abs)
}
