// Package loader parses spatial files into datasets off the UI goroutine.
// It never touches a collection; callers hand results back to whichever
// goroutine owns one.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"geomap/internal/dataset"
	"geomap/internal/geom"
	"geomap/internal/logging"
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	// ErrEmpty means the file parsed but held no drawable geometry.
	ErrEmpty = errors.New("no geometry in file")
)

type decodeFunc func(path string) (geom.Data, error)

var decoders = map[string]decodeFunc{
	".geojson": geom.LoadGeo,
	".json":    geom.LoadGeo,
	".csv":     geom.LoadCSV,
	".kml":     geom.LoadKML,
	".wkt": func(p string) (geom.Data, error) {
		b, err := os.ReadFile(p)
		if err != nil {
			return geom.Data{}, err
		}
		return geom.ParseWKTData(string(b))
	},
}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Result is one finished load. Exactly one of Dataset and Err is set.
type Result struct {
	Path     string
	Reloaded bool
	Dataset  *dataset.Dataset
	Err      error
}

type Loader struct {
	log         *logrus.Entry
	concurrency int
}

type Option func(*Loader)

func WithLogger(l *logrus.Entry) Option { return func(ld *Loader) { ld.log = l } }

// WithConcurrency bounds parallel parses in LoadAll. Values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(ld *Loader) {
		if n < 1 {
			n = 1
		}
		ld.concurrency = n
	}
}

func New(opts ...Option) *Loader {
	ld := &Loader{concurrency: 4}
	for _, o := range opts {
		o(ld)
	}
	if ld.log == nil {
		ld.log = logging.NewLogger("loader")
	}
	return ld
}

// Load parses path into a new dataset labelled with the absolute path, so
// reloads match no matter how the file was named on the command line.
func (ld *Loader) Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	dec, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := dec(path)
	if errors.Is(err, geom.ErrNoGeometry) {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	// a cancelled load must not produce a dataset
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := dataset.New(path, data)
	ld.log.WithFields(logrus.Fields{
		"path": path,
		"id":   d.ID.String(),
		"kind": d.Kind.String(),
	}).Debug("parsed")
	return d, nil
}

// LoadAll loads paths concurrently and returns results in the order of
// paths. A failing file does not stop the others.
func (ld *Loader) LoadAll(ctx context.Context, paths []string, reloaded bool) []Result {
	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ld.concurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			d, err := ld.Load(gctx, p)
			results[i] = Result{Path: p, Reloaded: reloaded, Dataset: d, Err: err}
			if err != nil {
				ld.log.WithError(err).WithField("path", p).Warn("load failed")
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
