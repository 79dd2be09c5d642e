// Package dataset defines the handle shared between the loader, the
// geometry collection and the renderer for one loaded spatial dataset.
package dataset

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"geomap/internal/geom"
)

// ID identifies a dataset for its whole lifetime, independent of where it
// sits in any collection. The zero ID is never assigned.
type ID uint64

func (id ID) String() string { return "#" + strconv.FormatUint(uint64(id), 10) }

var lastID atomic.Uint64

// NextID returns a fresh identity. Safe to call from loader goroutines.
func NextID() ID { return ID(lastID.Add(1)) }

// Kind is used for display only.
type Kind int

const (
	KindPoints Kind = iota
	KindLines
	KindMesh // polygon surfaces
)

func (k Kind) String() string {
	switch k {
	case KindPoints:
		return "points"
	case KindLines:
		return "lines"
	case KindMesh:
		return "mesh"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Glyph is the one-rune icon shown next to the dataset in list views.
func (k Kind) Glyph() string {
	switch k {
	case KindLines:
		return "╱"
	case KindMesh:
		return "▰"
	}
	return "•"
}

// KindOf classifies data by its richest geometry.
func KindOf(d geom.Data) Kind {
	switch {
	case len(d.Polygons) > 0:
		return KindMesh
	case len(d.Lines) > 0:
		return KindLines
	}
	return KindPoints
}

// Dataset is a loaded dataset plus its display metadata. Handles are shared
// by pointer; nothing but Visible changes after construction.
type Dataset struct {
	ID      ID
	Label   string
	Kind    Kind
	Visible bool
	Data    geom.Data
}

// New wraps freshly parsed data with a new identity. Datasets start visible.
func New(label string, data geom.Data) *Dataset {
	return &Dataset{
		ID:      NextID(),
		Label:   label,
		Kind:    KindOf(data),
		Visible: true,
		Data:    data,
	}
}

// Summary is a one-line description used for tool tips and headless output.
func (d *Dataset) Summary() string {
	return fmt.Sprintf("%s %s pts=%d ls=%d poly=%d", d.ID, d.Kind, len(d.Data.Points), len(d.Data.Lines), len(d.Data.Polygons))
}
