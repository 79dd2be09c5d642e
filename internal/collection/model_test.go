package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"geomap/internal/dataset"
)

func TestData(t *testing.T) {
	c, _ := newWatched(t, "/data/a.geojson")
	d := c.At(0)

	assert.Equal(t, "a.geojson", c.Data(0, RoleDisplay))
	assert.Equal(t, "/data/a.geojson", c.Data(0, RoleLabel))
	assert.Equal(t, true, c.Data(0, RoleVisible))
	assert.Equal(t, dataset.KindPoints, c.Data(0, RoleKind))
	assert.Equal(t, d.ID, c.Data(0, RoleIdentity))
	assert.Contains(t, c.Data(0, RoleToolTip), "/data/a.geojson")

	assert.Nil(t, c.Data(1, RoleDisplay))
	assert.Nil(t, c.Data(-1, RoleVisible))
	assert.Panics(t, func() { c.Data(0, Role(99)) })
	assert.Panics(t, func() { c.Data(0, Role(-1)) })
}

func TestFlags(t *testing.T) {
	c, _ := newWatched(t, "a")
	f := c.Flags(0)
	assert.True(t, f.Has(FlagEnabled|FlagSelectable|FlagCheckable))
	assert.Equal(t, Flags(0), c.Flags(1))
}

func TestSetDataVisibility(t *testing.T) {
	c, r := newWatched(t, "a", "b")

	assert.True(t, c.SetData(1, false, RoleVisible))
	assert.False(t, c.At(1).Visible)
	assert.Equal(t, []Event{{Kind: DataChanged, First: 1, Last: 1}}, r.events)

	r.reset()
	assert.True(t, c.SetData(1, false, RoleVisible))
	assert.Empty(t, r.events, "unchanged value must not notify")
}

func TestSetDataRejects(t *testing.T) {
	c, r := newWatched(t, "a")
	d := c.At(0)

	assert.False(t, c.SetData(0, "renamed", RoleDisplay))
	assert.False(t, c.SetData(0, "renamed", RoleLabel))
	assert.False(t, c.SetData(0, dataset.ID(7), RoleIdentity))
	assert.False(t, c.SetData(0, dataset.KindMesh, RoleKind))
	assert.False(t, c.SetData(0, "yes", RoleVisible))
	assert.False(t, c.SetData(3, false, RoleVisible))
	assert.Panics(t, func() { c.SetData(0, true, Role(42)) })

	assert.Equal(t, "a", d.Label)
	assert.True(t, d.Visible)
	assert.Empty(t, r.events)
}
