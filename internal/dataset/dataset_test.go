package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"geomap/internal/geom"
)

func TestNewAssignsDistinctIdentities(t *testing.T) {
	seen := map[ID]bool{}
	for i := 0; i < 100; i++ {
		d := New("a.wkt", geom.Data{})
		assert.NotZero(t, d.ID)
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.True(t, d.Visible)
	}
}

func TestKindOf(t *testing.T) {
	pt := [2]float64{1, 1}
	assert.Equal(t, KindPoints, KindOf(geom.Data{Points: [][2]float64{pt}}))
	assert.Equal(t, KindLines, KindOf(geom.Data{Lines: [][][2]float64{{pt, pt}}}))
	assert.Equal(t, KindMesh, KindOf(geom.Data{
		Lines:    [][][2]float64{{pt, pt}},
		Polygons: [][][][2]float64{{{pt, pt, pt}}},
	}))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "#42", ID(42).String())
	assert.Equal(t, "mesh", KindMesh.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
