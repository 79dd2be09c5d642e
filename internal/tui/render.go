package tui

import (
	"sort"
	"strings"

	"geomap/internal/dataset"
	"geomap/internal/geom"
)

// viewport maps lon/lat to screen cells for one frame.
type viewport struct {
	bbox       geom.BBox
	zoom       float64
	offX, offY int
	w, h       int
}

// viewport frames the union of the visible datasets. ok is false when
// nothing is visible.
func (m Model) viewport(w, h int) (vp viewport, ok bool) {
	for _, d := range m.coll.Get() {
		if !d.Visible {
			continue
		}
		if !ok {
			vp.bbox, ok = d.Data.BBox, true
		} else {
			vp.bbox = vp.bbox.Union(d.Data.BBox)
		}
	}
	if !ok {
		return viewport{}, false
	}
	// a single point or an axis-aligned line still needs an extent
	if vp.bbox.MaxX <= vp.bbox.MinX {
		vp.bbox.MinX -= 0.5
		vp.bbox.MaxX += 0.5
	}
	if vp.bbox.MaxY <= vp.bbox.MinY {
		vp.bbox.MinY -= 0.5
		vp.bbox.MaxY += 0.5
	}
	vp.zoom, vp.offX, vp.offY, vp.w, vp.h = m.zoom, m.offsetX, m.offsetY, w, h
	return vp, true
}

func (vp viewport) normalized(lon, lat float64) (zx, zy float64) {
	nx := (lon - vp.bbox.MinX) / (vp.bbox.MaxX - vp.bbox.MinX)
	ny := (lat - vp.bbox.MinY) / (vp.bbox.MaxY - vp.bbox.MinY)
	// zoom around center (0.5, 0.5)
	return 0.5 + (nx-0.5)*vp.zoom, 0.5 + (ny-0.5)*vp.zoom
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (vp viewport) screenXYMicro(lon, lat float64) (int, int) {
	zx, zy := vp.normalized(lon, lat)
	sx := int(zx*float64(vp.w*2-1)) + vp.offX*2
	sy := int((1.0-zy)*float64(vp.h*4-1)) + vp.offY*4
	return sx, sy
}

// cellToLonLat converts a map cell coordinate back to lon/lat.
func (vp viewport) cellToLonLat(cx, cy int) (float64, float64, bool) {
	if vp.w <= 1 || vp.h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-vp.offX) / float64(vp.w-1)
	zy := 1.0 - float64(cy-vp.offY)/float64(vp.h-1)
	nx := 0.5 + (zx-0.5)/vp.zoom
	ny := 0.5 + (zy-0.5)/vp.zoom
	lon := vp.bbox.MinX + nx*(vp.bbox.MaxX-vp.bbox.MinX)
	lat := vp.bbox.MinY + ny*(vp.bbox.MaxY-vp.bbox.MinY)
	return lon, lat, true
}

// renderAsciiMap composites every visible dataset in collection order, so
// later rows draw over earlier ones.
func (m Model) renderAsciiMap(w, h int) string {
	br := newBrailleBuf(w, h)
	if vp, ok := m.viewport(w, h); ok {
		for row, d := range m.coll.Get() {
			if !d.Visible {
				continue
			}
			br.pen = row
			m.drawDataset(br, vp, d)
		}
	}
	markX, markY := -1, -1
	if m.hovering {
		markX, markY = m.hoverMicX/2, m.hoverMicY/4
	}
	return strings.Join(br.toLines(penStyle, markX, markY, hoverMark), "\n")
}

func (m Model) drawDataset(br *brailleBuf, vp viewport, d *dataset.Dataset) {
	data := d.Data
	if m.showPolys {
		for _, poly := range data.Polygons {
			var rings [][][2]int
			for _, ring := range poly {
				var sm [][2]int
				for _, p := range ring {
					mx, my := vp.screenXYMicro(p[0], p[1])
					sm = append(sm, [2]int{mx, my})
				}
				if len(sm) >= 3 {
					rings = append(rings, sm)
				}
			}
			if len(rings) == 0 {
				continue
			}
			fillEvenOdd(br, rings, vp.h*4)
			for _, r := range rings {
				for i := range r {
					a, b := r[i], r[(i+1)%len(r)]
					br.drawLineMicro(a[0], a[1], b[0], b[1])
				}
			}
		}
	}
	if m.showLines {
		for _, ls := range data.Lines {
			var prev *[2]int
			for _, p := range ls {
				mx, my := vp.screenXYMicro(p[0], p[1])
				if prev != nil {
					br.drawLineMicro(prev[0], prev[1], mx, my)
				}
				prev = &[2]int{mx, my}
			}
		}
	}
	// Points also hold line and polygon vertices; draw them only for point datasets.
	if m.showPoints && d.Kind == dataset.KindPoints {
		for _, p := range data.Points {
			br.setPixel(vp.screenXYMicro(p[0], p[1]))
		}
	}
}

// fillEvenOdd fills a polygon per microgrid scanline. Crossings of all
// rings are combined, so holes stay empty.
func fillEvenOdd(br *brailleBuf, rings [][][2]int, hMic int) {
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for _, ring := range rings {
			for i := range ring {
				a, b := ring[i], ring[(i+1)%len(ring)]
				if a[1] == b[1] { // horizontal edge: skip
					continue
				}
				y0, y1 := a[1], b[1]
				x0, x1 := a[0], b[0]
				if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
					t := float64(yMic-y0) / float64(y1-y0)
					xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= xs[i+1]; xMic++ {
				br.setPixel(xMic, yMic)
			}
		}
	}
}

// nearestVertex returns the vertex of a visible dataset closest to the
// microgrid position (hx, hy), with its micro coordinates.
func (m Model) nearestVertex(vp viewport, hx, hy int) (pt [2]float64, mx, my int, d *dataset.Dataset, found bool) {
	best := 1<<31 - 1
	for _, ds := range m.coll.Get() {
		if !ds.Visible {
			continue
		}
		for _, p := range ds.Data.Points {
			x, y := vp.screenXYMicro(p[0], p[1])
			dx, dy := x-hx, y-hy
			if dist := dx*dx + dy*dy; dist < best {
				best, pt, mx, my, d, found = dist, p, x, y, ds, true
			}
		}
	}
	return pt, mx, my, d, found
}
