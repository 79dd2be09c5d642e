package geom

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a non-degenerate extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Union returns the smallest box covering both b and o.
func (b BBox) Union(o BBox) BBox {
	if o.MinX < b.MinX {
		b.MinX = o.MinX
	}
	if o.MinY < b.MinY {
		b.MinY = o.MinY
	}
	if o.MaxX > b.MaxX {
		b.MaxX = o.MaxX
	}
	if o.MaxY > b.MaxY {
		b.MaxY = o.MaxY
	}
	return b
}

// Data is a minimal geometry container for rendering
type Data struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
	BBox     BBox

	// number of vertices folded into BBox so far
	extent int
}

// Empty reports whether no geometry was collected.
func (d *Data) Empty() bool {
	return len(d.Points) == 0 && len(d.Lines) == 0 && len(d.Polygons) == 0
}

// extend grows the bbox to include pt. The first vertex seeds the box.
func (d *Data) extend(pt [2]float64) {
	if d.extent == 0 {
		d.BBox = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	} else {
		d.BBox = d.BBox.Union(BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]})
	}
	d.extent++
}

func (d *Data) addPoint(pt [2]float64) {
	d.Points = append(d.Points, pt)
	d.extend(pt)
}

// addLine keeps line vertices in Points too so inspect and hover can snap to them.
func (d *Data) addLine(ls [][2]float64) {
	d.Lines = append(d.Lines, ls)
	for _, p := range ls {
		d.addPoint(p)
	}
}

func (d *Data) addPolygon(poly [][][2]float64) {
	d.Polygons = append(d.Polygons, poly)
	for _, ring := range poly {
		for _, p := range ring {
			d.addPoint(p)
		}
	}
}
