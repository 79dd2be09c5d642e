package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBuf is a w×h cell canvas with a 2x4 dot microgrid per cell.
// Each cell remembers which pen drew it last so datasets keep their colour.
type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	owner [][]int   // pen of the last dot set in each cell
	pen   int
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	owner := make([][]int, h)
	for i := range m {
		m[i] = make([]uint8, w)
		owner[i] = make([]int, w)
	}
	return &brailleBuf{w: w, h: h, m: m, owner: owner}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[rx][ry]
	b.owner[cy][cx] = b.pen
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// toLines renders each row, styling runs of cells by pen. The cell at
// (markX, markY), if inside the canvas, is replaced by mark.
func (b *brailleBuf) toLines(style func(pen int) lipgloss.Style, markX, markY int, mark string) []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		run := []rune{}
		runPen := -1
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runPen < 0 {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(style(runPen).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			if x == markX && y == markY {
				flush()
				sb.WriteString(mark)
				continue
			}
			r, pen := ' ', -1
			if mask := b.m[y][x]; mask != 0 {
				r, pen = rune(0x2800+int(mask)), b.owner[y][x]
			}
			if pen != runPen {
				flush()
				runPen = pen
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
