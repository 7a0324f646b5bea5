package render

import (
	"image/color"

	"mad-sand/internal/core"
	"mad-sand/internal/world"
)

// Unknown marks cells whose material id has no palette entry.
var Unknown = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// Viewport is a W×H window onto the world. Origin is the world position shown
// at the bottom-left pixel; pixel rows grow downward while world Y grows up.
type Viewport struct {
	Origin core.Pos
	W, H   int
}

// Centered returns a w×h viewport centered on c.
func Centered(c core.Pos, w, h int) Viewport {
	return Viewport{Origin: c.Add(-int32(w/2), -int32(h/2)), W: w, H: h}
}

// Pan returns the viewport shifted by (dx, dy) world cells.
func (v Viewport) Pan(dx, dy int32) Viewport {
	v.Origin = v.Origin.Add(dx, dy)
	return v
}

// CellAt returns the world position under pixel (px, py).
func (v Viewport) CellAt(px, py int) core.Pos {
	return v.Origin.Add(int32(px), int32(v.H-1-py))
}

// PixelOf returns the pixel showing p and whether p lies inside the viewport.
func (v Viewport) PixelOf(p core.Pos) (px, py int, ok bool) {
	dx := int(p.X - v.Origin.X)
	dy := int(p.Y - v.Origin.Y)
	if dx < 0 || dx >= v.W || dy < 0 || dy >= v.H {
		return 0, 0, false
	}
	return dx, v.H - 1 - dy, true
}

// overlaps reports whether any cell of chunk cp is inside v.
func (v Viewport) overlaps(cp core.ChunkPos) bool {
	o := cp.Origin()
	return int64(o.X)+core.ChunkSize > int64(v.Origin.X) &&
		int64(o.X) < int64(v.Origin.X)+int64(v.W) &&
		int64(o.Y)+core.ChunkSize > int64(v.Origin.Y) &&
		int64(o.Y) < int64(v.Origin.Y)+int64(v.H)
}

// FillRGBA paints the cells visible through v into buf (4 bytes per pixel,
// row-major, v.W*v.H pixels). Empty cells get bg; ids past the end of the
// palette get Unknown.
func FillRGBA(buf []byte, w *world.World, v Viewport, palette []color.RGBA, bg color.RGBA) {
	n := v.W * v.H
	for i := 0; i < n; i++ {
		base := i * 4
		buf[base+0] = bg.R
		buf[base+1] = bg.G
		buf[base+2] = bg.B
		buf[base+3] = bg.A
	}

	for cp, ch := range w.Chunks() {
		if !v.overlaps(cp) {
			continue
		}
		origin := cp.Origin()
		ch.Each(func(i int, ref world.CellRef) {
			l := core.IndexToLocal(i)
			px, py, ok := v.PixelOf(origin.Add(int32(l.X), int32(l.Y)))
			if !ok {
				return
			}
			col := Unknown
			if idx := int(ref.Material); idx > 0 && idx < len(palette) {
				col = palette[idx]
			}
			base := (py*v.W + px) * 4
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		})
	}
}

// ChunkLines returns the pixel columns and rows where chunk boundaries cross v.
func ChunkLines(v Viewport) (cols, rows []int) {
	for x := 0; x < v.W; x++ {
		if core.Mod(v.Origin.X+int32(x), core.ChunkSize) == 0 {
			cols = append(cols, x)
		}
	}
	for y := 0; y < v.H; y++ {
		if core.Mod(v.Origin.Y+int32(y), core.ChunkSize) == 0 {
			// The boundary sits under the chunk's first row.
			rows = append(rows, v.H-1-y)
		}
	}
	return cols, rows
}

// Fit returns a w×h viewport centered on the occupied cells, or on the
// origin when the world is empty.
func Fit(wd *world.World, w, h int) Viewport {
	var lo, hi core.Pos
	found := false
	for cp, ch := range wd.Chunks() {
		origin := cp.Origin()
		ch.Each(func(i int, _ world.CellRef) {
			l := core.IndexToLocal(i)
			p := origin.Add(int32(l.X), int32(l.Y))
			if !found {
				lo, hi, found = p, p, true
				return
			}
			lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
			hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
		})
	}
	if !found {
		return Centered(core.Pos{}, w, h)
	}
	mid := core.Pos{
		X: int32((int64(lo.X) + int64(hi.X)) / 2),
		Y: int32((int64(lo.Y) + int64(hi.Y)) / 2),
	}
	return Centered(mid, w, h)
}
