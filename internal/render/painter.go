//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"mad-sand/internal/world"
)

// GridPainter uploads a viewport of the world into an ebiten image and draws
// it scaled onto the screen.
type GridPainter struct {
	img *ebiten.Image
	buf []byte
	w   int
	h   int
}

// NewGridPainter allocates a painter for a w×h viewport.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		img: ebiten.NewImage(w, h),
		buf: make([]byte, 4*w*h),
		w:   w,
		h:   h,
	}
}

// Blit renders the cells visible through v onto dst at the given scale.
func (p *GridPainter) Blit(dst *ebiten.Image, w *world.World, v Viewport, palette []color.RGBA, bg color.RGBA, scale int) {
	if v.W != p.w || v.H != p.h {
		p.img = ebiten.NewImage(v.W, v.H)
		p.buf = make([]byte, 4*v.W*v.H)
		p.w, p.h = v.W, v.H
	}
	FillRGBA(p.buf, w, v, palette, bg)
	p.img.WritePixels(p.buf)

	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}
