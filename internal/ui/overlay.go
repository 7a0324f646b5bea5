//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mad-sand/internal/core"
	"mad-sand/internal/render"
)

// Overlay draws optional debugging visuals on top of the world view.
type Overlay struct {
	scale      int
	showChunks bool
	showCursor bool
	pixel      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{scale: scale, showCursor: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers: 1 for chunk boundaries, 2 for the cursor box.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showChunks = !o.showChunks
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showCursor = !o.showCursor
	}
}

// Draw renders the enabled layers for viewport v. cursor is the hovered cell.
func (o *Overlay) Draw(screen *ebiten.Image, v render.Viewport, cursor core.Pos, status string) {
	s := float64(o.scale)
	if o.showChunks {
		line := color.RGBA{R: 80, G: 80, B: 110, A: 160}
		cols, rows := render.ChunkLines(v)
		for _, x := range cols {
			o.rect(screen, float64(x)*s, 0, 1, float64(v.H)*s, line)
		}
		for _, y := range rows {
			// Chunk rows start at the bottom edge of their first pixel row.
			o.rect(screen, 0, float64(y+1)*s-1, float64(v.W)*s, 1, line)
		}
	}
	if o.showCursor {
		if px, py, ok := v.PixelOf(cursor); ok {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 90}
			o.rect(screen, float64(px)*s, float64(py)*s, s, s, c)
		}
	}
	if status != "" {
		ebitenutil.DebugPrint(screen, status)
	}
}

func (o *Overlay) rect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
