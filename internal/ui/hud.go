//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"mad-sand/internal/core"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

const hudLineHeight = 14

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	src        parameterProvider
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []string
	hover      string
}

// NewHUD constructs a HUD for the provided source and panel width.
func NewHUD(src parameterProvider, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{src: src, width: width}
}

// Width reports the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached parameter rows and the hover description.
func (h *HUD) Update(hover string) {
	if h == nil {
		return
	}
	h.lines = Lines(h.src.Parameters())
	h.hover = hover
}

// Draw paints the HUD panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	y := hudLineHeight
	for _, line := range h.lines {
		text.Draw(h.panel, line, basicfont.Face7x13, 8, y, color.White)
		y += hudLineHeight
	}
	if h.hover != "" {
		y += hudLineHeight / 2
		text.Draw(h.panel, h.hover, basicfont.Face7x13, 8, y, color.RGBA{R: 200, G: 200, B: 120, A: 255})
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
