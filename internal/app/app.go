//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mad-sand/internal/core"
	"mad-sand/internal/render"
	"mad-sand/internal/sims/sand"
	"mad-sand/internal/ui"
)

const hudWidth = 220

var background = color.RGBA{R: 12, G: 12, B: 16, A: 255}

// Game adapts a sand simulation to the ebiten.Game interface.
type Game struct {
	sim     *sand.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	clock   *core.FixedStep

	view   render.Viewport
	scale  int
	seed   int64
	cursor core.Pos
	hover  bool
}

// New constructs a Game showing a w×h cell viewport of sim.
func New(sim *sand.Sim, w, h, scale, tps int, seed int64) *Game {
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(w, h),
		overlay: ui.NewOverlay(scale),
		hud:     ui.NewHUD(sim, hudWidth),
		clock:   core.NewFixedStep(tps),
		view:    render.Fit(sim.World(), w, h),
		scale:   scale,
		seed:    seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sim.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.sim.SetPaused(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.sim.CycleBrush(-1)
		} else {
			g.sim.CycleBrush(1)
		}
	}
	g.pan()
	g.pointer()

	g.overlay.Update()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.sim.Advance()
	case g.clock.ShouldStep(time.Now()):
		g.sim.Step()
	}

	hover := ""
	if g.hover {
		hover = fmt.Sprintf("(%d,%d) %s", g.cursor.X, g.cursor.Y, g.sim.Inspect(g.cursor))
	}
	g.hud.Update(hover)
	return nil
}

func (g *Game) pan() {
	step := int32(2)
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		step = 10
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.view = g.view.Pan(-step, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.view = g.view.Pan(step, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.view = g.view.Pan(0, step)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.view = g.view.Pan(0, -step)
	}
}

func (g *Game) pointer() {
	mx, my := ebiten.CursorPosition()
	px, py := mx/g.scale, my/g.scale
	g.hover = mx >= 0 && my >= 0 && px < g.view.W && py < g.view.H
	if !g.hover {
		return
	}
	g.cursor = g.view.CellAt(px, py)
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.sim.Paint(g.cursor)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		g.sim.Remove(g.cursor)
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.World(), g.view, g.sim.Registry().Palette(), background, g.scale)
	g.overlay.Draw(screen, g.view, g.cursor, ui.StatusLine(g.sim.Parameters(), ""))
	g.hud.Draw(screen, g.view.W*g.scale, g.view.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.view.W*g.scale + g.hud.Width(), g.view.H * g.scale
}
