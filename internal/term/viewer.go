// Package term renders a sand simulation in a terminal with tcell. Each
// screen cell shows one world cell; the last row is a status line.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"mad-sand/internal/core"
	"mad-sand/internal/render"
	"mad-sand/internal/sims/sand"
	"mad-sand/internal/ui"
)

const frameInterval = 16 * time.Millisecond

// Viewer draws a simulation onto a tcell screen and maps keys and mouse
// events to simulation requests.
type Viewer struct {
	screen tcell.Screen
	sim    *sand.Sim
	log    *zap.Logger
	clock  *core.FixedStep

	view   render.Viewport
	cursor core.Pos
	seed   int64
	styles []tcell.Style
}

// New returns a viewer for sim on an initialized screen.
func New(screen tcell.Screen, sim *sand.Sim, tps int, seed int64, log *zap.Logger) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	v := &Viewer{
		screen: screen,
		sim:    sim,
		log:    log,
		clock:  core.NewFixedStep(tps),
		seed:   seed,
	}
	for _, c := range sim.Registry().Palette() {
		v.styles = append(v.styles, tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))))
	}
	w, h := screen.Size()
	v.view = render.Fit(sim.World(), w, max(h-1, 1))
	v.cursor = v.view.CellAt(v.view.W/2, v.view.H/2)
	return v
}

// Viewport returns the window currently shown.
func (v *Viewer) Viewport() render.Viewport { return v.view }

// Cursor returns the world position under the keyboard cursor.
func (v *Viewer) Cursor() core.Pos { return v.cursor }

func (v *Viewer) style(id core.MaterialID) tcell.Style {
	if int(id) > 0 && int(id) < len(v.styles) {
		return v.styles[id]
	}
	u := render.Unknown
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(u.R), int32(u.G), int32(u.B)))
}

// Draw paints the visible world, the cursor and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w := v.sim.World()
	for py := 0; py < v.view.H; py++ {
		for px := 0; px < v.view.W; px++ {
			ref, ok := w.Get(v.view.CellAt(px, py))
			if !ok {
				continue
			}
			v.screen.SetContent(px, py, '█', nil, v.style(ref.Material))
		}
	}
	if px, py, ok := v.view.PixelOf(v.cursor); ok {
		r, _, st, _ := v.screen.GetContent(px, py)
		if r == ' ' || r == 0 {
			r = '+'
		}
		v.screen.SetContent(px, py, r, nil, st.Reverse(true))
	}

	hover := fmt.Sprintf("(%d,%d) %s", v.cursor.X, v.cursor.Y, v.sim.Inspect(v.cursor))
	status := ui.StatusLine(v.sim.Parameters(), hover)
	row := v.view.H
	sw, _ := v.screen.Size()
	x := 0
	for _, r := range status {
		if x >= sw {
			break
		}
		v.screen.SetContent(x, row, r, nil, tcell.StyleDefault.Reverse(true))
		x++
	}
	v.screen.Show()
}

// Resize refits the viewport to the screen, keeping its bottom-left corner.
func (v *Viewer) Resize() {
	w, h := v.screen.Size()
	v.view.W, v.view.H = w, max(h-1, 1)
}

// Key applies one key press and reports whether the viewer should keep running.
func (v *Viewer) Key(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.moveCursor(0, 1)
	case tcell.KeyDown:
		v.moveCursor(0, -1)
	case tcell.KeyLeft:
		v.moveCursor(-1, 0)
	case tcell.KeyRight:
		v.moveCursor(1, 0)
	case tcell.KeyTab:
		v.sim.CycleBrush(1)
	case tcell.KeyBacktab:
		v.sim.CycleBrush(-1)
	case tcell.KeyEnter:
		v.sim.Paint(v.cursor)
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		v.sim.Remove(v.cursor)
	case tcell.KeyRune:
		return v.rune(r)
	}
	return true
}

func (v *Viewer) rune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		v.sim.TogglePause()
	case 'n':
		v.sim.Advance()
	case 'r':
		v.sim.Reset(v.seed)
	case 'p':
		v.sim.Paint(v.cursor)
	case 'x':
		v.sim.Remove(v.cursor)
	case 'h':
		v.view = v.view.Pan(-4, 0)
	case 'l':
		v.view = v.view.Pan(4, 0)
	case 'k':
		v.view = v.view.Pan(0, 4)
	case 'j':
		v.view = v.view.Pan(0, -4)
	}
	return true
}

func (v *Viewer) moveCursor(dx, dy int32) {
	v.cursor = v.cursor.Add(dx, dy)
	if _, _, ok := v.view.PixelOf(v.cursor); !ok {
		v.view = v.view.Pan(dx, dy)
	}
}

// Mouse paints with the left button and removes with the right one.
func (v *Viewer) Mouse(x, y int, buttons tcell.ButtonMask) {
	if x < 0 || y < 0 || x >= v.view.W || y >= v.view.H {
		return
	}
	v.cursor = v.view.CellAt(x, y)
	switch {
	case buttons&tcell.Button1 != 0:
		v.sim.Paint(v.cursor)
	case buttons&tcell.Button2 != 0:
		v.sim.Remove(v.cursor)
	}
}

// Handle dispatches a tcell event and reports whether to keep running.
func (v *Viewer) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.Key(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		v.Mouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		v.Resize()
		v.screen.Sync()
	}
	return true
}

// Run polls events and redraws until the user quits or ctx is done. Ticks
// follow the configured rate; frames are drawn about 60 times per second.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	v.log.Info("terminal viewer started", zap.String("sim", v.sim.Name()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !v.Handle(ev) {
				v.log.Info("terminal viewer stopped", zap.Int("ticks", v.sim.Ticks()))
				return nil
			}
		case now := <-ticker.C:
			if v.clock.ShouldStep(now) {
				v.sim.Step()
			}
			v.Draw()
		}
	}
}
