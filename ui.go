package main

import (
	"context"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/chase3718/lispboard/internal/lisp"
	"github.com/chase3718/lispboard/internal/view"
)

const (
	uiWidth   = 720
	uiHeight  = 560
	uiRowH    = 30
	uiNodeW   = 44
	uiNodeH   = 22
	uiMarginX = 12
	uiMarginY = 40
	uiNameW   = 56
)

var (
	uiBackground = color.RGBA{24, 26, 34, 255}
	uiNodeColor  = color.RGBA{58, 64, 84, 255}
	uiMainColor  = color.RGBA{120, 120, 140, 255}
	uiErrColor   = color.RGBA{160, 40, 40, 255}
)

// uiRegisterColors mirrors the terminal palette: one colour per register.
var uiRegisterColors = [lisp.NumRegisters]color.RGBA{
	{200, 60, 60, 255}, {60, 170, 80, 255}, {200, 180, 50, 255}, {60, 100, 200, 255},
	{170, 70, 170, 255}, {60, 170, 180, 255}, {230, 110, 100, 255}, {110, 210, 120, 255},
	{230, 210, 100, 255}, {100, 140, 230, 255}, {210, 110, 210, 255}, {100, 210, 220, 255},
	{230, 140, 40, 255}, {140, 90, 50, 255}, {150, 200, 60, 255}, {200, 200, 200, 255},
}

// WindowSink draws the latest projection: one row per register, a name box
// followed by one box per expression node and the result.
type WindowSink struct {
	ctx context.Context

	mu     sync.Mutex
	latest view.Projection
	have   bool
}

func NewWindowSink(ctx context.Context) *WindowSink {
	return &WindowSink{ctx: ctx}
}

func (w *WindowSink) Name() string { return "window" }

// Render stores p for the next frame. It is called from the engine goroutine.
func (w *WindowSink) Render(p view.Projection) error {
	w.mu.Lock()
	w.latest = p
	w.have = true
	w.mu.Unlock()
	return nil
}

func (w *WindowSink) snapshot() (view.Projection, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest, w.have
}

func (w *WindowSink) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (w *WindowSink) Draw(screen *ebiten.Image) {
	screen.Fill(uiBackground)
	p, ok := w.snapshot()
	if !ok {
		ebitenutil.DebugPrintAt(screen, "waiting for controller state", uiMarginX, 12)
		return
	}
	c := p.Controls
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("turn %d  binary %s = decimal %d", p.Seq, c.Binary, c.Opcode), uiMarginX, 12)

	for i, r := range p.Rows {
		y := uiMarginY + i*uiRowH
		nameColor := uiMainColor
		if i > 0 {
			nameColor = uiRegisterColors[(i-1)%len(uiRegisterColors)]
		}
		ebitenutil.DrawRect(screen, uiMarginX, float64(y), uiNameW-8, uiNodeH, nameColor)
		ebitenutil.DebugPrintAt(screen, r.Name, uiMarginX+6, y+4)

		x := uiMarginX + uiNameW
		for _, a := range r.Expression {
			ebitenutil.DrawRect(screen, float64(x), float64(y), uiNodeW-4, uiNodeH, uiNodeColor)
			ebitenutil.DebugPrintAt(screen, a.String(), x+6, y+4)
			x += uiNodeW
		}

		if r.OK() {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("= %d", *r.Result), x+4, y+4)
		} else {
			ebitenutil.DrawRect(screen, float64(x), float64(y), float64(uiWidth-x-uiMarginX), uiNodeH, uiErrColor)
			ebitenutil.DebugPrintAt(screen, r.Err, x+4, y+4)
		}
	}
}

func (w *WindowSink) Layout(outsideW, outsideH int) (int, int) {
	return uiWidth, uiHeight
}

// runWindow blocks on the ebiten game loop; it must be called from the main
// goroutine.
func runWindow(w *WindowSink) error {
	ebiten.SetWindowSize(uiWidth, uiHeight)
	ebiten.SetWindowTitle("lispboard")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(w); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
