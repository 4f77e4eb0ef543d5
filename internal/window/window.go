//go:build cgo

package window

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-sphere-tracer/pkg/controls"
	"github.com/df07/go-sphere-tracer/pkg/export"
	"github.com/df07/go-sphere-tracer/pkg/overlay"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// keyBindings maps camera actions to physical keys
var keyBindings = map[controls.Action][]ebiten.Key{
	controls.ActionForward:   {ebiten.KeyW},
	controls.ActionBackward:  {ebiten.KeyS},
	controls.ActionLeft:      {ebiten.KeyA},
	controls.ActionRight:     {ebiten.KeyD},
	controls.ActionUp:        {ebiten.KeySpace, ebiten.KeyE},
	controls.ActionDown:      {ebiten.KeyShiftLeft, ebiten.KeyQ},
	controls.ActionPitchUp:   {ebiten.KeyArrowUp},
	controls.ActionPitchDown: {ebiten.KeyArrowDown},
	controls.ActionYawLeft:   {ebiten.KeyArrowLeft},
	controls.ActionYawRight:  {ebiten.KeyArrowRight},
}

// Run opens the window and renders s until the window is closed, Escape is
// pressed or ctx is done. It blocks and must be called from the main goroutine.
func Run(ctx context.Context, s *scene.Scene, pr *renderer.ProgressiveRaytracer, opts Options) error {
	opts = opts.normalize()
	width, height := s.GetCamera().Size()

	g := &game{
		ctx:      ctx,
		scene:    s,
		pr:       pr,
		opts:     opts,
		overlay:  overlay.New(),
		lastDraw: time.Now(),
	}
	if e := opts.Exporter; e != nil {
		g.screenshots = export.NextIndex(e.Dir, e.Prefix, e.Format) - 1
	}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(width*opts.Scale, height*opts.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.TPS)

	opts.Logger.Printf("Opening %dx%d window (scale %d)\n", width, height, opts.Scale)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

type game struct {
	ctx     context.Context
	scene   *scene.Scene
	pr      *renderer.ProgressiveRaytracer
	opts    Options
	overlay *overlay.Overlay

	img  *ebiten.Image
	rgba []byte

	lastDraw    time.Time
	frameTime   time.Duration
	stats       renderer.RenderStats
	lastUpdate  time.Time
	dragging    bool
	lastCursorX int
	lastCursorY int
	screenshots int // Numbers exported screenshots
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.opts.ShowOverlay = !g.opts.ShowOverlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.screenshot()
	}

	g.applyReload()

	state := g.pollInput()
	if controls.Apply(g.scene.GetCamera(), controls.Commands(g.opts.Controls, state)) {
		g.pr.Reset()
	}
	return nil
}

// pollInput gathers the keys and mouse drag of this tick
func (g *game) pollInput() controls.InputState {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.lastUpdate.IsZero() {
		dt = min(now.Sub(g.lastUpdate).Seconds(), 0.1)
	}
	g.lastUpdate = now

	state := controls.InputState{
		Active:       make(map[controls.Action]bool, len(keyBindings)),
		DeltaSeconds: dt,
	}
	for action, keys := range keyBindings {
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				state.Active[action] = true
			}
		}
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			// Cursor coordinates are in rendered pixels; scale back to screen pixels
			state.MouseDX = float64((x - g.lastCursorX) * g.opts.Scale)
			state.MouseDY = float64((y - g.lastCursorY) * g.opts.Scale)
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastCursorX, g.lastCursorY = x, y

	return state
}

// applyReload swaps in the newest object list and accumulation setting from
// the watchers, if any. Nil channels never become ready.
func (g *game) applyReload() {
	for {
		select {
		case objects := <-g.opts.Reload:
			g.scene.ReplaceObjects(objects)
			g.pr.Reset()
			g.opts.Logger.Printf("Reloaded scene with %d objects\n", len(objects))
		case accumulate := <-g.opts.Accumulate:
			g.pr.SetAccumulate(accumulate)
		default:
			return
		}
	}
}

func (g *game) screenshot() {
	if g.opts.Exporter == nil {
		return
	}
	width, height := g.scene.GetCamera().Size()
	fb := renderer.NewFramebuffer(width, height)
	copy(fb.Pix, g.currentPixels(width, height))

	g.screenshots++
	if _, err := g.opts.Exporter.ExportAndShow(g.ctx, fb, g.screenshots); err != nil {
		g.opts.Logger.Printf("Warning: screenshot failed: %v\n", err)
	}
}

// currentPixels returns the last presented frame as RGB bytes
func (g *game) currentPixels(width, height int) []byte {
	rgb := make([]byte, 3*width*height)
	for i, j := 0, 0; i+2 < len(rgb) && j+3 < len(g.rgba); i, j = i+3, j+4 {
		rgb[i], rgb[i+1], rgb[i+2] = g.rgba[j], g.rgba[j+1], g.rgba[j+2]
	}
	return rgb
}

func (g *game) Draw(screen *ebiten.Image) {
	fb, stats := g.pr.RenderPass()
	g.stats = stats

	now := time.Now()
	g.frameTime = now.Sub(g.lastDraw)
	g.lastDraw = now

	if g.opts.ShowOverlay {
		// The next pass rewrites every pixel, so drawing onto fb is safe
		status := overlay.Status{
			FrameTime: g.frameTime,
			Position:  g.scene.GetCamera().Position(),
			Stats:     g.stats,
		}
		g.overlay.Draw(fb, status.Lines())
	}

	if g.img == nil || g.img.Bounds().Dx() != fb.Width || g.img.Bounds().Dy() != fb.Height {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(fb.Width, fb.Height)
		g.rgba = make([]byte, 4*fb.Width*fb.Height)
	}

	fb.CopyRGBA(g.rgba)
	g.img.WritePixels(g.rgba)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.scene.GetCamera().Size()
}
