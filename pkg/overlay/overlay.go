// Package overlay draws status text onto a rendered framebuffer.
package overlay

import (
	"fmt"
	"image/color"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

var (
	// TextColor is the foreground color of overlay text
	TextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// ShadowColor is drawn one pixel down-right of the text
	ShadowColor = color.RGBA{A: 255}
)

// Target adapts a framebuffer to the drivers.Displayer interface used by tinyfont
type Target struct {
	fb *renderer.Framebuffer
}

var _ drivers.Displayer = (*Target)(nil)

// NewTarget wraps fb
func NewTarget(fb *renderer.Framebuffer) *Target {
	return &Target{fb: fb}
}

// Size returns the framebuffer dimensions
func (t *Target) Size() (x, y int16) {
	if t.fb == nil {
		return 0, 0
	}
	return int16(t.fb.Width), int16(t.fb.Height)
}

// SetPixel writes one pixel; out-of-range coordinates are ignored
func (t *Target) SetPixel(x, y int16, c color.RGBA) {
	if t.fb == nil {
		return
	}
	t.fb.SetRGB(int(x), int(y), c.R, c.G, c.B)
}

// Display is a no-op; the window presents the framebuffer itself
func (t *Target) Display() error {
	return nil
}

// fontHeight is the line pitch used for TinySZ 8pt
const fontHeight = 10

// Overlay writes lines of text in the top-left corner
type Overlay struct {
	font       tinyfont.Fonter
	lineHeight int16
	margin     int16
	shadow     bool
}

// New creates an overlay using the proggy TinySZ 8pt font
func New() *Overlay {
	return &Overlay{
		font:       &proggy.TinySZ8pt7b,
		lineHeight: fontHeight,
		margin:     4,
		shadow:     true,
	}
}

// LineHeight returns the vertical distance between text baselines
func (o *Overlay) LineHeight() int16 {
	return o.lineHeight
}

// Draw writes lines onto fb, one per row
func (o *Overlay) Draw(fb *renderer.Framebuffer, lines []string) {
	target := NewTarget(fb)
	for i, line := range lines {
		x := o.margin
		y := o.margin + int16(i+1)*o.lineHeight
		if o.shadow {
			tinyfont.WriteLine(target, o.font, x+1, y+1, line, ShadowColor)
		}
		tinyfont.WriteLine(target, o.font, x, y, line, TextColor)
	}
}

// TextWidth returns the pixel width of s in the overlay font
func (o *Overlay) TextWidth(s string) int {
	_, outboxWidth := tinyfont.LineWidth(o.font, s)
	return int(outboxWidth)
}

// Status is what the interactive view reports each frame
type Status struct {
	FrameTime time.Duration
	Position  core.Vec3
	Stats     renderer.RenderStats
}

// Lines formats status as overlay text
func (s Status) Lines() []string {
	fps := 0.0
	if s.FrameTime > 0 {
		fps = 1 / s.FrameTime.Seconds()
	}
	return []string{
		fmt.Sprintf("%.1f fps  %.1f ms", fps, float64(s.FrameTime.Microseconds())/1000),
		fmt.Sprintf("pos %.2f %.2f %.2f", s.Position.X, s.Position.Y, s.Position.Z),
		fmt.Sprintf("spp %d", s.Stats.SamplesPerPixel),
	}
}
