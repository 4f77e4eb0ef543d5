package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

func countLit(fb *renderer.Framebuffer) int {
	n := 0
	for i := 0; i < len(fb.Pix); i += 3 {
		if fb.Pix[i] != 0 || fb.Pix[i+1] != 0 || fb.Pix[i+2] != 0 {
			n++
		}
	}
	return n
}

func TestTargetSize(t *testing.T) {
	w, h := NewTarget(renderer.NewFramebuffer(40, 20)).Size()
	assert.Equal(t, int16(40), w)
	assert.Equal(t, int16(20), h)

	w, h = NewTarget(nil).Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestTargetSetPixel(t *testing.T) {
	fb := renderer.NewFramebuffer(4, 4)
	target := NewTarget(fb)

	target.SetPixel(1, 2, TextColor)
	target.SetPixel(-1, 0, TextColor)
	target.SetPixel(4, 4, TextColor)

	r, g, b := fb.RGB(1, 2)
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r, g, b})
	assert.Equal(t, 1, countLit(fb))
	assert.NoError(t, target.Display())
}

func TestDrawWritesText(t *testing.T) {
	fb := renderer.NewFramebuffer(160, 60)
	o := New()

	o.Draw(fb, []string{"60.0 fps"})
	assert.Positive(t, countLit(fb), "text should light some pixels")

	// Nothing below the first line's area
	for y := int(4 + 2*o.LineHeight()); y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.RGB(x, y)
			assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b}, "pixel (%d,%d)", x, y)
		}
	}
}

func TestDrawNoLines(t *testing.T) {
	fb := renderer.NewFramebuffer(32, 32)
	New().Draw(fb, nil)
	assert.Zero(t, countLit(fb))
}

func TestDrawClipsToSmallFramebuffer(t *testing.T) {
	fb := renderer.NewFramebuffer(3, 3)
	assert.NotPanics(t, func() {
		New().Draw(fb, []string{"a long line that does not fit"})
	})
}

func TestTextWidth(t *testing.T) {
	o := New()
	assert.Zero(t, o.TextWidth(""))
	assert.Greater(t, o.TextWidth("abcd"), o.TextWidth("ab"))
}

func TestStatusLines(t *testing.T) {
	status := Status{
		FrameTime: 20 * time.Millisecond,
		Position:  core.NewVec3(1, -0.5, 2.25),
		Stats:     renderer.RenderStats{SamplesPerPixel: 7},
	}

	assert.Equal(t, []string{
		"50.0 fps  20.0 ms",
		"pos 1.00 -0.50 2.25",
		"spp 7",
	}, status.Lines())

	assert.Equal(t, "0.0 fps  0.0 ms", Status{}.Lines()[0])
}
