package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ColorBuffer holds linear colors for a frame in row-major order
type ColorBuffer struct {
	Width, Height int
	Pixels        []core.Vec3
}

// NewColorBuffer allocates a black buffer
func NewColorBuffer(width, height int) ColorBuffer {
	return ColorBuffer{Width: width, Height: height, Pixels: make([]core.Vec3, width*height)}
}

// Row returns the pixels of row y
func (b ColorBuffer) Row(y int) []core.Vec3 {
	return b.Pixels[y*b.Width : (y+1)*b.Width]
}

// At returns the color at (x, y)
func (b ColorBuffer) At(x, y int) core.Vec3 {
	return b.Pixels[x+y*b.Width]
}

// Framebuffer is the renderer's output: width*height RGB byte triples,
// row-major from the top-left pixel
type Framebuffer struct {
	Width, Height int
	Pix           []uint8 // len == 3*Width*Height
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the pixel storage when the dimensions change
func (fb *Framebuffer) Resize(width, height int) {
	if fb.Width == width && fb.Height == height && len(fb.Pix) == 3*width*height {
		return
	}
	fb.Width, fb.Height = width, height
	fb.Pix = make([]uint8, 3*width*height)
}

// SetColors converts a color buffer into bytes, resizing to match it
func (fb *Framebuffer) SetColors(colors ColorBuffer) {
	fb.Resize(colors.Width, colors.Height)
	for i, c := range colors.Pixels {
		rgb := ColorToRGB(c)
		copy(fb.Pix[3*i:3*i+3], rgb[:])
	}
}

// RGB returns the triple at (x, y)
func (fb *Framebuffer) RGB(x, y int) (r, g, b uint8) {
	i := 3 * (x + y*fb.Width)
	return fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2]
}

// SetRGB writes the triple at (x, y); out-of-range coordinates are ignored
func (fb *Framebuffer) SetRGB(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	i := 3 * (x + y*fb.Width)
	fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2] = r, g, b
}

// CopyRGBA expands the framebuffer into dst as RGBA with opaque alpha.
// dst must hold at least 4*Width*Height bytes.
func (fb *Framebuffer) CopyRGBA(dst []byte) {
	for i, j := 0, 0; i+2 < len(fb.Pix) && j+3 < len(dst); i, j = i+3, j+4 {
		dst[j+0] = fb.Pix[i+0]
		dst[j+1] = fb.Pix[i+1]
		dst[j+2] = fb.Pix[i+2]
		dst[j+3] = 0xFF
	}
}

// Image returns the framebuffer as an *image.RGBA
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.CopyRGBA(img.Pix)
	return img
}

// ColorModel implements image.Image
func (fb *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image
func (fb *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.Width, fb.Height) }

// At implements image.Image
func (fb *Framebuffer) At(x, y int) color.Color {
	r, g, b := fb.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
