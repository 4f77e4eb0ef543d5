package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// RenderStats contains statistics about one rendered frame or pass
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	SamplesPerPixel  int           // Accumulated samples behind each pixel
	Duration         time.Duration // Wall time spent tracing this frame
	MeanLuminance    float64       // Mean 8-bit luminance over the frame, in [0,1]
	StdDevLuminance  float64       // Standard deviation of the same
	FramesPerSecond  float64       // 1 / Duration
	RaysPerSecond    float64       // Primary rays traced per second
	AccumulatedFrame int64         // Index of the frame within the current accumulation
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// luminance uses Rec. 709 weights on 8-bit channels
func luminance(r, g, b uint8) float64 {
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255
}

// CalculateAverageLuminance returns the mean luminance of the framebuffer
func CalculateAverageLuminance(fb *Framebuffer) float64 {
	mean, _ := luminanceMeanStdDev(fb)
	return mean
}

func luminanceMeanStdDev(fb *Framebuffer) (mean, stdDev float64) {
	n := fb.Width * fb.Height
	if n == 0 {
		return 0, 0
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = luminance(fb.Pix[3*i], fb.Pix[3*i+1], fb.Pix[3*i+2])
	}
	if n == 1 {
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// ComputeFrameStats summarises a finished frame
func ComputeFrameStats(fb *Framebuffer, duration time.Duration, samplesPerPixel int) RenderStats {
	stats := RenderStats{
		TotalPixels:     fb.Width * fb.Height,
		SamplesPerPixel: samplesPerPixel,
		Duration:        duration,
	}
	stats.MeanLuminance, stats.StdDevLuminance = luminanceMeanStdDev(fb)

	if seconds := duration.Seconds(); seconds > 0 {
		stats.FramesPerSecond = 1 / seconds
		stats.RaysPerSecond = float64(stats.TotalPixels) / seconds
	}
	return stats
}
