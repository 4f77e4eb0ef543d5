package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	MaxPasses  int  // Passes produced by RenderProgressive
	Accumulate bool // Average passes while the camera is still
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		MaxPasses:  16,
		Accumulate: true,
	}
}

// ProgressiveRaytracer renders successive single-sample passes and, when
// accumulation is on, averages them per pixel until Reset is called
type ProgressiveRaytracer struct {
	scene      Scene
	config     ProgressiveConfig
	raytracer  *Raytracer
	pixelStats []PixelStats // Running per-pixel averages, row-major
	width      int
	height     int
	frame      int64 // Monotonic frame counter, seeds each pass
	passes     int64 // Passes accumulated since the last reset
	fb         *Framebuffer
	logger     core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(scene Scene, sampling SamplingConfig, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &ProgressiveRaytracer{
		scene:     scene,
		config:    config,
		raytracer: NewRaytracer(scene, sampling),
		fb:        NewFramebuffer(0, 0),
		logger:    logger,
	}
}

// Raytracer returns the underlying single-frame raytracer
func (pr *ProgressiveRaytracer) Raytracer() *Raytracer {
	return pr.raytracer
}

// Reset discards the accumulated passes. Call it after any camera or scene change.
func (pr *ProgressiveRaytracer) Reset() {
	for i := range pr.pixelStats {
		pr.pixelStats[i] = PixelStats{}
	}
	pr.passes = 0
}

// Passes returns the number of passes behind the current image
func (pr *ProgressiveRaytracer) Passes() int64 {
	return pr.passes
}

// SetAccumulate toggles accumulation; turning it off discards history
func (pr *ProgressiveRaytracer) SetAccumulate(accumulate bool) {
	pr.config.Accumulate = accumulate
	pr.Reset()
}

// RenderPass renders one pass and returns the resulting framebuffer, which is
// reused by the next call
func (pr *ProgressiveRaytracer) RenderPass() (*Framebuffer, RenderStats) {
	startTime := time.Now()

	colors := pr.raytracer.RenderColors(pr.frame)
	pr.frame++

	if colors.Width != pr.width || colors.Height != pr.height {
		pr.width, pr.height = colors.Width, colors.Height
		pr.pixelStats = make([]PixelStats, pr.width*pr.height)
		pr.passes = 0
	}
	if !pr.config.Accumulate {
		pr.Reset()
	}

	for i, c := range colors.Pixels {
		pr.pixelStats[i].AddSample(c)
		colors.Pixels[i] = pr.pixelStats[i].GetColor()
	}
	pr.passes++
	pr.fb.SetColors(colors)

	stats := ComputeFrameStats(pr.fb, time.Since(startTime), int(pr.passes))
	stats.AccumulatedFrame = pr.passes
	return pr.fb, stats
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders MaxPasses accumulated passes on a goroutine and
// streams each one. Cancellation is checked between passes.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		pr.logger.Printf("Starting progressive rendering with %d passes (using %d workers)...\n",
			pr.config.MaxPasses, pr.raytracer.pool.GetNumWorkers())

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			fb, stats := pr.RenderPass()
			pr.logger.Printf("Pass %d completed in %v (%d samples/pixel)\n", pass, stats.Duration, stats.SamplesPerPixel)

			result := PassResult{
				PassNumber: pass,
				Image:      fb.Image(),
				Stats:      stats,
				IsLast:     pass == pr.config.MaxPasses,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}
