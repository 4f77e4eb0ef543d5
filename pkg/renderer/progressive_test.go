package renderer

import (
	"context"
	"testing"
)

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.MaxPasses <= 0 {
		t.Errorf("Expected positive MaxPasses, got %d", config.MaxPasses)
	}
	if !config.Accumulate {
		t.Error("Expected accumulation to be on by default")
	}
}

func TestProgressiveAccumulatesWhileStill(t *testing.T) {
	scene := createTestScene(8, 6)
	pr := NewProgressiveRaytracer(scene, DefaultSamplingConfig(), DefaultProgressiveConfig(), nil)

	for pass := int64(1); pass <= 3; pass++ {
		fb, stats := pr.RenderPass()
		if fb.Width != 8 || fb.Height != 6 {
			t.Fatalf("pass %d: expected 8x6, got %dx%d", pass, fb.Width, fb.Height)
		}
		if stats.AccumulatedFrame != pass || pr.Passes() != pass {
			t.Errorf("pass %d: expected accumulated frame %d, got %d", pass, pass, stats.AccumulatedFrame)
		}
		if stats.SamplesPerPixel != int(pass) {
			t.Errorf("pass %d: expected %d samples per pixel, got %d", pass, pass, stats.SamplesPerPixel)
		}
	}

	pr.Reset()
	if pr.Passes() != 0 {
		t.Errorf("Expected 0 passes after reset, got %d", pr.Passes())
	}
	if _, stats := pr.RenderPass(); stats.AccumulatedFrame != 1 {
		t.Errorf("Expected accumulation to restart at 1, got %d", stats.AccumulatedFrame)
	}
}

func TestProgressiveFirstPassMatchesRaytracer(t *testing.T) {
	scene := createTestScene(8, 6)
	pr := NewProgressiveRaytracer(scene, DefaultSamplingConfig(), DefaultProgressiveConfig(), nil)
	fb, _ := pr.RenderPass()

	expected := NewFramebuffer(0, 0)
	NewRaytracer(scene, DefaultSamplingConfig()).Render(expected, 0)

	for i := range expected.Pix {
		if fb.Pix[i] != expected.Pix[i] {
			t.Fatalf("byte %d: expected %d, got %d", i, expected.Pix[i], fb.Pix[i])
		}
	}
}

func TestProgressiveWithoutAccumulation(t *testing.T) {
	scene := createTestScene(4, 4)
	config := DefaultProgressiveConfig()
	config.Accumulate = false
	pr := NewProgressiveRaytracer(scene, DefaultSamplingConfig(), config, nil)

	for i := 0; i < 3; i++ {
		if _, stats := pr.RenderPass(); stats.AccumulatedFrame != 1 {
			t.Errorf("pass %d: expected a single frame without accumulation, got %d", i, stats.AccumulatedFrame)
		}
	}
}

func TestProgressiveResizeRestartsAccumulation(t *testing.T) {
	scene := createTestScene(4, 4)
	pr := NewProgressiveRaytracer(scene, DefaultSamplingConfig(), DefaultProgressiveConfig(), nil)
	pr.RenderPass()
	pr.RenderPass()

	scene.camera.Resize(6, 3)
	fb, stats := pr.RenderPass()
	if fb.Width != 6 || fb.Height != 3 {
		t.Fatalf("Expected 6x3 after resize, got %dx%d", fb.Width, fb.Height)
	}
	if stats.AccumulatedFrame != 1 {
		t.Errorf("Expected accumulation to restart after resize, got %d", stats.AccumulatedFrame)
	}
}

func TestRenderProgressive(t *testing.T) {
	scene := createTestScene(8, 4)
	config := DefaultProgressiveConfig()
	config.MaxPasses = 3
	pr := NewProgressiveRaytracer(scene, DefaultSamplingConfig(), config, nil)

	passChan, errChan := pr.RenderProgressive(context.Background())

	var passes []PassResult
	for result := range passChan {
		passes = append(passes, result)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(passes) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(passes))
	}
	for i, p := range passes {
		if p.PassNumber != i+1 {
			t.Errorf("Expected pass number %d, got %d", i+1, p.PassNumber)
		}
		if p.Image.Bounds().Dx() != 8 || p.Image.Bounds().Dy() != 4 {
			t.Errorf("pass %d: unexpected image bounds %v", p.PassNumber, p.Image.Bounds())
		}
		if p.IsLast != (i == 2) {
			t.Errorf("pass %d: IsLast = %v", p.PassNumber, p.IsLast)
		}
	}
}

func TestRenderProgressiveCancelled(t *testing.T) {
	scene := createTestScene(4, 4)
	pr := NewProgressiveRaytracer(scene, DefaultSamplingConfig(), DefaultProgressiveConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, errChan := pr.RenderProgressive(ctx)
	for range passChan {
	}
	if err := <-errChan; err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
