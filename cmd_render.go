package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-tracer/pkg/export"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

func newRenderCmd(a *app) *cobra.Command {
	var passes int
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file",
		Long: `Render the configured scene and write it to the output directory as
render-NNNN.ppm (or .png), numbered after the files already there. With
--passes greater than one, that many single-sample passes are averaged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.render(cmd.Context(), passes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Render saved as %s\n", path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&passes, "passes", 1, "progressive passes averaged into the image")
	flags.String("output-dir", defaults.OutputDir, "directory for rendered images")
	flags.String("format", defaults.Format, "image format (ppm, png)")
	flags.Bool("open-viewer", defaults.OpenViewer, "open the image in the viewer after writing it")
	flags.String("viewer", defaults.Viewer, "external image viewer")

	return cmd
}

// render traces the configured scene and exports the result
func (a *app) render(ctx context.Context, passes int) (string, error) {
	if passes < 1 {
		return "", errors.Errorf("passes must be at least 1, got %d", passes)
	}

	s, err := a.config.LoadScene()
	if err != nil {
		return "", err
	}

	config := renderer.ProgressiveConfig{MaxPasses: passes, Accumulate: true}
	pr := renderer.NewProgressiveRaytracer(s, s.SamplingConfig, config, a.logger)

	a.logger.Printf("Rendering %s at %dx%d (%d objects, %d workers)\n",
		s.Name, a.config.Width, a.config.Height, s.GetPrimitiveCount(), s.SamplingConfig.Workers)

	startTime := time.Now()
	var fb *renderer.Framebuffer
	var stats renderer.RenderStats
	for pass := 0; pass < passes; pass++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fb, stats = pr.RenderPass()
	}
	a.logger.Printf("Render completed in %v (%d samples/pixel, mean luminance %.3f)\n",
		time.Since(startTime), stats.SamplesPerPixel, stats.MeanLuminance)

	e := a.config.Exporter(a.logger)
	return e.ExportAndShow(ctx, fb, export.NextIndex(e.Dir, e.Prefix, e.Format))
}
