package main

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-tracer/internal/window"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

func newViewCmd(a *app) *cobra.Command {
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a scene in an interactive window",
		Long: `Open a window showing the configured scene. WASD moves, Space/E and
Shift/Q move up and down, the arrow keys or a left-button drag turn the
camera. Tab toggles the overlay, P saves a screenshot, Escape quits.

Scene files are reloaded when they change on disk, and edits to the config
file update the log level and accumulation while the window is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.Int("scale", defaults.Scale, "window pixels per rendered pixel")
	flags.Bool("accumulate", defaults.Accumulate, "average frames while the camera is still")
	flags.String("output-dir", defaults.OutputDir, "directory for screenshots")
	flags.String("format", defaults.Format, "screenshot format (ppm, png)")
	flags.Bool("open-viewer", defaults.OpenViewer, "open screenshots in the viewer")
	flags.String("viewer", defaults.Viewer, "external image viewer")

	return cmd
}

func (a *app) view(ctx context.Context) error {
	s, err := a.config.LoadScene()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	config := renderer.ProgressiveConfig{Accumulate: a.config.Accumulate}
	pr := renderer.NewProgressiveRaytracer(s, s.SamplingConfig, config, a.logger)

	opts := window.DefaultOptions()
	opts.Title = "Sphere Tracer - " + s.Name
	opts.Scale = a.config.Scale
	opts.Exporter = a.config.Exporter(a.logger)
	opts.Logger = a.logger
	opts.Accumulate = a.watchConfig()
	if path, err := scene.ScenePath(a.config.Scene, a.config.ScenesDir); err == nil {
		opts.Reload = a.watchScene(ctx, path)
	}

	return window.Run(ctx, s, pr, opts)
}

// watchScene reloads the scene file on change and delivers the newest
// object list, dropping any the window has not picked up yet
func (a *app) watchScene(ctx context.Context, path string) <-chan []geometry.Object {
	reload := make(chan []geometry.Object, 1)

	go func() {
		err := scene.Watch(ctx, path, a.logger, func(f *scene.File) {
			objects := f.Objects()
			select {
			case <-reload:
			default:
			}
			reload <- objects
		})
		if err != nil {
			a.logger.Printf("Warning: scene watcher stopped: %v\n", err)
		}
	}()

	a.logger.Printf("Watching %s for changes\n", path)
	return reload
}

// watchConfig applies config file edits: the log level immediately and
// accumulation through the returned channel. It returns nil when no config
// file is in use.
func (a *app) watchConfig() <-chan bool {
	if a.v.ConfigFileUsed() == "" {
		return nil
	}

	accumulate := make(chan bool, 1)
	current := a.config

	a.v.OnConfigChange(func(e fsnotify.Event) {
		config, err := decodeConfig(a.v)
		if err != nil {
			a.logger.Printf("Warning: ignoring config change in %s: %v\n", e.Name, err)
			return
		}

		zerolog.SetGlobalLevel(renderer.ParseLevel(config.LogLevel))
		if config.Accumulate != current.Accumulate {
			select {
			case <-accumulate:
			default:
			}
			accumulate <- config.Accumulate
		}
		current = config
		a.logger.Printf("Reloaded config from %s\n", e.Name)
	})
	a.v.WatchConfig()

	return accumulate
}
