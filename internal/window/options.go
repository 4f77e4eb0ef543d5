// Package window shows progressive renders in a desktop window and drives
// the camera from keyboard and mouse input.
package window

import (
	"github.com/df07/go-sphere-tracer/pkg/controls"
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/export"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// Options configures the interactive window
type Options struct {
	Title       string
	Scale       int // Window pixels per rendered pixel
	TPS         int // Input updates per second
	Controls    controls.Config
	ShowOverlay bool
	Exporter    *export.Exporter         // Screenshot target; nil disables screenshots
	Reload      <-chan []geometry.Object // Replacement object lists from a scene watcher
	Accumulate  <-chan bool              // Accumulation toggles from a config watcher
	Logger      core.Logger
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		Title:       "Sphere Tracer",
		Scale:       3,
		TPS:         60,
		Controls:    controls.DefaultConfig(),
		ShowOverlay: true,
		Logger:      core.NopLogger{},
	}
}

// normalize fills zero values with defaults
func (o Options) normalize() Options {
	defaults := DefaultOptions()
	if o.Title == "" {
		o.Title = defaults.Title
	}
	if o.Scale <= 0 {
		o.Scale = defaults.Scale
	}
	if o.TPS <= 0 {
		o.TPS = defaults.TPS
	}
	if o.Controls == (controls.Config{}) {
		o.Controls = defaults.Controls
	}
	if o.Logger == nil {
		o.Logger = defaults.Logger
	}
	return o
}
