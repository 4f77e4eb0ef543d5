//go:build !cgo

package window

import (
	"context"

	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// Run is unavailable without cgo
func Run(_ context.Context, _ *scene.Scene, _ *renderer.ProgressiveRaytracer, _ Options) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
