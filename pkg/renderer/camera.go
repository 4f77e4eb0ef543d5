package renderer

import (
	"math"
	"sync"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// DefaultAspectRatio is the viewport aspect ratio used when none is configured
const DefaultAspectRatio = 16.0 / 9.0

// maxForwardUpDot limits how close the forward axis may get to world up.
// Beyond it the right axis (forward × up) degenerates.
const maxForwardUpDot = 0.999

// WorldUp is the fixed up direction used to build the camera basis
var WorldUp = core.NewVec3(0, 1, 0)

// Axis selects one of the camera's translation axes
type Axis int

const (
	AxisRight   Axis = iota // local right (forward × world up)
	AxisUp                  // world up
	AxisForward             // local forward
)

// CameraConfig contains all parameters for camera setup
type CameraConfig struct {
	Position    core.Vec3 // Camera position
	Forward     core.Vec3 // Viewing direction; normalized on construction
	VFov        float64   // Vertical field of view in degrees
	Width       int       // Image width in pixels
	Height      int       // Image height in pixels
	AspectRatio float64   // Viewport width / height; 0 means DefaultAspectRatio
}

// CameraView is an immutable snapshot of the camera used to render one frame
type CameraView struct {
	Position      core.Vec3
	Width, Height int
	Directions    []core.Vec3
}

// Ray returns the primary ray for pixel (x, y), y counted down from the top row
func (v CameraView) Ray(x, y int) core.Ray {
	return core.NewRay(v.Position, v.Directions[x+y*v.Width])
}

// Camera generates a primary ray per pixel from a cached direction table.
// The table depends only on orientation and viewport, so translations do not
// touch it and orientation changes require RecalculateRayDirections.
type Camera struct {
	mu      sync.RWMutex
	rebuild sync.Mutex // Serializes table rebuilds

	position core.Vec3
	forward  core.Vec3

	vfov           float64
	aspectRatio    float64
	viewportWidth  float64
	viewportHeight float64
	width, height  int

	rayDirections []core.Vec3
}

// NewCamera creates a camera and builds its ray direction table
func NewCamera(config CameraConfig) *Camera {
	aspectRatio := config.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = DefaultAspectRatio
	}

	c := &Camera{
		position:    config.Position,
		forward:     config.Forward.Normalize(),
		vfov:        config.VFov,
		aspectRatio: aspectRatio,
		width:       config.Width,
		height:      config.Height,
	}
	c.updateViewport()
	c.RecalculateRayDirections()
	return c
}

// updateViewport derives the viewport extent from the field of view
func (c *Camera) updateViewport() {
	theta := c.vfov * math.Pi / 180
	c.viewportHeight = math.Tan(theta / 2)
	c.viewportWidth = c.viewportHeight * c.aspectRatio
}

// RecalculateRayDirections rebuilds the whole direction table into a new
// slice and swaps it in, so concurrent readers see either the old or the
// new table, never a partial one.
func (c *Camera) RecalculateRayDirections() {
	c.rebuild.Lock()
	defer c.rebuild.Unlock()

	c.mu.RLock()
	width, height := c.width, c.height
	c.mu.RUnlock()
	c.publishDirections(width, height)
}

// publishDirections builds a table for width x height and publishes it
// together with the dimensions. If the orientation changed while building,
// the table is rebuilt under the write lock. Callers hold c.rebuild.
func (c *Camera) publishDirections(width, height int) {
	c.mu.RLock()
	forward := c.forward
	viewportWidth, viewportHeight := c.viewportWidth, c.viewportHeight
	c.mu.RUnlock()

	directions := computeRayDirections(forward, width, height, viewportWidth, viewportHeight)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.forward != forward {
		directions = computeRayDirections(c.forward, width, height, c.viewportWidth, c.viewportHeight)
	}
	c.width, c.height = width, height
	c.rayDirections = directions
}

// computeRayDirections fills a row-major table starting at the top row.
// v is not flipped: the up vector (forward × right) points down in world
// space, so v = -1 on the top row looks up.
func computeRayDirections(forward core.Vec3, width, height int, viewportWidth, viewportHeight float64) []core.Vec3 {
	right := forward.Cross(WorldUp).Normalize().Multiply(viewportWidth / 2)
	up := forward.Cross(right).Normalize().Multiply(viewportHeight / 2)

	directions := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		v := float64(y)/float64(height)*2 - 1
		for x := 0; x < width; x++ {
			u := float64(x)/float64(width)*2 - 1
			directions[x+y*width] = forward.Add(right.Multiply(u)).Add(up.Multiply(v))
		}
	}
	return directions
}

// View returns a consistent snapshot of position and direction table
func (c *Camera) View() CameraView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CameraView{
		Position:   c.position,
		Width:      c.width,
		Height:     c.height,
		Directions: c.rayDirections,
	}
}

// RayDirections returns the current direction table. The slice is never
// modified after publication and must not be modified by callers.
func (c *Camera) RayDirections() []core.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rayDirections
}

// GetRay generates the primary ray for pixel (x, y)
func (c *Camera) GetRay(x, y int) core.Ray {
	return c.View().Ray(x, y)
}

// Position returns the camera position
func (c *Camera) Position() core.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.forward
}

// Size returns the image dimensions in pixels
func (c *Camera) Size() (width, height int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}

// VFov returns the vertical field of view in degrees
func (c *Camera) VFov() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vfov
}

// Right returns the unit right axis (forward × world up)
func (c *Camera) Right() core.Vec3 {
	return c.Forward().Cross(WorldUp).Normalize()
}

// Translate moves the camera by distance along one axis. Only the
// position changes; the direction table stays valid.
func (c *Camera) Translate(axis Axis, distance float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch axis {
	case AxisRight:
		c.position = c.position.Add(c.forward.Cross(WorldUp).Normalize().Multiply(distance))
	case AxisUp:
		c.position = c.position.Add(WorldUp.Multiply(distance))
	case AxisForward:
		c.position = c.position.Add(c.forward.Multiply(distance))
	}
}

// MoveRight moves along the local right axis
func (c *Camera) MoveRight(distance float64) { c.Translate(AxisRight, distance) }

// MoveUp moves along world up
func (c *Camera) MoveUp(distance float64) { c.Translate(AxisUp, distance) }

// MoveForward moves along the viewing direction
func (c *Camera) MoveForward(distance float64) { c.Translate(AxisForward, distance) }

// SetPosition places the camera at p
func (c *Camera) SetPosition(p core.Vec3) {
	c.mu.Lock()
	c.position = p
	c.mu.Unlock()
}

// Rotate turns the forward axis by pitch about the local right axis and yaw
// about world up (radians). Positive pitch looks down, positive yaw turns
// right. It reports whether the orientation changed; a rotation that would
// point the camera straight up or down is rejected. The caller must call
// RecalculateRayDirections after a successful rotation.
func (c *Camera) Rotate(pitchDelta, yawDelta float64) bool {
	if pitchDelta == 0 && yawDelta == 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	right := c.forward.Cross(WorldUp).Normalize()
	q := core.AngleAxis(-pitchDelta, right).
		Mul(core.AngleAxis(-yawDelta, WorldUp)).
		Normalize()

	forward := q.Rotate(c.forward)
	if math.Abs(forward.Dot(WorldUp)) > maxForwardUpDot || !forward.IsFinite() {
		return false
	}
	c.forward = forward
	return true
}

// Resize changes the viewport dimensions and rebuilds the direction table.
// The new size becomes visible only together with its table.
func (c *Camera) Resize(width, height int) {
	c.rebuild.Lock()
	defer c.rebuild.Unlock()
	c.publishDirections(width, height)
}

// MergeCameraConfig returns defaults with every non-zero field of overrides applied
func MergeCameraConfig(defaults, overrides CameraConfig) CameraConfig {
	result := defaults
	if overrides.Position != (core.Vec3{}) {
		result.Position = overrides.Position
	}
	if overrides.Forward != (core.Vec3{}) {
		result.Forward = overrides.Forward
	}
	if overrides.VFov != 0 {
		result.VFov = overrides.VFov
	}
	if overrides.Width != 0 {
		result.Width = overrides.Width
	}
	if overrides.Height != 0 {
		result.Height = overrides.Height
	}
	if overrides.AspectRatio != 0 {
		result.AspectRatio = overrides.AspectRatio
	}
	return result
}
