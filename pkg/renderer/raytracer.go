package renderer

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

var (
	// SkyColor is returned for primary rays that hit nothing
	SkyColor = core.NewVec3(0.6, 0.7, 0.9)

	// LightDirection is the direction the single directional light travels
	LightDirection = core.NewVec3(-1, -1, -1).Normalize()

	// Black is returned once the bounce budget is exhausted
	Black = core.Vec3{}
)

// BounceAttenuation scales each successive bounce's contribution
const BounceAttenuation = 0.5

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	MaxDepth int     // Maximum ray bounce depth
	TMin     float64 // Nearest accepted hit distance, avoids self-intersection
	TMax     float64 // Farthest accepted hit distance
	Workers  int     // Row workers; <= 1 renders on the calling goroutine
	Seed     int64   // Base seed for per-row random streams
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		MaxDepth: 5,
		TMin:     0.001,
		TMax:     math.Inf(1),
		Workers:  1,
		Seed:     42,
	}
}

// PathState is the terminal state of a traced primary ray
type PathState int

const (
	PathTracing   PathState = iota // still bouncing
	PathMiss                       // left the scene
	PathExhausted                  // ran out of depth budget
)

func (s PathState) String() string {
	switch s {
	case PathTracing:
		return "tracing"
	case PathMiss:
		return "miss"
	case PathExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// PathResult describes how a primary ray resolved
type PathResult struct {
	Color    core.Vec3
	Hits     int       // Bounces that struck a surface
	Terminal PathState // PathMiss or PathExhausted
}

// PathColor returns the color seen along ray. See TracePath.
func PathColor(ray core.Ray, objects []geometry.Object, tMin, tMax float64, maxDepth int, sampler core.Sampler) core.Vec3 {
	return TracePath(ray, objects, tMin, tMax, maxDepth, sampler).Color
}

// TracePath follows ray through up to maxDepth diffuse bounces. Every bounce
// that hits contributes surfaceColor·max(0, n·-L)·0.5^bounce and the result
// is the mean over those hits. A depth of zero yields black; a ray whose
// first segment misses yields SkyColor.
func TracePath(ray core.Ray, objects []geometry.Object, tMin, tMax float64, maxDepth int, sampler core.Sampler) PathResult {
	if maxDepth <= 0 {
		return PathResult{Color: Black, Terminal: PathExhausted}
	}

	var acc pathAccumulator
	terminal := acc.trace(ray, objects, tMin, tMax, maxDepth, 0, sampler)

	if acc.hits == 0 {
		return PathResult{Color: SkyColor, Terminal: terminal}
	}
	return PathResult{
		Color:    acc.sum.Multiply(1.0 / float64(acc.hits)),
		Hits:     acc.hits,
		Terminal: terminal,
	}
}

type pathAccumulator struct {
	sum  core.Vec3
	hits int
}

// trace handles one segment and recurses with a smaller budget
func (acc *pathAccumulator) trace(ray core.Ray, objects []geometry.Object, tMin, tMax float64, depth, bounce int, sampler core.Sampler) PathState {
	if depth <= 0 {
		return PathExhausted
	}

	hit, _, isHit := geometry.HitNearest(objects, ray, tMin, tMax)
	if !isHit {
		return PathMiss
	}

	lightIntensity := max(0, hit.Normal.Dot(LightDirection.Negate()))
	contribution := hit.SurfaceColor.Multiply(lightIntensity * math.Pow(BounceAttenuation, float64(bounce)))
	acc.sum = acc.sum.Add(contribution)
	acc.hits++

	return acc.trace(diffuseBounce(hit, sampler), objects, tMin, tMax, depth-1, bounce+1, sampler)
}

// diffuseBounce spawns the scattered ray normalize(normal + random unit vector)
func diffuseBounce(hit geometry.HitRecord, sampler core.Sampler) core.Ray {
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))
	if direction.LengthSquared() < 1e-16 {
		// Random vector cancelled the normal
		direction = hit.Normal
	}
	return core.NewRay(hit.Position, direction.Normalize())
}

// ColorToByte scales a [0,1] channel to 0..255 by truncating c·255.99,
// clamping out-of-range values before narrowing. NaN maps to 0.
func ColorToByte(c float64) uint8 {
	v := math.Trunc(c * 255.99)
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ColorToRGB converts a linear color to an 8-bit triple
func ColorToRGB(c core.Vec3) [3]uint8 {
	return [3]uint8{ColorToByte(c.X), ColorToByte(c.Y), ColorToByte(c.Z)}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetObjects() []geometry.Object
}

// Raytracer renders whole frames of a scene into a framebuffer
type Raytracer struct {
	scene  Scene
	config SamplingConfig
	pool   *RowPool
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, config SamplingConfig) *Raytracer {
	return &Raytracer{
		scene:  scene,
		config: config,
		pool:   NewRowPool(config.Workers),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
	rt.pool = NewRowPool(config.Workers)
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// RenderColors traces one sample per pixel for frame and returns linear
// colors in row-major order. Each row draws from its own random stream
// derived from (Seed, frame, row), so the result does not depend on the
// number of workers.
func (rt *Raytracer) RenderColors(frame int64) ColorBuffer {
	view := rt.scene.GetCamera().View()
	objects := rt.scene.GetObjects()
	buf := NewColorBuffer(view.Width, view.Height)

	rt.pool.Run(view.Height, func(y int) {
		sampler := core.NewSeededSampler(rowSeed(rt.config.Seed, frame, y))
		row := buf.Row(y)
		for x := range row {
			row[x] = PathColor(view.Ray(x, y), objects, rt.config.TMin, rt.config.TMax, rt.config.MaxDepth, sampler)
		}
	})

	return buf
}

// Render renders a single frame into fb, resizing it to the camera viewport
func (rt *Raytracer) Render(fb *Framebuffer, frame int64) {
	fb.SetColors(rt.RenderColors(frame))
}

// rowSeed mixes the base seed, frame and row into an independent stream seed
func rowSeed(seed, frame int64, row int) int64 {
	h := uint64(seed)*0x9E3779B97F4A7C15 ^ uint64(frame)*0xBF58476D1CE4E5B9 ^ uint64(row)*0x94D049BB133111EB
	h ^= h >> 31
	h *= 0xD6E8FEB86659FD93
	h ^= h >> 32
	return int64(h)
}
