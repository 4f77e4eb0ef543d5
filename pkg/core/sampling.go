package core

import (
	"math/rand"
)

// MaxRejectionAttempts bounds the rejection loop in RandomInUnitSphere.
// The acceptance probability per attempt is π/6 ≈ 0.52, so reaching the cap
// happens with probability below 1e-20.
const MaxRejectionAttempts = 64

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic source
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get3D returns three independent random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomVec3 returns a vector with independent uniform [0, 1) components
func RandomVec3(sampler Sampler) Vec3 {
	return sampler.Get3D()
}

// RandomQuat returns a quaternion with independent uniform [0, 1) components.
// The result is not normalized.
func RandomQuat(sampler Sampler) Quat {
	return Quat{W: sampler.Get1D(), V: sampler.Get3D()}
}

// RandomInUnitSphere draws points in [-1, 1)³ until one falls strictly inside
// the unit ball. After MaxRejectionAttempts misses it returns the zero vector.
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for i := 0; i < MaxRejectionAttempts; i++ {
		p := sampler.Get3D().Multiply(2).Subtract(NewVec3(1, 1, 1))
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	return Vec3{}
}

// RandomUnitVector returns a uniformly distributed direction on the unit sphere.
// Falls back to +Y if the ball sample is too short to normalize.
func RandomUnitVector(sampler Sampler) Vec3 {
	p := RandomInUnitSphere(sampler)
	if p.LengthSquared() < 1e-24 {
		return NewVec3(0, 1, 0)
	}
	return p.Normalize()
}
