package geometry

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Kind identifies which primitive an Object holds
type Kind uint8

const (
	KindSphere Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Object is a closed set of scene primitives. Exactly the field selected
// by Kind is meaningful.
type Object struct {
	Kind   Kind
	Sphere Sphere
}

// NewSphereObject wraps a sphere as a scene object
func NewSphereObject(s Sphere) Object {
	return Object{Kind: KindSphere, Sphere: s}
}

// Hit dispatches the intersection test on the object's kind
func (o Object) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	switch o.Kind {
	case KindSphere:
		return o.Sphere.Hit(ray, tMin, tMax)
	default:
		return HitRecord{}, false
	}
}

// Color returns the surface color of the object
func (o Object) Color() core.Vec3 {
	switch o.Kind {
	case KindSphere:
		return o.Sphere.Color
	default:
		return core.Vec3{}
	}
}

// HitNearest returns the closest intersection in [tMin, tMax] across objects.
// The search bound shrinks to each accepted t, so on equal t the object
// earlier in the list wins.
func HitNearest(objects []Object, ray core.Ray, tMin, tMax float64) (HitRecord, int, bool) {
	var closest HitRecord
	closestIndex := -1
	closestSoFar := tMax

	for i, object := range objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit && (closestIndex < 0 || hit.T < closestSoFar) {
			closestSoFar = hit.T
			closest = hit
			closestIndex = i
		}
	}

	return closest, closestIndex, closestIndex >= 0
}
