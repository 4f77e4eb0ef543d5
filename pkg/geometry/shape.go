package geometry

import "github.com/df07/go-sphere-tracer/pkg/core"

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Position     core.Vec3 // Point of intersection
	Normal       core.Vec3 // Unit surface normal, always facing against the incoming ray
	T            float64   // Parameter t along the ray
	FrontFace    bool      // Whether ray hit the outward-facing side
	SurfaceColor core.Vec3 // Color of the surface that was hit
}

// SetFaceNormal orients the normal against the ray. A ray travelling along
// the outward normal struck the inside of the surface.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	if ray.Direction.Dot(outwardNormal) > 0 {
		h.FrontFace = false
		h.Normal = outwardNormal.Negate()
	} else {
		h.FrontFace = true
		h.Normal = outwardNormal
	}
}
