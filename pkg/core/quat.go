package core

import (
	"fmt"
	"math"
)

// Quat is a quaternion with scalar part W and vector part V.
// Unit quaternions represent rotations.
type Quat struct {
	W float64
	V Vec3
}

// NewQuat creates a quaternion from its four components
func NewQuat(w, x, y, z float64) Quat {
	return Quat{W: w, V: NewVec3(x, y, z)}
}

// AngleAxis builds the rotation of angleRadians about unitAxis.
// The axis must already be normalized; it is not re-normalized here.
func AngleAxis(angleRadians float64, unitAxis Vec3) Quat {
	halfSin, halfCos := math.Sincos(angleRadians / 2)
	return Quat{W: halfCos, V: unitAxis.Multiply(halfSin)}
}

// Add returns the component-wise sum of two quaternions
func (q Quat) Add(other Quat) Quat {
	return Quat{W: q.W + other.W, V: q.V.Add(other.V)}
}

// Subtract returns the component-wise difference of two quaternions
func (q Quat) Subtract(other Quat) Quat {
	return Quat{W: q.W - other.W, V: q.V.Subtract(other.V)}
}

// Multiply scales all four components
func (q Quat) Multiply(scalar float64) Quat {
	return Quat{W: q.W * scalar, V: q.V.Multiply(scalar)}
}

// Mul returns the Hamilton product q*other. Applying the result to a vector
// rotates by other first, then by q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		W: q.W*other.W - q.V.Dot(other.V),
		V: other.V.Multiply(q.W).
			Add(q.V.Multiply(other.W)).
			Add(q.V.Cross(other.V)),
	}
}

// Conjugate negates the vector part
func (q Quat) Conjugate() Quat {
	return Quat{W: q.W, V: q.V.Negate()}
}

// Dot returns the four-component dot product
func (q Quat) Dot(other Quat) float64 {
	return q.W*other.W + q.V.Dot(other.V)
}

// LengthSquared returns the squared norm
func (q Quat) LengthSquared() float64 {
	return q.Dot(q)
}

// Length returns the norm
func (q Quat) Length() float64 {
	return math.Sqrt(q.LengthSquared())
}

// Normalize returns the unit quaternion with the same orientation.
// Same precondition as Vec3.Normalize: a zero quaternion yields NaN.
func (q Quat) Normalize() Quat {
	return q.Multiply(1.0 / q.Length())
}

// Rotate applies the rotation q to v as q * (0, v) * conjugate(q).
// q must be a unit quaternion for the rotation to be rigid.
func (q Quat) Rotate(v Vec3) Vec3 {
	p := Quat{W: 0, V: v}
	return q.Mul(p).Mul(q.Conjugate()).V
}

// Rotate rotates v by the unit quaternion q
func Rotate(v Vec3, q Quat) Vec3 {
	return q.Rotate(v)
}

// String formats the quaternion as "w x y z"
func (q Quat) String() string {
	return fmt.Sprintf("%g %s", q.W, q.V)
}
