package core

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RotationMatrix returns the 3x3 matrix rotating by angleRadians about unitAxis
// (Rodrigues' formula). It is the fixed-matrix counterpart of AngleAxis.
func RotationMatrix(angleRadians float64, unitAxis Vec3) *mat.Dense {
	s, c := math.Sincos(angleRadians)
	t := 1 - c
	x, y, z := unitAxis.X, unitAxis.Y, unitAxis.Z

	return mat.NewDense(3, 3, []float64{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	})
}

// QuatMatrix returns the rotation matrix equivalent to the unit quaternion q
func QuatMatrix(q Quat) *mat.Dense {
	w, x, y, z := q.W, q.V.X, q.V.Y, q.V.Z

	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// ApplyMatrix multiplies the 3x3 matrix m by the column vector v
func ApplyMatrix(m mat.Matrix, v Vec3) Vec3 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return NewVec3(out.AtVec(0), out.AtVec(1), out.AtVec(2))
}

// ComposeMatrices returns a*b, the transform applying b first and then a
func ComposeMatrices(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}
