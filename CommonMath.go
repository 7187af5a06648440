package reactphysics3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

/// Scalar is the floating-point type used throughout the engine.
type Scalar = float64

/// Vector3 is a 3-component column vector.
type Vector3 = mgl64.Vec3

/// Matrix3x3 is a 3x3 matrix, used for inertia tensors.
type Matrix3x3 = mgl64.Mat3

/// Quaternion represents a rotation.
type Quaternion = mgl64.Quat

// Clamp returns value limited to [low, high].
func Clamp[T constraints.Ordered](value, low, high T) T {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// ClampVector3 limits each component of v independently to [-limit, limit].
func ClampVector3(v Vector3, limit Scalar) Vector3 {
	return Vector3{
		Clamp(v.X(), -limit, limit),
		Clamp(v.Y(), -limit, limit),
		Clamp(v.Z(), -limit, limit),
	}
}

// OneUnitOrthogonalVector returns a unit vector orthogonal to v. The axis of
// the smallest component of v is used as the tie-break, so the result is
// deterministic. v must be non-zero.
func OneUnitOrthogonalVector(v Vector3) Vector3 {
	assert(v.Len() > MachineEpsilon)

	x := math.Abs(v.X())
	y := math.Abs(v.Y())
	z := math.Abs(v.Z())

	if x < y && x < z {
		return Vector3{0.0, -v.Z(), v.Y()}.Mul(1.0 / math.Sqrt(v.Y()*v.Y()+v.Z()*v.Z()))
	}
	if y < z {
		return Vector3{-v.Z(), 0.0, v.X()}.Mul(1.0 / math.Sqrt(v.X()*v.X()+v.Z()*v.Z()))
	}
	return Vector3{-v.Y(), v.X(), 0.0}.Mul(1.0 / math.Sqrt(v.X()*v.X()+v.Y()*v.Y()))
}

// RotationMatrix converts an orientation quaternion to its rotation matrix.
func RotationMatrix(q Quaternion) Matrix3x3 {
	return q.Mat4().Mat3()
}
