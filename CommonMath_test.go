package reactphysics3d

import (
	"math"
	"testing"
)

func TestOneUnitOrthogonalVector(t *testing.T) {
	vectors := []Vector3{
		{1.0, 0.0, 0.0},
		{0.0, 1.0, 0.0},
		{0.0, 0.0, 1.0},
		{1.0, 2.0, 3.0},
		{-4.0, 0.2, -0.7},
		{0.0, -5.0, 1.0},
	}

	for _, v := range vectors {
		orthogonal := OneUnitOrthogonalVector(v)
		if math.Abs(orthogonal.Len()-1.0) > 1e-12 {
			t.Fatalf("|orthogonal(%v)| = %v, want 1", v, orthogonal.Len())
		}
		if dot := orthogonal.Dot(v); math.Abs(dot) > 1e-12*v.Len() {
			t.Fatalf("orthogonal(%v).v = %v, want 0", v, dot)
		}
		// Deterministic tie-break: repeated calls agree exactly.
		if again := OneUnitOrthogonalVector(v); again != orthogonal {
			t.Fatalf("orthogonal(%v) not deterministic", v)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5.0, -1.0, 1.0); got != 1.0 {
		t.Fatalf("Clamp(5, -1, 1) = %v", got)
	}
	if got := Clamp(-5, -1, 1); got != -1 {
		t.Fatalf("Clamp(-5, -1, 1) = %v", got)
	}
	if got := Clamp(0.25, -1.0, 1.0); got != 0.25 {
		t.Fatalf("Clamp(0.25, -1, 1) = %v", got)
	}
}

func TestClampVector3(t *testing.T) {
	v := Vector3{3.0, -0.5, -2.0}
	got := ClampVector3(v, 1.0)
	want := Vector3{1.0, -0.5, -1.0}
	if got != want {
		t.Fatalf("ClampVector3(%v, 1) = %v, want %v", v, got, want)
	}
}

func TestRotationMatrix(t *testing.T) {
	q := Quaternion{W: math.Cos(math.Pi / 4.0), V: Vector3{0.0, math.Sin(math.Pi / 4.0), 0.0}}
	r := RotationMatrix(q)

	// A 90 degree rotation around Y maps +X to -Z.
	got := r.Mul3x1(Vector3{1.0, 0.0, 0.0})
	want := Vector3{0.0, 0.0, -1.0}
	if got.Sub(want).Len() > 1e-12 {
		t.Fatalf("rotated X = %v, want %v", got, want)
	}
}
