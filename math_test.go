package ssd

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestVectorAlgebra(t *testing.T) {
	a := Vector3D{1, 2, 3}
	b := Vector3D{-4, 5, -6}
	if got := a.Plus(b); got != (Vector3D{-3, 7, -3}) {
		t.Fatalf("sum incorrect: %+v", got)
	}
	if got := a.Minus(b); got != (Vector3D{5, -3, 9}) {
		t.Fatalf("difference incorrect: %+v", got)
	}
	if got := a.ScalarProduct(2); got != (Vector3D{2, 4, 6}) {
		t.Fatalf("scaling incorrect: %+v", got)
	}
	if got := a.Dot(b); got != -12 {
		t.Fatalf("dot incorrect: %f", got)
	}
	cross := a.Cross(b)
	if !floats.EqualWithinAbs(cross.Dot(a), 0, 1e-12) || !floats.EqualWithinAbs(cross.Dot(b), 0, 1e-12) {
		t.Fatalf("cross product not orthogonal: %+v", cross)
	}
	if !floats.EqualWithinAbs(Vector3D{3, 4, 0}.Norm(), 5, 1e-14) {
		t.Fatal("norm incorrect")
	}
	if !floats.EqualWithinAbs(a.EuclideanDistance(a), 0, 1e-14) {
		t.Fatal("distance to self not zero")
	}
	if got := (Vector3D{}).Unit(); got != (Vector3D{}) {
		t.Fatalf("unit of zero vector must be zero, got %+v", got)
	}
	if n := a.Unit().Norm(); !floats.EqualWithinAbs(n, 1, 1e-14) {
		t.Fatalf("unit norm is %f", n)
	}
}

func TestDegRadConversions(t *testing.T) {
	if !floats.EqualWithinAbs(Deg2rad(180), math.Pi, 1e-14) {
		t.Fatal("Deg2rad(180) != π")
	}
	if !floats.EqualWithinAbs(Rad2deg(math.Pi), 180, 1e-12) {
		t.Fatal("Rad2deg(π) != 180")
	}
	if !floats.EqualWithinAbs(Deg2rad(-90), 3*math.Pi/2, 1e-12) {
		t.Fatal("negative degrees must wrap positive")
	}
}

// The obliquity rotation pair must be exact inverses within 1e-10 relative
// to an astronomical unit.
func TestObliquityRotationInverse(t *testing.T) {
	vectors := []Vector3D{
		{ASTRONOMICALUNIT, 0, 0},
		{0, ASTRONOMICALUNIT, 0},
		{0, 0, ASTRONOMICALUNIT},
		{0.3 * ASTRONOMICALUNIT, -1.7 * ASTRONOMICALUNIT, 0.5 * ASTRONOMICALUNIT},
		{-5.2 * ASTRONOMICALUNIT, 3.1 * ASTRONOMICALUNIT, -0.04 * ASTRONOMICALUNIT},
	}
	for _, v := range vectors {
		round := EquatorialToEcliptic(EclipticToEquatorial(v))
		if d := round.EuclideanDistance(v); d > 1e-10*ASTRONOMICALUNIT {
			t.Fatalf("rotation pair not inverse for %+v: off by %g m", v, d)
		}
		round = EclipticToEquatorial(EquatorialToEcliptic(v))
		if d := round.EuclideanDistance(v); d > 1e-10*ASTRONOMICALUNIT {
			t.Fatalf("inverse pair not inverse for %+v: off by %g m", v, d)
		}
		// The rotation must preserve the norm.
		if !floats.EqualWithinAbs(EclipticToEquatorial(v).Norm(), v.Norm(), 1e-4) {
			t.Fatalf("rotation does not preserve norm for %+v", v)
		}
	}
}

func TestOrbitPlaneRotationInverse(t *testing.T) {
	// Reflects a hypothetical orbit position.
	a := Vector3D{-246000, -5000, 0}
	b := OrbitPlaneFromEcliptic(a, -50, 7, 135)
	c := EclipticFromOrbitPlane(b, -50, 7, 135)
	if d := c.EuclideanDistance(a); d > 1e-10 {
		t.Fatalf("c not equal to a: off by %g", d)
	}
	b = EclipticFromOrbitPlane(a, -50, 7, 135)
	c = OrbitPlaneFromEcliptic(b, -50, 7, 135)
	if d := c.EuclideanDistance(a); d > 1e-10 {
		t.Fatalf("c not equal to a: off by %g", d)
	}
}

func TestPoleVector(t *testing.T) {
	// Earth's pole is the z axis of the equatorial frame, which maps to the
	// obliquity-tilted axis in the ecliptic frame.
	pole := poleVector(0, 90)
	if !floats.EqualWithinAbs(pole.Norm(), 1, 1e-14) {
		t.Fatal("pole vector must be unit length")
	}
	want := EquatorialToEcliptic(Vector3D{0, 0, 1})
	if !vectorsEqualWithin(pole, want, 1e-14) {
		t.Fatalf("Earth pole incorrect: %+v", pole)
	}
	if !floats.EqualWithinAbs(pole.Z, math.Cos(Obliquityε*deg2rad), 1e-12) {
		t.Fatalf("pole tilt incorrect: %+v", pole)
	}
}
