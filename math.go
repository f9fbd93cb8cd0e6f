package ssd

import (
	"math"

	"github.com/gonum/floats"
)

const deg2rad = math.Pi / 180

// Vector3D is a Cartesian 3-vector. All operations return a new vector;
// a Vector3D handed across an API boundary is never mutated.
type Vector3D struct {
	X, Y, Z float64
}

// Plus returns the sum of both vectors.
func (v Vector3D) Plus(w Vector3D) Vector3D {
	return Vector3D{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Minus returns the difference of both vectors.
func (v Vector3D) Minus(w Vector3D) Vector3D {
	return Vector3D{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// ScalarProduct returns this vector scaled by f.
func (v Vector3D) ScalarProduct(f float64) Vector3D {
	return Vector3D{f * v.X, f * v.Y, f * v.Z}
}

// Dot returns the inner product.
func (v Vector3D) Dot(w Vector3D) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v x w.
func (v Vector3D) Cross(w Vector3D) Vector3D {
	return Vector3D{v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X}
}

// Norm returns the Euclidean norm.
func (v Vector3D) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// EuclideanDistance returns the distance between both vectors.
func (v Vector3D) EuclideanDistance(w Vector3D) float64 {
	return v.Minus(w).Norm()
}

// Unit returns the unit vector, or the zero vector if the norm vanishes.
func (v Vector3D) Unit() Vector3D {
	n := v.Norm()
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return Vector3D{}
	}
	return v.ScalarProduct(1 / n)
}

// isFinite reports whether all three components are finite numbers.
func (v Vector3D) isFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// slice returns the components as a 3x1 slice for matrix work.
func (v Vector3D) slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func vectorFromSlice(s []float64) Vector3D {
	return Vector3D{s[0], s[1], s[2]}
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Deg2rad converts degrees to radians. Angles in [-360, 0) are shifted by
// one full turn, so inputs from -360 up give a result in [0, 2π).
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees. Angles in [-2π, 0) are shifted by
// one full turn, so inputs from -2π up give a result in [0, 360).
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
