package ssd

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

const (
	// Obliquityε is the mean obliquity of the ecliptic at J2000.0 in degrees.
	// The ecliptic and equatorial J2000 frames are related by a rotation of
	// this angle about the vernal axis.
	Obliquityε = 23.43678
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// rotateVec applies a 3x3 rotation matrix to a Vector3D.
func rotateVec(m *mat64.Dense, v Vector3D) Vector3D {
	return vectorFromSlice(MxV33(m, v.slice()))
}

// EquatorialToEcliptic rotates a vector from the J2000 equatorial frame into
// the J2000 ecliptic frame.
func EquatorialToEcliptic(v Vector3D) Vector3D {
	return rotateVec(R1(Obliquityε*deg2rad), v)
}

// EclipticToEquatorial rotates a vector from the J2000 ecliptic frame into
// the J2000 equatorial frame. It is the exact inverse of EquatorialToEcliptic.
func EclipticToEquatorial(v Vector3D) Vector3D {
	return rotateVec(R1(-Obliquityε*deg2rad), v)
}

// EclipticFromOrbitPlane rotates a vector from the orbital plane (x towards
// perihelion, z along the orbit normal) into the ecliptic frame. Angles in
// degrees, per the 3-1-3 sequence of Standish.
func EclipticFromOrbitPlane(v Vector3D, longNode, inclination, argPerihelion float64) Vector3D {
	m := mat64.NewDense(3, 3, nil)
	m.Mul(R3(-longNode*deg2rad), R1(-inclination*deg2rad))
	full := mat64.NewDense(3, 3, nil)
	full.Mul(m, R3(-argPerihelion*deg2rad))
	return rotateVec(full, v)
}

// OrbitPlaneFromEcliptic rotates a vector from the ecliptic frame into the
// orbital plane. It is the exact inverse of EclipticFromOrbitPlane.
func OrbitPlaneFromEcliptic(v Vector3D, longNode, inclination, argPerihelion float64) Vector3D {
	m := mat64.NewDense(3, 3, nil)
	m.Mul(R3(argPerihelion*deg2rad), R1(inclination*deg2rad))
	full := mat64.NewDense(3, 3, nil)
	full.Mul(m, R3(longNode*deg2rad))
	return rotateVec(full, v)
}

// poleVector returns the unit vector of a body's rotation axis in the
// ecliptic frame from the IAU right ascension and declination of the pole
// (degrees, J2000 equatorial).
func poleVector(raDeg, decDeg float64) Vector3D {
	sδ, cδ := math.Sincos(decDeg * deg2rad)
	sα, cα := math.Sincos(raDeg * deg2rad)
	return EquatorialToEcliptic(Vector3D{cδ * cα, cδ * sα, sδ})
}
