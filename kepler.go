package ssd

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

// Tolerances of the Kepler equation solvers. Fixed point iteration converges
// linearly and cannot do much better than 1e-8 for high eccentricities.
const (
	FixedPointTolerance = 1e-8
	NewtonTolerance     = 1e-14
	HalleyTolerance     = 1e-14

	maxKeplerIterations = 200000
)

// KeplerSolver solves Kepler's equation M = E - e*sin(E) for the eccentric
// anomaly E. Angles in radians. The three implementations are selectable by
// the caller; they agree within their stated tolerances for e in [0, 1).
type KeplerSolver func(M, e, tol float64) (float64, error)

// SolveKeplerFixedPoint solves Kepler's equation by fixed point iteration
// E <- M + e*sin(E). Robust but slow for high eccentricities.
func SolveKeplerFixedPoint(M, e, tol float64) (float64, error) {
	E := M
	for i := 0; i < maxKeplerIterations; i++ {
		E = M + e*math.Sin(E)
		if math.Abs(M-(E-e*math.Sin(E))) <= tol {
			return E, nil
		}
	}
	return E, fmt.Errorf("%w: fixed point iteration did not converge (M=%g e=%g)", ErrNumericalFailure, M, e)
}

// SolveKeplerNewton solves Kepler's equation with the Newton-Raphson method.
func SolveKeplerNewton(M, e, tol float64) (float64, error) {
	E := M
	for i := 0; i < maxKeplerIterations; i++ {
		f := E - e*math.Sin(E) - M
		if math.Abs(f) <= tol {
			return E, nil
		}
		E -= f / (1 - e*math.Cos(E))
	}
	return E, fmt.Errorf("%w: Newton-Raphson did not converge (M=%g e=%g)", ErrNumericalFailure, M, e)
}

// SolveKeplerHalley solves Kepler's equation with Halley's method, which adds
// the second derivative term to the Newton-Raphson step.
func SolveKeplerHalley(M, e, tol float64) (float64, error) {
	E := M
	for i := 0; i < maxKeplerIterations; i++ {
		sinE, cosE := math.Sincos(E)
		f := E - e*sinE - M
		if math.Abs(f) <= tol {
			return E, nil
		}
		fPrime := 1 - e*cosE
		fSecond := e * sinE
		E -= 2 * f * fPrime / (2*fPrime*fPrime - f*fSecond)
	}
	return E, fmt.Errorf("%w: Halley's method did not converge (M=%g e=%g)", ErrNumericalFailure, M, e)
}

// OrbitalElements are osculating Keplerian elements in the units of the JPL
// approximate tables: semi-major axis in AU, angles in degrees.
type OrbitalElements struct {
	Axis          float64 // semi-major axis [AU]
	Eccentricity  float64
	Inclination   float64 // [deg]
	MeanAnomaly   float64 // [deg]
	ArgPerihelion float64 // [deg]
	LongNode      float64 // [deg]

	// MeanMotion is the rate of the mean anomaly of the model which
	// produced these elements [deg/day]. StateFromElements does not use it:
	// the analytic velocity always follows the two-body rate sqrt(μ/a³).
	MeanMotion float64
}

// ElementRates is a row of the Standish long-form table: Keplerian elements
// at J2000 with their per-century rates, valid 3000 BC through AD 3000, plus
// the additional terms b, c, s, f which augment the computation of the mean
// anomaly. The augmentation terms are only non-zero for Jupiter through
// Pluto; leaving them zero for the other bodies implements the gating by
// body identity required by the tables.
type ElementRates struct {
	Axis, Eccentricity, Inclination  float64 // a [AU], e [-], i [deg]
	MeanLongitude, LongPerihelion    float64 // L, ϖ [deg]
	LongNode                         float64 // Ω [deg]
	AxisDot, EccentricityDot         float64 // per century
	InclinationDot, MeanLongitudeDot float64
	LongPerihelionDot, LongNodeDot   float64
	AugB, AugC, AugS, AugF           float64 // M augmentation terms
}

// ElementsAt evaluates the table row at T centuries past J2000.0.
func (p ElementRates) ElementsAt(T float64) OrbitalElements {
	a := p.Axis + p.AxisDot*T
	e := p.Eccentricity + p.EccentricityDot*T
	i := p.Inclination + p.InclinationDot*T
	L := p.MeanLongitude + p.MeanLongitudeDot*T
	ϖ := p.LongPerihelion + p.LongPerihelionDot*T
	Ω := p.LongNode + p.LongNodeDot*T
	// Mean anomaly augmentation for the outer planets. Omitting this leads
	// to position errors of thousands of kilometers near epoch boundaries.
	M := L - ϖ + p.AugB*T*T + p.AugC*math.Cos(p.AugF*T*deg2rad) + p.AugS*math.Sin(p.AugF*T*deg2rad)
	// dM/dT including the augmentation terms, converted to degrees per day.
	MDot := p.MeanLongitudeDot - p.LongPerihelionDot + 2*p.AugB*T +
		(p.AugS*math.Cos(p.AugF*T*deg2rad)-p.AugC*math.Sin(p.AugF*T*deg2rad))*p.AugF*deg2rad
	return OrbitalElements{
		Axis:          a,
		Eccentricity:  e,
		Inclination:   i,
		MeanAnomaly:   modDegrees(M),
		ArgPerihelion: modDegrees(ϖ - Ω),
		LongNode:      modDegrees(Ω),
		MeanMotion:    MDot / JulianCentury,
	}
}

// PerihelionElements is the small body element form used for comets,
// asteroids, and dwarf planets beyond the eight major rows: static elements
// with a perihelion passage epoch and a mean motion.
type PerihelionElements struct {
	Axis              float64 // [AU]
	Eccentricity      float64
	Inclination       float64 // [deg]
	ArgPerihelion     float64 // [deg]
	LongNode          float64 // [deg]
	PerihelionPassage float64 // [JED]
	MeanMotion        float64 // [deg/day]
}

// ElementsAt evaluates the elements at the given Julian date.
func (p PerihelionElements) ElementsAt(jd float64) OrbitalElements {
	return OrbitalElements{
		Axis:          p.Axis,
		Eccentricity:  p.Eccentricity,
		Inclination:   p.Inclination,
		MeanAnomaly:   modDegrees(p.MeanMotion * (jd - p.PerihelionPassage)),
		ArgPerihelion: p.ArgPerihelion,
		LongNode:      p.LongNode,
		MeanMotion:    p.MeanMotion,
	}
}

// StateFromElements converts orbital elements into a Cartesian state in the
// ecliptic frame of the center body. μ is the gravitational parameter of the
// center body in m3/s2. Outputs in m and m/s; the velocity is analytic from
// the two-body solution, not numerically differenced.
func StateFromElements(el OrbitalElements, μ float64) (position, velocity Vector3D, err error) {
	E, err := SolveKeplerHalley(el.MeanAnomaly*deg2rad, el.Eccentricity, HalleyTolerance)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	sinE, cosE := math.Sincos(E)
	a := el.Axis * ASTRONOMICALUNIT // [m]
	e := el.Eccentricity
	b := math.Sqrt(1 - e*e)

	// Position in the orbital plane, x towards perihelion.
	plane := Vector3D{X: a * (cosE - e), Y: a * b * sinE}

	// Two-body mean motion and the eccentric anomaly rate from Kepler's
	// equation.
	n := math.Sqrt(μ / (a * a * a))
	EDot := n / (1 - e*cosE)
	planeVel := Vector3D{X: -a * sinE * EDot, Y: a * b * cosE * EDot}

	position = EclipticFromOrbitPlane(plane, el.LongNode, el.Inclination, el.ArgPerihelion)
	velocity = EclipticFromOrbitPlane(planeVel, el.LongNode, el.Inclination, el.ArgPerihelion)
	return position, velocity, nil
}

// ElementsFromState converts a Cartesian state in the ecliptic frame of the
// center body back into orbital elements. From Vallado's RV2COE, page 113.
// The degenerate cases are deterministic: for e->0 the argument of
// perihelion is reported as 0, for i->0 the longitude of the ascending node
// is reported as 0.
func ElementsFromState(position, velocity Vector3D, μ float64) OrbitalElements {
	r := position.Norm()
	v := velocity.Norm()
	hVec := position.Cross(velocity)
	nVec := Vector3D{Z: 1}.Cross(hVec)
	n := nVec.Norm()

	ξ := v*v/2 - μ/r
	a := -μ / (2 * ξ)

	eVec := position.ScalarProduct(v*v - μ/r).Minus(velocity.ScalarProduct(position.Dot(velocity))).ScalarProduct(1 / μ)
	e := eVec.Norm()

	i := math.Acos(clamp1(hVec.Z / hVec.Norm()))

	// The node direction degenerates with sin(i); compare it against the
	// angular momentum scale, not against an absolute epsilon.
	circular := floats.EqualWithinAbs(e, 0, 1e-11)
	equatorial := n <= 1e-10*hVec.Norm()

	var Ω float64
	if !equatorial {
		Ω = math.Acos(clamp1(nVec.X / n))
		if nVec.Y < 0 {
			Ω = 2*math.Pi - Ω
		}
	}

	var ω float64
	if !circular {
		if equatorial {
			// Equatorial orbit: the node is undefined and reported as 0, so
			// the perihelion is measured from the x axis.
			ω = math.Atan2(eVec.Y, eVec.X)
			if ω < 0 {
				ω += 2 * math.Pi
			}
		} else {
			ω = math.Acos(clamp1(nVec.Dot(eVec) / (n * e)))
			if eVec.Z < 0 {
				ω = 2*math.Pi - ω
			}
		}
	}

	var ν float64
	if circular {
		// Circular orbit: measure from the ascending node (or from x for the
		// circular equatorial case), in the direction of motion.
		ref := nVec
		if equatorial {
			ref = Vector3D{X: 1}
		}
		ν = math.Acos(clamp1(ref.Dot(position) / (ref.Norm() * r)))
		if ref.Cross(position).Dot(hVec) < 0 {
			ν = 2*math.Pi - ν
		}
	} else {
		ν = math.Acos(clamp1(eVec.Dot(position) / (e * r)))
		if position.Dot(velocity) < 0 {
			ν = 2*math.Pi - ν
		}
	}

	// Eccentric anomaly from the true anomaly, then Kepler's equation for M.
	sinν, cosν := math.Sincos(ν)
	denom := 1 + e*cosν
	sinE := math.Sqrt(1-e*e) * sinν / denom
	cosE := (e + cosν) / denom
	E := math.Atan2(sinE, cosE)
	M := E - e*sinE

	return OrbitalElements{
		Axis:          a / ASTRONOMICALUNIT,
		Eccentricity:  e,
		Inclination:   Rad2deg(i),
		MeanAnomaly:   modDegrees(M / deg2rad),
		ArgPerihelion: modDegrees(ω / deg2rad),
		LongNode:      modDegrees(Ω / deg2rad),
	}
}

// OrbitRing samples the orbit described by the elements as a closed ring of
// 360 equally spaced true anomaly positions in the ecliptic frame of the
// center body [m]. Used for visualization; not consumed by the propagator.
func OrbitRing(el OrbitalElements) []Vector3D {
	ring := make([]Vector3D, 360)
	a := el.Axis * ASTRONOMICALUNIT
	p := a * (1 - el.Eccentricity*el.Eccentricity)
	for j := 0; j < 360; j++ {
		sinν, cosν := math.Sincos(float64(j) * deg2rad)
		r := p / (1 + el.Eccentricity*cosν)
		plane := Vector3D{X: r * cosν, Y: r * sinν}
		ring[j] = EclipticFromOrbitPlane(plane, el.LongNode, el.Inclination, el.ArgPerihelion)
	}
	return ring
}

// modDegrees reduces an angle in degrees to [0, 360).
func modDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// clamp1 clamps a cosine to [-1, 1] to protect the Acos calls against
// floating point rounding just outside the domain.
func clamp1(c float64) float64 {
	if c > 1 {
		return 1
	}
	if c < -1 {
		return -1
	}
	return c
}
