package ssd

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestSolveKeplerEquationFixedPointIteration(t *testing.T) {
	for e := 0.0; e < 1.0; e += 0.001 {
		for i := 0; i < 360; i++ {
			M := Deg2rad(float64(i))
			E, err := SolveKeplerFixedPoint(M, e, FixedPointTolerance)
			if err != nil {
				t.Fatalf("no convergence at M=%d° e=%.3f: %s", i, e, err)
			}
			if residual := M - (E - e*math.Sin(E)); !floats.EqualWithinAbs(residual, 0, FixedPointTolerance) {
				t.Fatalf("residual %g at M=%d° e=%.3f", residual, i, e)
			}
		}
	}
}

func TestSolveKeplerEquationNewtonRaphson(t *testing.T) {
	for e := 0.0; e < 1.0; e += 0.001 {
		for i := 0; i < 360; i++ {
			M := Deg2rad(float64(i))
			E, err := SolveKeplerNewton(M, e, NewtonTolerance)
			if err != nil {
				t.Fatalf("no convergence at M=%d° e=%.3f: %s", i, e, err)
			}
			if residual := M - (E - e*math.Sin(E)); !floats.EqualWithinAbs(residual, 0, NewtonTolerance) {
				t.Fatalf("residual %g at M=%d° e=%.3f", residual, i, e)
			}
		}
	}
}

func TestSolveKeplerEquationHalley(t *testing.T) {
	for e := 0.0; e < 1.0; e += 0.001 {
		for i := 0; i < 360; i++ {
			M := Deg2rad(float64(i))
			E, err := SolveKeplerHalley(M, e, HalleyTolerance)
			if err != nil {
				t.Fatalf("no convergence at M=%d° e=%.3f: %s", i, e, err)
			}
			if residual := M - (E - e*math.Sin(E)); !floats.EqualWithinAbs(residual, 0, HalleyTolerance) {
				t.Fatalf("residual %g at M=%d° e=%.3f", residual, i, e)
			}
		}
	}
}

// The three solvers must agree within their stated tolerances.
func TestKeplerSolverAgreement(t *testing.T) {
	for e := 0.0; e < 0.999; e += 0.009 {
		for i := 0; i < 360; i += 3 {
			M := Deg2rad(float64(i))
			fixed, err1 := SolveKeplerFixedPoint(M, e, FixedPointTolerance)
			newton, err2 := SolveKeplerNewton(M, e, NewtonTolerance)
			halley, err3 := SolveKeplerHalley(M, e, HalleyTolerance)
			if err1 != nil || err2 != nil || err3 != nil {
				t.Fatalf("solver failed at M=%d° e=%.3f: %v %v %v", i, e, err1, err2, err3)
			}
			// Fixed point bounds the residual of Kepler's equation, so the
			// agreement on E degrades with 1/(1-e).
			tol := FixedPointTolerance / (1 - e)
			if !floats.EqualWithinAbs(fixed, newton, tol) {
				t.Fatalf("fixed point and Newton disagree at M=%d° e=%.3f: %g vs %g", i, e, fixed, newton)
			}
			if !floats.EqualWithinAbs(newton, halley, 1e-12) {
				t.Fatalf("Newton and Halley disagree at M=%d° e=%.3f: %g vs %g", i, e, newton, halley)
			}
		}
	}
}

func elementRoundTrip(t *testing.T, name string, nrDays int, tolAxis, tolEcc, tolIncl, tolM, tolPeri, tolNode float64) {
	t.Helper()
	params := DefaultParams()
	body, err := params.Body(name)
	if err != nil {
		t.Fatal(err)
	}
	sunμ, _ := params.Mu("Sun")
	date := utc(2017, time.January, 1, 0, 0)
	for day := 0; day < nrDays; day++ {
		expected := body.Rates.ElementsAt(CenturiesPastJ2000(date))
		position, velocity, err := StateFromElements(expected, sunμ)
		if err != nil {
			t.Fatalf("day %d: %s", day, err)
		}
		actual := ElementsFromState(position, velocity, sunμ)
		if !floats.EqualWithinAbs(expected.Axis, actual.Axis, tolAxis) {
			t.Fatalf("wrong semi-major axis (day %d): %.16f vs %.16f", day, expected.Axis, actual.Axis)
		}
		if !floats.EqualWithinAbs(expected.Eccentricity, actual.Eccentricity, tolEcc) {
			t.Fatalf("wrong eccentricity (day %d): %.16f vs %.16f", day, expected.Eccentricity, actual.Eccentricity)
		}
		if !floats.EqualWithinAbs(expected.Inclination, actual.Inclination, tolIncl) {
			t.Fatalf("wrong inclination (day %d): %.16f vs %.16f", day, expected.Inclination, actual.Inclination)
		}
		if ok, err := anglesEqualWithin(expected.MeanAnomaly, actual.MeanAnomaly, tolM); !ok {
			t.Fatalf("wrong mean anomaly (day %d): %s", day, err)
		}
		if ok, err := anglesEqualWithin(expected.ArgPerihelion, actual.ArgPerihelion, tolPeri); !ok {
			t.Fatalf("wrong arg perihelion (day %d): %s", day, err)
		}
		if ok, err := anglesEqualWithin(expected.LongNode, actual.LongNode, tolNode); !ok {
			t.Fatalf("wrong long asc node (day %d): %s", day, err)
		}
		date = date.AddDate(0, 0, 1)
	}
}

// Jupiter orbits the Sun in twelve years; the element round trip must hold
// on every day of a full revolution.
func TestElementsRoundTripJupiter(t *testing.T) {
	nrDays := int(12 * 365.25)
	if testing.Short() {
		nrDays = 366
	}
	elementRoundTrip(t, "Jupiter", nrDays, 1e-14, 1e-13, 1e-12, 1e-8, 1e-7, 1e-13)
}

// Mercury orbits the Sun in 88 days.
func TestElementsRoundTripMercury(t *testing.T) {
	elementRoundTrip(t, "Mercury", 88, 1e-14, 1e-14, 1e-13, 1e-10, 1e-10, 1e-13)
}

// General round trip over the element space with e in [0, 0.95].
func TestElementsRoundTripGrid(t *testing.T) {
	params := DefaultParams()
	sunμ, _ := params.Mu("Sun")
	for _, e := range []float64{0, 0.1, 0.5, 0.8, 0.95} {
		for _, i := range []float64{0, 2, 45, 120} {
			el := OrbitalElements{
				Axis: 1.5, Eccentricity: e, Inclination: i,
				MeanAnomaly: 123.4, ArgPerihelion: 58.2, LongNode: 211.9,
			}
			position, velocity, err := StateFromElements(el, sunμ)
			if err != nil {
				t.Fatal(err)
			}
			back := ElementsFromState(position, velocity, sunμ)
			if !floats.EqualWithinAbs(el.Axis, back.Axis, 1e-8) {
				t.Fatalf("axis: %g vs %g (e=%g i=%g)", el.Axis, back.Axis, e, i)
			}
			if !floats.EqualWithinAbs(el.Eccentricity, back.Eccentricity, 1e-8) {
				t.Fatalf("eccentricity: %g vs %g (e=%g i=%g)", el.Eccentricity, back.Eccentricity, e, i)
			}
			if !floats.EqualWithinAbs(el.Inclination, back.Inclination, 1e-8) {
				t.Fatalf("inclination: %g vs %g (e=%g i=%g)", el.Inclination, back.Inclination, e, i)
			}
			if e == 0 || i == 0 {
				// Degenerate angles: only the state itself has to match.
				pos2, vel2, err := StateFromElements(back, sunμ)
				if err != nil {
					t.Fatal(err)
				}
				if d := pos2.EuclideanDistance(position); d > 1e-2 {
					t.Fatalf("degenerate state differs by %g m (e=%g i=%g)", d, e, i)
				}
				if d := vel2.EuclideanDistance(velocity); d > 1e-6 {
					t.Fatalf("degenerate velocity differs by %g m/s (e=%g i=%g)", d, e, i)
				}
				continue
			}
			if ok, err := anglesEqualWithin(el.MeanAnomaly, back.MeanAnomaly, 1e-8); !ok {
				t.Fatalf("mean anomaly (e=%g i=%g): %s", e, i, err)
			}
			if ok, err := anglesEqualWithin(el.ArgPerihelion, back.ArgPerihelion, 1e-7); !ok {
				t.Fatalf("arg perihelion (e=%g i=%g): %s", e, i, err)
			}
			if ok, err := anglesEqualWithin(el.LongNode, back.LongNode, 1e-8); !ok {
				t.Fatalf("long node (e=%g i=%g): %s", e, i, err)
			}
		}
	}
}

// The outer planet mean anomaly augmentation must be present for Jupiter
// through Pluto and absent for the inner planets.
func TestMeanAnomalyAugmentationGating(t *testing.T) {
	params := DefaultParams()
	for _, name := range []string{"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto"} {
		b, _ := params.Body(name)
		if b.Rates.AugB == 0 && b.Rates.AugC == 0 && b.Rates.AugS == 0 {
			t.Fatalf("%s is missing the mean anomaly augmentation", name)
		}
	}
	for _, name := range []string{"Mercury", "Venus", "Earth", "Mars"} {
		b, _ := params.Body(name)
		if b.Rates.AugB != 0 || b.Rates.AugC != 0 || b.Rates.AugS != 0 || b.Rates.AugF != 0 {
			t.Fatalf("%s must not carry the outer planet augmentation", name)
		}
	}
	// The augmentation moves Jupiter by thousands of kilometers away from
	// the epoch; dropping it must be visible in the state.
	jupiter, _ := params.Body("Jupiter")
	T := CenturiesPastJ2000(utc(2900, time.January, 1, 0, 0))
	full := jupiter.Rates.ElementsAt(T)
	bare := *jupiter.Rates
	bare.AugB, bare.AugC, bare.AugS, bare.AugF = 0, 0, 0, 0
	partial := bare.ElementsAt(T)
	sunμ, _ := params.Mu("Sun")
	p1, _, err := StateFromElements(full, sunμ)
	if err != nil {
		t.Fatal(err)
	}
	p2, _, err := StateFromElements(partial, sunμ)
	if err != nil {
		t.Fatal(err)
	}
	if d := p1.EuclideanDistance(p2); d < 1e6 {
		t.Fatalf("augmentation should move Jupiter by more than 1000 km near the epoch boundary, got %g m", d)
	}
}

func TestOrbitRing(t *testing.T) {
	el := OrbitalElements{Axis: 1, Eccentricity: 0.1, Inclination: 5, ArgPerihelion: 10, LongNode: 20}
	ring := OrbitRing(el)
	if len(ring) != 360 {
		t.Fatalf("expected 360 samples, got %d", len(ring))
	}
	perihelion := el.Axis * (1 - el.Eccentricity) * ASTRONOMICALUNIT
	aphelion := el.Axis * (1 + el.Eccentricity) * ASTRONOMICALUNIT
	for i, p := range ring {
		r := p.Norm()
		if r < perihelion-1e3 || r > aphelion+1e3 {
			t.Fatalf("sample %d outside the orbit: r=%g", i, r)
		}
	}
	if !floats.EqualWithinAbs(ring[0].Norm(), perihelion, 1e3) {
		t.Fatalf("first sample should be at perihelion: %g vs %g", ring[0].Norm(), perihelion)
	}
}
