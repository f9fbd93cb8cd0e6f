package ssd

import (
	"errors"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestKeplerEphemerisSunAtOrigin(t *testing.T) {
	e := NewKeplerEphemeris(DefaultParams())
	pos, vel, err := e.BodyState("Sun", utc(2017, time.March, 1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if pos != (Vector3D{}) || vel != (Vector3D{}) {
		t.Fatalf("the Sun must sit at the heliocentric origin: %+v %+v", pos, vel)
	}
}

func TestKeplerEphemerisErrors(t *testing.T) {
	e := NewKeplerEphemeris(DefaultParams())
	if _, _, err := e.BodyState("Vulcan", utc(2017, time.March, 1, 0, 0)); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("expected UnknownBody, got %v", err)
	}
	if _, _, err := e.BodyState("Earth", utc(3456, time.March, 1, 0, 0)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	if _, _, err := e.BodyState("Earth", utc(-3456, time.March, 1, 0, 0)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
}

// Earth must be around one astronomical unit from the Sun, moving at about
// thirty kilometers per second along its orbit.
func TestKeplerEphemerisEarthSanity(t *testing.T) {
	e := NewKeplerEphemeris(DefaultParams())
	for year := 1700; year <= 2300; year += 37 {
		pos, vel, err := e.BodyState("Earth", utc(year, time.June, 15, 0, 0))
		if err != nil {
			t.Fatal(err)
		}
		if r := pos.Norm() / ASTRONOMICALUNIT; r < 0.97 || r > 1.03 {
			t.Fatalf("Earth at %f AU in %d", r, year)
		}
		if v := vel.Norm(); v < 2.88e4 || v > 3.06e4 {
			t.Fatalf("Earth at %f m/s in %d", v, year)
		}
	}
}

// The Moon is served relative to the Earth and translated to heliocentric
// coordinates.
func TestKeplerEphemerisMoonAroundEarth(t *testing.T) {
	e := NewKeplerEphemeris(DefaultParams())
	dt := utc(2017, time.May, 28, 0, 0)
	moonPos, _, err := e.BodyState("Moon", dt)
	if err != nil {
		t.Fatal(err)
	}
	earthPos, _, err := e.BodyState("Earth", dt)
	if err != nil {
		t.Fatal(err)
	}
	d := moonPos.EuclideanDistance(earthPos)
	if d < 3.5e8 || d > 4.1e8 {
		t.Fatalf("Earth-Moon distance %g m", d)
	}
}

func TestKeplerEphemerisServesSmallBodies(t *testing.T) {
	e := NewKeplerEphemeris(DefaultParams())
	dt := utc(1986, time.February, 9, 0, 0) // perihelion of comet Halley
	pos, _, err := e.BodyState("Halley", dt)
	if err != nil {
		t.Fatal(err)
	}
	if r := pos.Norm() / ASTRONOMICALUNIT; r < 0.5 || r > 0.7 {
		t.Fatalf("Halley at %f AU at perihelion, expected about 0.586", r)
	}
}

// Consistency of position and velocity: the trapezoidal predictor
//
//	r(t+1h) ~ r(t) + 1800*(v(t) + v(t+1h))
//
// must hold within 500 m for every major body across the time domain.
func TestTrapezoidalPredictorMajorBodies(t *testing.T) {
	e := NewKeplerEphemeris(DefaultParams())
	majorBodies := []string{
		"Sun", "Mercury", "Venus", "Earth", "Moon", "Mars",
		"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
	}

	step := time.Hour
	check := func(dt time.Time) {
		t.Helper()
		for _, name := range majorBodies {
			p0, v0, err := e.BodyState(name, dt)
			if err != nil {
				t.Fatal(err)
			}
			p1, v1, err := e.BodyState(name, dt.Add(step))
			if err != nil {
				t.Fatal(err)
			}
			predicted := p0.Plus(v0.ScalarProduct(1800)).Plus(v1.ScalarProduct(1800))
			if d := predicted.EuclideanDistance(p1); !floats.EqualWithinAbs(d, 0, 500) {
				t.Fatalf("difference between position and predicted position for %s at %s: %g m", name, dt, d)
			}
		}
	}

	if testing.Short() {
		// One year of hourly pairs.
		for dt := utc(1999, time.January, 1, 0, 0); dt.Year() < 2000; dt = dt.Add(step) {
			check(dt)
		}
		return
	}
	// Hourly pairs at anchors spread over the 1620 through 2200 domain.
	for dt := utc(1620, time.January, 1, 0, 0); dt.Year() < 2200; dt = dt.AddDate(0, 0, 20) {
		check(dt)
	}
}
