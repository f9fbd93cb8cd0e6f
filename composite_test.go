package ssd

import (
	"errors"
	"testing"
	"time"
)

func compositeForTest() *SolarSystemEphemeris {
	return NewSolarSystemEphemeris(DefaultParams(), nil)
}

func TestCompositeFallsBackToKepler(t *testing.T) {
	e := compositeForTest()
	dt := utc(2017, time.January, 1, 0, 0)
	pos, _, err := e.BodyState("Jupiter", dt)
	if err != nil {
		t.Fatal(err)
	}
	if r := pos.Norm() / ASTRONOMICALUNIT; r < 4.9 || r > 5.5 {
		t.Fatalf("Jupiter at %f AU", r)
	}
	// "Pluto System" is an alias of Pluto outside the kernel window.
	p1, _, err := e.BodyState("Pluto System", dt)
	if err != nil {
		t.Fatal(err)
	}
	p2, _, err := e.BodyState("Pluto", dt)
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Fatal("Pluto System and Pluto must agree on the approximate source")
	}
}

func TestCompositeServesMoonsViaFallback(t *testing.T) {
	e := compositeForTest()
	dt := utc(2017, time.January, 1, 0, 0)
	titanPos, _, err := e.BodyState("Titan", dt)
	if err != nil {
		t.Fatal(err)
	}
	saturnPos, _, err := e.BodyState("Saturn", dt)
	if err != nil {
		t.Fatal(err)
	}
	d := titanPos.EuclideanDistance(saturnPos)
	if d < 1.1e9 || d > 1.35e9 {
		t.Fatalf("Titan at %g m from Saturn, expected about 1.22e9", d)
	}
}

func TestCompositeBodiesUnion(t *testing.T) {
	e := compositeForTest()
	bodies := make(map[string]bool)
	for _, name := range e.Bodies() {
		bodies[name] = true
	}
	for _, name := range []string{"Sun", "Earth", "Moon", "Halley", "Titan", "Triton", EarthMoonBarycenterName} {
		if !bodies[name] {
			t.Fatalf("composite does not serve %s", name)
		}
	}
}

func TestCompositeBarycentricUnsupportedWithoutKernels(t *testing.T) {
	e := compositeForTest()
	if ssdConfig().SPK {
		t.Skip("kernels configured, barycentric queries are supported")
	}
	_, _, err := e.BodyStateBarycenter("Earth", utc(2017, time.January, 1, 0, 0))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected Unsupported, got %v", err)
	}
}

func TestCompositeRangeErrors(t *testing.T) {
	e := compositeForTest()
	if _, _, err := e.BodyState("Earth", utc(3456, time.January, 1, 0, 0)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	if _, _, err := e.BodyState("Nix", utc(2017, time.January, 1, 0, 0)); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("expected UnknownBody, got %v", err)
	}
}

// The ratio of the Sun-Ceres and Earth-Moon distances at the time of the
// X28 solar flare. The Earth-Moon leg needs the accurate kernel; without
// the kernels the approximate lunar elements are not date-corrected.
func TestSunCeresEarthMoonRatio(t *testing.T) {
	if !ssdConfig().SPK {
		t.Skip("SPK kernels not configured")
	}
	e := compositeForTest()
	dt := utc(2003, time.November, 4, 19, 53)

	earth, _, err := e.BodyState("Earth", dt)
	if err != nil {
		t.Fatal(err)
	}
	moon, _, err := e.BodyState("Moon", dt)
	if err != nil {
		t.Fatal(err)
	}
	sun, _, err := e.BodyState("Sun", dt)
	if err != nil {
		t.Fatal(err)
	}
	ceres, _, err := e.BodyState("Ceres", dt)
	if err != nil {
		t.Fatal(err)
	}

	distEarthMoon := earth.EuclideanDistance(moon) / ASTRONOMICALUNIT
	distCeresSun := sun.EuclideanDistance(ceres) / ASTRONOMICALUNIT
	ratio := distCeresSun / distEarthMoon
	if ratio < 1000.07 || ratio > 1000.09 {
		t.Fatalf("ratio = %f, expected 1000.08 +/- 0.01", ratio)
	}
}
