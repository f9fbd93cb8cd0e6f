package ssd

import (
	"fmt"
	"time"
)

// EarthMoonBarycenterName is the pseudo body served by sources which model
// the barycenter of the Earth-Moon system.
const EarthMoonBarycenterName = "EarthMoonBarycenter"

// KeplerEphemeris is the approximate Keplerian ephemeris. It evaluates the
// long-form element tables (with the outer planet mean anomaly augmentation)
// and the small body elements of the registry, and is valid over the whole
// 3000 BC through AD 3000 domain. Velocities are analytic from the two-body
// solution.
type KeplerEphemeris struct {
	params      *Params
	first, last time.Time
	sunμ        float64
	bodies      []string
}

// NewKeplerEphemeris returns the approximate source backed by the registry.
func NewKeplerEphemeris(params *Params) *KeplerEphemeris {
	sunμ, _ := params.Mu("Sun")
	e := &KeplerEphemeris{
		params: params,
		first:  time.Date(-2999, time.January, 1, 0, 0, 0, 0, time.UTC),
		last:   time.Date(3000, time.January, 1, 0, 0, 0, 0, time.UTC),
		sunμ:   sunμ,
	}
	e.bodies = append(e.bodies, "Sun")
	e.bodies = append(e.bodies, params.Planets()...)
	e.bodies = append(e.bodies, params.Moons()...)
	e.bodies = append(e.bodies, EarthMoonBarycenterName)
	return e
}

// FirstValidDate implements the Ephemeris interface.
func (e *KeplerEphemeris) FirstValidDate() time.Time { return e.first }

// LastValidDate implements the Ephemeris interface.
func (e *KeplerEphemeris) LastValidDate() time.Time { return e.last }

// Bodies implements the Ephemeris interface.
func (e *KeplerEphemeris) Bodies() []string {
	out := make([]string, len(e.bodies))
	copy(out, e.bodies)
	return out
}

// Elements returns the osculating elements of the named body at the given
// date, in the frame of its center body (the Sun for planet-class bodies).
func (e *KeplerEphemeris) Elements(name string, dt time.Time) (OrbitalElements, error) {
	if name == EarthMoonBarycenterName {
		// The long-form Earth row describes the Earth-Moon barycenter.
		name = "Earth"
	}
	b, err := e.params.Body(name)
	if err != nil {
		return OrbitalElements{}, err
	}
	switch {
	case b.Rates != nil:
		return b.Rates.ElementsAt(CenturiesPastJ2000(dt)), nil
	case b.Perihelion != nil:
		return b.Perihelion.ElementsAt(JulianDate(dt)), nil
	}
	return OrbitalElements{}, fmt.Errorf("%w: no orbital elements for %q", ErrUnknownBody, name)
}

// BodyState implements the Ephemeris interface.
func (e *KeplerEphemeris) BodyState(name string, dt time.Time) (Vector3D, Vector3D, error) {
	if err := checkRange(e, dt); err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	if name == "Sun" {
		return Vector3D{}, Vector3D{}, nil
	}
	lookup := name
	if name == EarthMoonBarycenterName {
		lookup = "Earth"
	}
	b, err := e.params.Body(lookup)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	el, err := e.Elements(name, dt)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	if b.CenterBody == "" {
		return StateFromElements(el, e.sunμ)
	}
	// Moon-class body: the elements are relative to the owning planet, so
	// translate by the planet's heliocentric state.
	μ, err := e.params.Mu(b.CenterBody)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	relPos, relVel, err := StateFromElements(el, μ)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	planetPos, planetVel, err := e.BodyState(b.CenterBody, dt)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	return relPos.Plus(planetPos), relVel.Plus(planetVel), nil
}
