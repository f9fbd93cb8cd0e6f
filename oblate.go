package ssd

import (
	"fmt"
	"time"
)

// MaxPlanetSystemStep bounds the sub-steps of a planet system independently
// of the heliocentric step.
const MaxPlanetSystemStep = 10 * time.Minute

// DefaultOblatenessRadius is the distance from the central body beyond which
// the zonal term is dropped. It comfortably covers the major moons; further
// out the term is below the accuracy floor of the propagator.
const DefaultOblatenessRadius = 4e9 // [m]

// PlanetSystem is a particle system for a planet and its moons, with states
// relative to the planet. The central planet contributes an oblateness
// (zonal J2) acceleration to nearby particles on top of its point mass term.
type PlanetSystem struct {
	*ParticleSystem
	planetName string
	planetIdx  int
}

// NewPlanetSystem returns an empty system for the named planet. The planet
// particle itself must be the first particle added.
func NewPlanetSystem(planetName string, params *Params) (*PlanetSystem, error) {
	b, err := params.Body(planetName)
	if err != nil {
		return nil, err
	}
	s := &PlanetSystem{ParticleSystem: NewParticleSystem(), planetName: planetName, planetIdx: -1}
	if b.Oblateness != nil {
		μ, err := params.Mu(planetName)
		if err != nil {
			return nil, err
		}
		s.Perturbation = oblatePerturbation(s.lookupPlanet, b.Oblateness, μ, DefaultOblatenessRadius)
	}
	return s, nil
}

// PlanetName returns the name of the central planet.
func (s *PlanetSystem) PlanetName() string { return s.planetName }

func (s *PlanetSystem) lookupPlanet() int {
	if s.planetIdx >= 0 && s.planetIdx < len(s.names) && s.names[s.planetIdx] == s.planetName {
		return s.planetIdx
	}
	s.planetIdx = -1
	for i, n := range s.names {
		if n == s.planetName {
			s.planetIdx = i
			break
		}
	}
	return s.planetIdx
}

// Planet returns the central planet particle.
func (s *PlanetSystem) Planet() (*Particle, error) {
	p := s.Particle(s.planetName)
	if p == nil {
		return nil, fmt.Errorf("%w: %q has no central particle", ErrUnknownBody, s.planetName)
	}
	return p, nil
}

// CorrectDriftTo re-centers the system so that the central planet lies at
// the given anchor state. The orchestrator uses it to re-synchronize the
// system with the heliocentric planet position before integration.
func (s *PlanetSystem) CorrectDriftTo(position, velocity Vector3D) error {
	planet, err := s.Planet()
	if err != nil {
		return err
	}
	s.correctDriftBy(planet.position.Minus(position), planet.velocity.Minus(velocity))
	return nil
}

// CorrectDrift re-pins the central planet back to the local origin after
// integration, so stored states are planet-relative again.
func (s *PlanetSystem) CorrectDrift() {
	planet, err := s.Planet()
	if err != nil {
		return
	}
	s.correctDriftBy(planet.position, planet.velocity)
}

// Advance iterates the system over Δt with Runge-Kutta sub-steps of at most
// ten minutes (negative Δt advances backward).
func (s *PlanetSystem) Advance(Δt time.Duration) error {
	step := MaxPlanetSystemStep
	if absDuration(Δt) < step {
		step = absDuration(Δt)
	}
	if step == 0 {
		return nil
	}
	if Δt < 0 {
		step = -step
	}
	var total time.Duration
	for absDuration(total) < absDuration(Δt) {
		if err := s.AdvanceRK4(step); err != nil {
			return err
		}
		total += step
	}
	return nil
}

// oblatePerturbation returns the zonal J2 acceleration of an oblate body on
// the particles around it. The term is evaluated in the body-fixed frame
// spanned by the IAU pole orientation and dropped beyond the cutoff radius.
// Cartesian formulation of the J2 acceleration as in the classical
// perturbation treatments.
func oblatePerturbation(centerIdx func() int, ob *OblatenessParams, μ float64, cutoff float64) func(string, int, []Vector3D, []Vector3D) Vector3D {
	pole := poleVector(ob.PoleRA, ob.PoleDec)
	accJ2 := 1.5 * ob.J2 * ob.EquatorialRadius * ob.EquatorialRadius * μ
	return func(name string, i int, pos, vel []Vector3D) Vector3D {
		c := centerIdx()
		if c < 0 || i == c {
			return Vector3D{}
		}
		rel := pos[i].Minus(pos[c])
		r := rel.Norm()
		if r == 0 || r > cutoff {
			return Vector3D{}
		}
		// z is the component along the body's rotation axis; the field is
		// axisymmetric so no further frame alignment is needed.
		z := rel.Dot(pole)
		r2 := r * r
		r5 := r2 * r2 * r
		radial := rel.ScalarProduct((5*z*z/r2 - 1) / r5)
		axial := pole.ScalarProduct(2 * z / r5)
		return radial.Minus(axial).ScalarProduct(accJ2)
	}
}
