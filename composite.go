package ssd

import (
	"errors"
	"sort"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// SolarSystemEphemeris is the composite source used by the orchestrator. It
// dispatches by body and date: the precomputed kernels where their windows
// cover the request (they are always the narrower, higher fidelity source),
// the approximate Keplerian source everywhere else. Moon system sources
// deliver planetocentric states and are translated by the owning planet's
// heliocentric state before leaving this source.
type SolarSystemEphemeris struct {
	params      *Params
	kepler      *KeplerEphemeris
	accurate    *PlanetsEphemeris
	moonSystems map[string]*MoonSystemEphemeris
	logger      kitlog.Logger
}

// NewSolarSystemEphemeris builds the composite source. When the SPK kernels
// are not configured the service runs on the approximate source alone.
func NewSolarSystemEphemeris(params *Params, logger kitlog.Logger) *SolarSystemEphemeris {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	e := &SolarSystemEphemeris{
		params:      params,
		kepler:      NewKeplerEphemeris(params),
		moonSystems: make(map[string]*MoonSystemEphemeris),
		logger:      logger,
	}
	if cfg := ssdConfig(); cfg.SPK {
		e.accurate = NewPlanetsEphemeris()
		for _, ms := range []*MoonSystemEphemeris{
			NewSaturnMoonsEphemeris(),
			NewUranusMoonsEphemeris(),
			NewNeptuneMoonsEphemeris(),
		} {
			e.moonSystems[ms.Planet()] = ms
		}
		logger.Log("level", "info", "subsys", "ephemeris", "spk", "enabled", "dir", cfg.SPKDir)
	} else {
		logger.Log("level", "info", "subsys", "ephemeris", "spk", "disabled")
	}
	return e
}

// FirstValidDate implements the Ephemeris interface. The composite is valid
// over the whole domain of the approximate source.
func (e *SolarSystemEphemeris) FirstValidDate() time.Time { return e.kepler.FirstValidDate() }

// LastValidDate implements the Ephemeris interface.
func (e *SolarSystemEphemeris) LastValidDate() time.Time { return e.kepler.LastValidDate() }

// Bodies implements the Ephemeris interface.
func (e *SolarSystemEphemeris) Bodies() []string {
	seen := make(map[string]bool)
	var out []string
	push := func(names ...string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	push(e.kepler.Bodies()...)
	for _, ms := range e.moonSystems {
		push(ms.Bodies()...)
	}
	sort.Strings(out)
	return out
}

// Elements returns the approximate osculating elements of the named body in
// the frame of its center body. Used to seed orbit rings.
func (e *SolarSystemEphemeris) Elements(name string, dt time.Time) (OrbitalElements, error) {
	return e.kepler.Elements(name, dt)
}

// BodyState implements the Ephemeris interface.
func (e *SolarSystemEphemeris) BodyState(name string, dt time.Time) (Vector3D, Vector3D, error) {
	if err := checkRange(e, dt); err != nil {
		return Vector3D{}, Vector3D{}, err
	}

	// Moons of the outer planet systems are served by their system kernel
	// where it covers the request and re-based onto the owning planet; the
	// approximate tables carry their mean elements as the fallback.
	if planet, err := e.params.PlanetOfMoon(name); err == nil && name != "Moon" {
		ms, ok := e.moonSystems[planet]
		if ok && withinRange(ms, dt) && serves(ms, name) {
			relPos, relVel, err := ms.BodyState(name, dt)
			if err == nil {
				planetPos, planetVel, perr := e.BodyState(planet, dt)
				if perr != nil {
					return Vector3D{}, Vector3D{}, perr
				}
				return relPos.Plus(planetPos), relVel.Plus(planetVel), nil
			}
			if !errors.Is(err, ErrIO) {
				return Vector3D{}, Vector3D{}, err
			}
			e.logger.Log("level", "warning", "subsys", "ephemeris", "body", name, "err", err)
		}
		// Orbit-element fallback for moons outside the kernel windows.
		return e.kepler.BodyState(name, dt)
	}

	// Major bodies: prefer the accurate kernel whenever its (narrower)
	// window covers the request.
	if e.accurate != nil && withinRange(e.accurate, dt) && accurateServes(name) {
		pos, vel, err := e.accurate.BodyState(name, dt)
		if err == nil {
			return pos, vel, nil
		}
		if !errors.Is(err, ErrIO) {
			return Vector3D{}, Vector3D{}, err
		}
		// A missing or unreadable kernel falls back to the approximate
		// source so the simulation can still be seeded.
		e.logger.Log("level", "warning", "subsys", "ephemeris", "body", name, "err", err)
	}
	if name == "Pluto System" {
		name = "Pluto"
	}
	return e.kepler.BodyState(name, dt)
}

// BodyStateBarycenter returns the state relative to the solar system
// barycenter. Only the accurate kernel models the barycenter; outside its
// window the operation is unsupported.
func (e *SolarSystemEphemeris) BodyStateBarycenter(name string, dt time.Time) (Vector3D, Vector3D, error) {
	if e.accurate == nil || !withinRange(e.accurate, dt) {
		return Vector3D{}, Vector3D{}, ErrUnsupported
	}
	return e.accurate.BodyStateBarycenter(name, dt)
}

func accurateServes(name string) bool {
	switch name {
	case "Sun", "Mercury", "Venus", "Earth", "Moon", "Mars", "Jupiter",
		"Saturn", "Uranus", "Neptune", "Pluto", "Pluto System", EarthMoonBarycenterName:
		return true
	}
	return false
}
