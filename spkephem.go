package ssd

import (
	"fmt"
	"sort"
	"time"
)

/* Ephemeris sources backed by SPK kernels. Each source owns one or more
kernel windows which are opened lazily on first use and kept open for the
life of the process. The kernels deliver states in the J2000 equatorial
frame in km; the sources apply the obliquity rotation and scale to deliver
ecliptic output in m and m/s. */

// spkWindow is one kernel file covering a date window.
type spkWindow struct {
	path        string
	first, last time.Time
	spk         *SPK
}

func (w *spkWindow) reader() (*SPK, error) {
	if w.spk == nil {
		spk, err := OpenSPK(w.path)
		if err != nil {
			return nil, err
		}
		w.spk = spk
	}
	return w.spk, nil
}

// spkState reads a state from the window kernel and converts it to ecliptic
// meters and meters per second.
func (w *spkWindow) spkState(et float64, target, observer int) (Vector3D, Vector3D, error) {
	spk, err := w.reader()
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	pos, vel, err := spk.StateAt(et, target, observer)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	return EquatorialToEcliptic(pos.ScalarProduct(1e3)), EquatorialToEcliptic(vel.ScalarProduct(1e3)), nil
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MoonSystemEphemeris serves the moons of one outer planet from satellite
// kernels. States are relative to the owning planet: the composite ephemeris
// wraps this source with a translator before exposing it.
type MoonSystemEphemeris struct {
	planet       string
	observer     int // NAIF id of the planet system barycenter
	planetTarget int // NAIF id of the planet itself
	targets      map[string]int
	bodies       []string
	windows      []*spkWindow
}

// NewSaturnMoonsEphemeris serves the nine major moons of Saturn from the
// sat427 excerpt kernels, two concatenated windows 1970-1999 and 2000-2029.
func NewSaturnMoonsEphemeris() *MoonSystemEphemeris {
	cfg := ssdConfig()
	return newMoonSystem("Saturn", 6, 699,
		map[string]int{
			"Mimas": 601, "Enceladus": 602, "Tethys": 603, "Dione": 604,
			"Rhea": 605, "Titan": 606, "Hyperion": 607, "Iapetus": 608, "Phoebe": 609,
		},
		[]*spkWindow{
			{path: cfg.kernelPath("sat427_SaturnSystem_1970_1999.bsp"),
				first: utcDate(1970, time.January, 1), last: utcDate(2000, time.January, 1)},
			{path: cfg.kernelPath("sat427_SaturnSystem_2000_2029.bsp"),
				first: utcDate(2000, time.January, 1), last: utcDate(2030, time.January, 1)},
		})
}

// NewUranusMoonsEphemeris serves the five major moons of Uranus from the
// ura111 excerpt kernel, valid 1970 through 2025.
func NewUranusMoonsEphemeris() *MoonSystemEphemeris {
	cfg := ssdConfig()
	return newMoonSystem("Uranus", 7, 799,
		map[string]int{
			"Miranda": 705, "Ariel": 701, "Umbriel": 702, "Titania": 703, "Oberon": 704,
		},
		[]*spkWindow{
			{path: cfg.kernelPath("ura111_UranusSystem_1970_2025.bsp"),
				first: utcDate(1970, time.January, 2), last: utcDate(2025, time.December, 31)},
		})
}

// NewNeptuneMoonsEphemeris serves Triton, Nereid, and Proteus from the
// nep081 excerpt kernel, valid 1970 through 2025.
func NewNeptuneMoonsEphemeris() *MoonSystemEphemeris {
	cfg := ssdConfig()
	return newMoonSystem("Neptune", 8, 899,
		map[string]int{
			"Triton": 801, "Nereid": 802, "Proteus": 808,
		},
		[]*spkWindow{
			{path: cfg.kernelPath("nep081_NeptuneMoons_1970_2025.bsp"),
				first: utcDate(1970, time.January, 2), last: utcDate(2025, time.December, 31)},
		})
}

func newMoonSystem(planet string, observer, planetTarget int, targets map[string]int, windows []*spkWindow) *MoonSystemEphemeris {
	e := &MoonSystemEphemeris{
		planet:       planet,
		observer:     observer,
		planetTarget: planetTarget,
		targets:      targets,
		windows:      windows,
	}
	for name := range targets {
		e.bodies = append(e.bodies, name)
	}
	sort.Strings(e.bodies)
	return e
}

// Planet returns the name of the owning planet.
func (e *MoonSystemEphemeris) Planet() string { return e.planet }

// FirstValidDate implements the Ephemeris interface.
func (e *MoonSystemEphemeris) FirstValidDate() time.Time { return e.windows[0].first }

// LastValidDate implements the Ephemeris interface.
func (e *MoonSystemEphemeris) LastValidDate() time.Time { return e.windows[len(e.windows)-1].last }

// Bodies implements the Ephemeris interface.
func (e *MoonSystemEphemeris) Bodies() []string {
	out := make([]string, len(e.bodies))
	copy(out, e.bodies)
	return out
}

// BodyState returns the state of the moon relative to its planet, in the
// ecliptic frame [m, m/s].
func (e *MoonSystemEphemeris) BodyState(name string, dt time.Time) (Vector3D, Vector3D, error) {
	target, ok := e.targets[name]
	if !ok {
		return Vector3D{}, Vector3D{}, fmt.Errorf("%w: %q for %s system", ErrUnknownBody, name, e.planet)
	}
	if err := checkRange(e, dt); err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	w := e.windows[0]
	for _, cand := range e.windows[1:] {
		if !dt.Before(cand.first) {
			w = cand
		}
	}
	et := SecondsPastJ2000(dt)
	// The kernels carry moon and planet relative to the system barycenter.
	moonPos, moonVel, err := w.spkState(et, target, e.observer)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	planetPos, planetVel, err := w.spkState(et, e.planetTarget, e.observer)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	return moonPos.Minus(planetPos), moonVel.Minus(planetVel), nil
}

/* NAIF ids of the planetary kernel. Targets 1 through 9 are the planet
system barycenters, 10 is the Sun; Earth (399) and the Moon (301) are
carried relative to the Earth-Moon barycenter (3). */

// PlanetsEphemeris is the accurate source for the major bodies, backed by a
// DE kernel excerpt covering 1620 through 2200. It also answers barycentric
// queries (states relative to the solar system barycenter).
type PlanetsEphemeris struct {
	window  *spkWindow
	targets map[string]int
	bodies  []string
}

// NewPlanetsEphemeris returns the DE-backed source for the major bodies.
func NewPlanetsEphemeris() *PlanetsEphemeris {
	cfg := ssdConfig()
	e := &PlanetsEphemeris{
		window: &spkWindow{
			path:  cfg.kernelPath("de405_1620_2200.bsp"),
			first: utcDate(1620, time.January, 1),
			last:  utcDate(2200, time.January, 1),
		},
		targets: map[string]int{
			"Mercury": 1, "Venus": 2, "Mars": 4, "Jupiter": 5, "Saturn": 6,
			"Uranus": 7, "Neptune": 8, "Pluto System": 9, "Sun": 10,
			EarthMoonBarycenterName: 3,
		},
	}
	for name := range e.targets {
		e.bodies = append(e.bodies, name)
	}
	e.bodies = append(e.bodies, "Earth", "Moon")
	sort.Strings(e.bodies)
	return e
}

// FirstValidDate implements the Ephemeris interface.
func (e *PlanetsEphemeris) FirstValidDate() time.Time { return e.window.first }

// LastValidDate implements the Ephemeris interface.
func (e *PlanetsEphemeris) LastValidDate() time.Time { return e.window.last }

// Bodies implements the Ephemeris interface.
func (e *PlanetsEphemeris) Bodies() []string {
	out := make([]string, len(e.bodies))
	copy(out, e.bodies)
	return out
}

// BodyState implements the Ephemeris interface: heliocentric ecliptic state.
func (e *PlanetsEphemeris) BodyState(name string, dt time.Time) (Vector3D, Vector3D, error) {
	pos, vel, err := e.BodyStateBarycenter(name, dt)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	sunPos, sunVel, err := e.BodyStateBarycenter("Sun", dt)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	return pos.Minus(sunPos), vel.Minus(sunVel), nil
}

// BodyStateBarycenter returns the state relative to the solar system
// barycenter, implementing the BarycentricEphemeris interface.
func (e *PlanetsEphemeris) BodyStateBarycenter(name string, dt time.Time) (Vector3D, Vector3D, error) {
	if err := checkRange(e, dt); err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	et := SecondsPastJ2000(dt)
	switch name {
	case "Earth", "Moon":
		// Both are carried relative to the Earth-Moon barycenter.
		embPos, embVel, err := e.window.spkState(et, 3, 0)
		if err != nil {
			return Vector3D{}, Vector3D{}, err
		}
		target := 399
		if name == "Moon" {
			target = 301
		}
		relPos, relVel, err := e.window.spkState(et, target, 3)
		if err != nil {
			return Vector3D{}, Vector3D{}, err
		}
		return embPos.Plus(relPos), embVel.Plus(relVel), nil
	case "Pluto":
		name = "Pluto System"
	}
	target, ok := e.targets[name]
	if !ok {
		return Vector3D{}, Vector3D{}, fmt.Errorf("%w: %q for planetary kernel", ErrUnknownBody, name)
	}
	return e.window.spkState(et, target, 0)
}
