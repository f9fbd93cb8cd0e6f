package ssd

import (
	"fmt"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// SimState is the orchestrator state machine. A fatal error during any
// transition returns the simulation to Unseeded.
type SimState uint8

const (
	// Unseeded means the simulation has no valid particle states yet.
	Unseeded SimState = iota
	// Ready means the simulation can be advanced.
	Ready
	// Advancing is the transient state during a macro tick.
	Advancing
	// EventPending is the transient state while a scheduled event is applied.
	EventPending
)

func (s SimState) String() string {
	switch s {
	case Unseeded:
		return "unseeded"
	case Ready:
		return "ready"
	case Advancing:
		return "advancing"
	case EventPending:
		return "event-pending"
	}
	panic("cannot stringify unknown simulation state")
}

const (
	// MacroStep is the macro time step of the simulation: general
	// relativity advances with a single Runge-Kutta step of this size,
	// Newton mechanics with two Adams-Bashforth-Moulton half steps.
	MacroStep = time.Hour
)

// SolarSystem owns the heliocentric particle system, the nested planet
// systems, the body arena, the Earth-Moon barycenter, and the event
// schedule. It is the only component which mutates particle states.
type SolarSystem struct {
	*ParticleSystem

	params *Params
	eph    *SolarSystemEphemeris
	logger kitlog.Logger

	arena         *bodyArena
	planetSystems map[string]*PlanetSystem
	centerBodies  map[string]string    // moon or spacecraft -> center body
	moonShadow    map[string]*Particle // absolute-state copies of subsystem moons
	emBarycenter  *Particle

	spacecraft map[string]*Spacecraft
	factories  map[string]TrajectoryFactory

	schedule  *EventSchedule
	nextEvent int

	simTime  time.Time
	simState SimState
	earthIdx int
}

// NewSolarSystem returns an unseeded solar system. Nil arguments select the
// default registry, a fresh composite ephemeris, and a no-op logger.
func NewSolarSystem(eph *SolarSystemEphemeris, params *Params, logger kitlog.Logger) *SolarSystem {
	if params == nil {
		params = DefaultParams()
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	if eph == nil {
		eph = NewSolarSystemEphemeris(params, logger)
	}
	s := &SolarSystem{
		ParticleSystem: NewParticleSystem(),
		params:         params,
		eph:            eph,
		logger:         logger,
		arena:          newBodyArena(),
		planetSystems:  make(map[string]*PlanetSystem),
		centerBodies:   make(map[string]string),
		moonShadow:     make(map[string]*Particle),
		spacecraft:     make(map[string]*Spacecraft),
		factories:      make(map[string]TrajectoryFactory),
		schedule:       &EventSchedule{},
		nextEvent:      -1,
		simState:       Unseeded,
		earthIdx:       -1,
	}
	// Earth oblateness shapes the acceleration of the Moon and of nearby
	// spacecraft in the heliocentric system.
	if earth, err := params.Body("Earth"); err == nil && earth.Oblateness != nil {
		μ, _ := params.Mu("Earth")
		s.Perturbation = oblatePerturbation(s.lookupEarth, earth.Oblateness, μ, DefaultOblatenessRadius)
	}
	return s
}

func (s *SolarSystem) lookupEarth() int {
	if s.earthIdx >= 0 && s.earthIdx < len(s.names) && s.names[s.earthIdx] == "Earth" {
		return s.earthIdx
	}
	s.earthIdx = -1
	for i, n := range s.names {
		if n == "Earth" {
			s.earthIdx = i
			break
		}
	}
	return s.earthIdx
}

// SimulationDateTime returns the current simulation date/time (UTC).
func (s *SolarSystem) SimulationDateTime() time.Time { return s.simTime }

// State returns the state machine position of the orchestrator.
func (s *SolarSystem) State() SimState { return s.simState }

// Ephemeris returns the composite ephemeris backing this simulation.
func (s *SolarSystem) Ephemeris() *SolarSystemEphemeris { return s.eph }

// Params returns the parameter registry backing this simulation.
func (s *SolarSystem) Params() *Params { return s.params }

// InitializeSimulation seeds (or re-seeds) every particle from the
// ephemeris sources for the given date/time and discards the multi-step
// integrator history. Sub-minute components of the date are truncated: all
// ephemeris data is in UTC with whole-minute resolution at the API edge.
func (s *SolarSystem) InitializeSimulation(dt time.Time) error {
	dt = dt.UTC().Truncate(time.Minute)
	if err := checkRange(s.eph, dt); err != nil {
		return err
	}
	s.simTime = dt

	if s.arena.get("Sun") == nil {
		if err := s.createBodies(); err != nil {
			s.simState = Unseeded
			return err
		}
	}
	if err := s.seedBodies(); err != nil {
		s.simState = Unseeded
		return err
	}
	if err := s.seedParticles(); err != nil {
		s.simState = Unseeded
		return err
	}
	s.updateEarthMoonBarycenter()
	s.nextEvent = s.schedule.NextAfter(s.simTime)
	s.SetValidABM4(false)
	s.simState = Ready
	s.logger.Log("level", "info", "subsys", "system", "status", "initialized", "date", s.simTime)
	return nil
}

// createBodies builds the Sun, the planet-class bodies, the Moon, and the
// Earth-Moon barycenter, with their particles.
func (s *SolarSystem) createBodies() error {
	sunMass, _ := s.params.Mass("Sun")
	sunμ, _ := s.params.Mu("Sun")
	sunDiameter, _ := s.params.Diameter("Sun")
	s.arena.add(Body{Name: "Sun", Diameter: sunDiameter, center: -1})
	s.AddParticle("Sun", NewParticle(sunMass, sunμ, Vector3D{}, Vector3D{}))

	plutoMass, _ := s.params.Mass("Pluto")
	for _, name := range s.params.Planets() {
		b, err := s.params.Body(name)
		if err != nil {
			return err
		}
		μ, _ := s.params.Mu(name)
		s.arena.add(Body{Name: name, Diameter: b.Diameter, center: -1})
		particle := NewParticle(b.Mass, μ, Vector3D{}, Vector3D{})
		if b.Mass >= plutoMass {
			// Bodies at least as massive as Pluto may apply force to
			// other objects.
			s.AddParticle(name, particle)
		} else {
			s.AddParticleWithoutMass(name, particle)
		}
	}

	// Earth's moon is a heliocentric particle: it applies forces to the
	// whole system, unlike the moons of the planet systems.
	moon, err := s.params.Body("Moon")
	if err != nil {
		return err
	}
	moonμ, _ := s.params.Mu("Moon")
	earthIdx := s.arena.index["Earth"]
	s.arena.add(Body{Name: "Moon", Diameter: moon.Diameter, center: earthIdx})
	s.AddParticle("Moon", NewParticle(moon.Mass, moonμ, Vector3D{}, Vector3D{}))
	s.centerBodies["Moon"] = "Earth"

	// The Earth-Moon barycenter is derived, never simulated.
	s.arena.add(Body{Name: EarthMoonBarycenterName, center: -1})
	s.emBarycenter = NewMasslessParticle(Vector3D{}, Vector3D{})
	return nil
}

// seedBodies moves every body to its ephemeris state for the simulation
// date/time and recomputes the orbit rings.
func (s *SolarSystem) seedBodies() error {
	sunμ, _ := s.params.Mu("Sun")
	for _, name := range append(s.params.Planets(), EarthMoonBarycenterName) {
		pos, vel, err := s.eph.BodyState(name, s.simTime)
		if err != nil {
			return err
		}
		body := s.arena.get(name)
		body.Position = pos
		body.Velocity = vel
		body.Orbit = OrbitRing(ElementsFromState(pos, vel, sunμ))
	}
	for moonName, planetName := range s.centerBodies {
		if _, isCraft := s.spacecraft[moonName]; isCraft {
			continue
		}
		relPos, relVel, err := s.moonRelativeState(moonName, planetName, s.simTime)
		if err != nil {
			return err
		}
		planetPos, planetVel, err := s.eph.BodyState(planetName, s.simTime)
		if err != nil {
			return err
		}
		μ, err := s.params.Mu(planetName)
		if err != nil {
			return err
		}
		body := s.arena.get(moonName)
		body.Position = relPos.Plus(planetPos)
		body.Velocity = relVel.Plus(planetVel)
		body.Orbit = OrbitRing(ElementsFromState(relPos, relVel, μ))
	}
	for _, craft := range s.spacecraft {
		pos, vel := craft.StateAt(s.simTime)
		body := s.arena.get(craft.Name())
		body.Position = pos
		body.Velocity = vel
	}
	return nil
}

// moonRelativeState returns the state of a moon relative to its planet.
func (s *SolarSystem) moonRelativeState(moonName, planetName string, dt time.Time) (Vector3D, Vector3D, error) {
	moonPos, moonVel, err := s.eph.BodyState(moonName, dt)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	planetPos, planetVel, err := s.eph.BodyState(planetName, dt)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	return moonPos.Minus(planetPos), moonVel.Minus(planetVel), nil
}

// seedParticles moves every particle to its ephemeris state.
func (s *SolarSystem) seedParticles() error {
	for _, name := range append([]string{"Sun"}, s.params.Planets()...) {
		pos, vel, err := s.eph.BodyState(name, s.simTime)
		if err != nil {
			return err
		}
		if p := s.Particle(name); p != nil {
			p.position = pos
			p.velocity = vel
		}
	}
	if p := s.Particle("Moon"); p != nil {
		pos, vel, err := s.eph.BodyState("Moon", s.simTime)
		if err != nil {
			return err
		}
		p.position = pos
		p.velocity = vel
	}
	for planetName, psys := range s.planetSystems {
		if err := s.seedPlanetSystem(planetName, psys); err != nil {
			return err
		}
	}
	for _, craft := range s.spacecraft {
		pos, vel := craft.StateAt(s.simTime)
		if p := s.Particle(craft.Name()); p != nil {
			p.position = pos
			p.velocity = vel
		}
	}
	return nil
}

func (s *SolarSystem) seedPlanetSystem(planetName string, psys *PlanetSystem) error {
	planet, err := psys.Planet()
	if err != nil {
		return err
	}
	planet.position = Vector3D{}
	planet.velocity = Vector3D{}
	for _, moonName := range s.params.MoonsOfPlanet(planetName) {
		p := psys.Particle(moonName)
		if p == nil {
			continue
		}
		relPos, relVel, err := s.moonRelativeState(moonName, planetName, s.simTime)
		if err != nil {
			return err
		}
		p.position = relPos
		p.velocity = relVel
		if shadow := s.moonShadow[moonName]; shadow != nil {
			planetPos, planetVel, err := s.eph.BodyState(planetName, s.simTime)
			if err != nil {
				return err
			}
			shadow.position = relPos.Plus(planetPos)
			shadow.velocity = relVel.Plus(planetVel)
		}
	}
	psys.SetValidABM4(false)
	return nil
}

// CreatePlanetSystem creates the nested system for the named planet's moons.
// The simulation date must lie within the ephemeris domain.
func (s *SolarSystem) CreatePlanetSystem(planetName string) error {
	if err := checkRange(s.eph, s.simTime); err != nil {
		return fmt.Errorf("cannot create %s system: %w", planetName, err)
	}
	if _, exists := s.planetSystems[planetName]; exists {
		return nil
	}
	psys, err := NewPlanetSystem(planetName, s.params)
	if err != nil {
		return err
	}
	psys.SetGeneralRelativity(s.GeneralRelativity())

	mass, _ := s.params.Mass(planetName)
	μ, _ := s.params.Mu(planetName)
	psys.AddParticle(planetName, NewParticle(mass, μ, Vector3D{}, Vector3D{}))

	planetIdx, hasPlanet := s.arena.index[planetName]
	if !hasPlanet {
		return fmt.Errorf("%w: %q", ErrUnknownBody, planetName)
	}
	for _, moonName := range s.params.MoonsOfPlanet(planetName) {
		b, err := s.params.Body(moonName)
		if err != nil {
			return err
		}
		moonμ, _ := s.params.Mu(moonName)
		relPos, relVel, err := s.moonRelativeState(moonName, planetName, s.simTime)
		if err != nil {
			return err
		}
		psys.AddParticle(moonName, NewParticle(b.Mass, moonμ, relPos, relVel))

		planetPos, planetVel, err := s.eph.BodyState(planetName, s.simTime)
		if err != nil {
			return err
		}
		s.moonShadow[moonName] = NewParticle(b.Mass, moonμ, relPos.Plus(planetPos), relVel.Plus(planetVel))
		s.centerBodies[moonName] = planetName
		s.arena.add(Body{
			Name:     moonName,
			Diameter: b.Diameter,
			Position: relPos.Plus(planetPos),
			Velocity: relVel.Plus(planetVel),
			Orbit:    OrbitRing(ElementsFromState(relPos, relVel, μ)),
			center:   planetIdx,
		})
	}
	s.planetSystems[planetName] = psys
	s.logger.Log("level", "info", "subsys", "system", "planetsystem", planetName, "moons", len(s.params.MoonsOfPlanet(planetName)))
	return nil
}

// RemovePlanetSystem destroys the nested system for the named planet.
func (s *SolarSystem) RemovePlanetSystem(planetName string) {
	if _, exists := s.planetSystems[planetName]; !exists {
		return
	}
	for _, moonName := range s.params.MoonsOfPlanet(planetName) {
		s.arena.remove(moonName)
		delete(s.moonShadow, moonName)
		delete(s.centerBodies, moonName)
	}
	delete(s.planetSystems, planetName)
}

// PlanetSystems returns the names of the active planet systems.
func (s *SolarSystem) PlanetSystems() []string {
	var out []string
	for name := range s.planetSystems {
		out = append(out, name)
	}
	return out
}

// SetGeneralRelativity switches the post-Newtonian correction on the
// heliocentric system and every planet system.
func (s *SolarSystem) SetGeneralRelativity(flag bool) {
	s.ParticleSystem.SetGeneralRelativity(flag)
	for _, psys := range s.planetSystems {
		psys.SetGeneralRelativity(flag)
	}
}

// AdvanceForward advances the simulation forward by the given number of
// macro time steps.
func (s *SolarSystem) AdvanceForward(nrTimeSteps int) error {
	for i := 0; i < nrTimeSteps; i++ {
		if err := s.step(MacroStep, true); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceBackward advances the simulation backward by the given number of
// macro time steps. Scheduled events do not fire while moving backward.
func (s *SolarSystem) AdvanceBackward(nrTimeSteps int) error {
	for i := 0; i < nrTimeSteps; i++ {
		if err := s.step(-MacroStep, false); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceSingleStep advances a single step of at most one hour in either
// direction with the single-step scheme, discarding the multi-step history.
func (s *SolarSystem) AdvanceSingleStep(Δt time.Duration) error {
	if Δt > MacroStep {
		Δt = MacroStep
	}
	if Δt < -MacroStep {
		Δt = -MacroStep
	}
	s.SetValidABM4(false)
	return s.singleStep(Δt)
}

func (s *SolarSystem) singleStep(Δt time.Duration) error {
	if s.simState == Unseeded {
		return fmt.Errorf("simulation is not initialized")
	}
	s.simState = Advancing
	if err := s.advancePlanetSystems(Δt); err != nil {
		return s.fatal(err)
	}
	if err := s.AdvanceRK4(Δt); err != nil {
		return s.fatal(err)
	}
	s.finishStep(Δt, Δt > 0)
	return nil
}

// step performs one macro tick.
func (s *SolarSystem) step(Δt time.Duration, checkEvents bool) error {
	if s.simState == Unseeded {
		return fmt.Errorf("simulation is not initialized")
	}
	s.simState = Advancing
	if err := s.advancePlanetSystems(Δt); err != nil {
		return s.fatal(err)
	}
	if s.GeneralRelativity() {
		// Runge-Kutta for general relativity.
		if err := s.AdvanceRK4(Δt); err != nil {
			return s.fatal(err)
		}
	} else {
		// Two Adams-Bashforth-Moulton half steps for Newton mechanics.
		if err := s.AdvanceABM4(Δt / 2); err != nil {
			return s.fatal(err)
		}
		if err := s.AdvanceABM4(Δt / 2); err != nil {
			return s.fatal(err)
		}
	}
	s.finishStep(Δt, checkEvents)
	return nil
}

func (s *SolarSystem) finishStep(Δt time.Duration, checkEvents bool) {
	s.CorrectDrift()
	s.updateEarthMoonBarycenter()
	s.simTime = s.simTime.Add(Δt)
	if checkEvents {
		s.checkForEvent()
	}
	s.simState = Ready
}

func (s *SolarSystem) fatal(err error) error {
	s.simState = Unseeded
	s.logger.Log("level", "critical", "subsys", "system", "date", s.simTime, "err", err)
	return err
}

// advancePlanetSystems re-anchors each planet system to the heliocentric
// state of its planet, iterates it with bounded sub-steps, and re-pins it
// to the planet-local origin.
func (s *SolarSystem) advancePlanetSystems(Δt time.Duration) error {
	for planetName, psys := range s.planetSystems {
		planet := s.Particle(planetName)
		if planet == nil {
			return fmt.Errorf("%w: %q", ErrUnknownBody, planetName)
		}
		if err := psys.CorrectDriftTo(planet.position, planet.velocity); err != nil {
			return err
		}
	}
	for _, psys := range s.planetSystems {
		if err := psys.Advance(Δt); err != nil {
			return err
		}
	}
	for _, psys := range s.planetSystems {
		psys.CorrectDrift()
	}
	return nil
}

// updateEarthMoonBarycenter recomputes the derived barycenter particle,
// weighted by μ of the Earth and Moon particles.
func (s *SolarSystem) updateEarthMoonBarycenter() {
	earth := s.Particle("Earth")
	moon := s.Particle("Moon")
	if earth == nil || moon == nil || s.emBarycenter == nil {
		return
	}
	total := earth.μ + moon.μ
	s.emBarycenter.position = earth.position.ScalarProduct(earth.μ).
		Plus(moon.position.ScalarProduct(moon.μ)).ScalarProduct(1 / total)
	s.emBarycenter.velocity = earth.velocity.ScalarProduct(earth.μ).
		Plus(moon.velocity.ScalarProduct(moon.μ)).ScalarProduct(1 / total)
	if body := s.arena.get(EarthMoonBarycenterName); body != nil {
		body.Position = s.emBarycenter.position
		body.Velocity = s.emBarycenter.velocity
	}
}

// checkForEvent applies the next scheduled event when its time has come:
// the target particle state is overwritten with the event state exactly and
// the multi-step history is discarded.
func (s *SolarSystem) checkForEvent() {
	if s.nextEvent < 0 || s.nextEvent >= s.schedule.Len() {
		return
	}
	ev := s.schedule.At(s.nextEvent)
	if ev.DateTime.After(s.simTime) {
		return
	}
	s.simState = EventPending
	if err := s.SetPositionVelocity(ev.BodyName, ev.Position, ev.Velocity); err != nil {
		s.logger.Log("level", "warning", "subsys", "system", "event", ev.BodyName, "err", err)
	} else {
		s.logger.Log("level", "debug", "subsys", "system", "event", ev.BodyName, "date", ev.DateTime)
	}
	s.nextEvent = s.schedule.NextAfter(s.simTime)
}

// AddEvent schedules a state injection, retaining date/time order.
func (s *SolarSystem) AddEvent(ev Event) {
	s.schedule.Add(ev)
	s.nextEvent = s.schedule.NextAfter(s.simTime)
}

// RegisterTrajectory registers a spacecraft factory under the given name.
func (s *SolarSystem) RegisterTrajectory(name string, factory TrajectoryFactory) {
	s.factories[name] = factory
}

// CreateSpacecraft builds the named spacecraft through its registered
// factory and adds it as a massless particle, together with its events.
func (s *SolarSystem) CreateSpacecraft(name string) error {
	factory, ok := s.factories[name]
	if !ok {
		return fmt.Errorf("%w: no trajectory registered for %q", ErrUnknownBody, name)
	}
	craft, events, err := factory(s.eph)
	if err != nil {
		return err
	}
	pos, vel := craft.StateAt(s.simTime)
	s.AddParticleWithoutMass(craft.Name(), NewMasslessParticle(pos, vel))
	s.spacecraft[craft.Name()] = craft
	s.centerBodies[craft.Name()] = craft.CenterBody()

	center := -1
	if i, ok := s.arena.index[craft.CenterBody()]; ok {
		center = i
	}
	s.arena.add(Body{Name: craft.Name(), Position: pos, Velocity: vel, center: center})
	for _, ev := range events {
		s.schedule.Add(ev)
	}
	s.nextEvent = s.schedule.NextAfter(s.simTime)
	return nil
}

// RemoveSpacecraft removes the named spacecraft, its particle, and all of
// its scheduled events.
func (s *SolarSystem) RemoveSpacecraft(name string) {
	if _, ok := s.spacecraft[name]; !ok {
		return
	}
	delete(s.spacecraft, name)
	delete(s.centerBodies, name)
	s.RemoveParticle(name)
	s.arena.remove(name)
	s.schedule.RemoveBody(name)
	s.nextEvent = s.schedule.NextAfter(s.simTime)
}

// GetBody returns the named body from the arena.
func (s *SolarSystem) GetBody(name string) (*Body, error) {
	b := s.arena.get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return b, nil
}

// BodyOrbit returns the orbit ring of the named body in heliocentric
// coordinates.
func (s *SolarSystem) BodyOrbit(name string) []Vector3D {
	return s.arena.orbitOf(name)
}

// GetParticle returns the named particle: heliocentric particles directly,
// the derived Earth-Moon barycenter, and subsystem moons translated to
// absolute coordinates.
func (s *SolarSystem) GetParticle(name string) *Particle {
	if p := s.Particle(name); p != nil {
		return p
	}
	if name == EarthMoonBarycenterName {
		return s.emBarycenter
	}
	planetName, ok := s.centerBodies[name]
	if !ok {
		return nil
	}
	psys, ok := s.planetSystems[planetName]
	if !ok {
		return nil
	}
	moon := psys.Particle(name)
	planet := s.Particle(planetName)
	shadow := s.moonShadow[name]
	if moon == nil || planet == nil || shadow == nil {
		return nil
	}
	shadow.position = planet.position.Plus(moon.position)
	shadow.velocity = planet.velocity.Plus(moon.velocity)
	return shadow
}

// Mass returns the mass of the named particle.
func (s *SolarSystem) Mass(name string) (float64, error) {
	p := s.GetParticle(name)
	if p == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return p.Mass(), nil
}

// SetMass changes the mass of the named particle, in the heliocentric
// system and in any planet system carrying a copy of it.
func (s *SolarSystem) SetMass(name string, mass float64) error {
	applied := false
	if s.Particle(name) != nil {
		if err := s.SetParticleMass(name, mass); err != nil {
			return err
		}
		applied = true
	}
	if psys, ok := s.planetSystems[name]; ok {
		if err := psys.SetParticleMass(name, mass); err != nil {
			return err
		}
		applied = true
	}
	if planetName, ok := s.centerBodies[name]; ok {
		if psys, ok := s.planetSystems[planetName]; ok && psys.Particle(name) != nil {
			if err := psys.SetParticleMass(name, mass); err != nil {
				return err
			}
			applied = true
		}
	}
	if !applied {
		return fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return nil
}

// Mu returns the standard gravitational parameter of the named particle.
func (s *SolarSystem) Mu(name string) (float64, error) {
	p := s.GetParticle(name)
	if p == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return p.Mu(), nil
}

// Position returns the heliocentric position of the named particle in m.
func (s *SolarSystem) Position(name string) (Vector3D, error) {
	p := s.GetParticle(name)
	if p == nil {
		return Vector3D{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return p.Position(), nil
}

// Velocity returns the heliocentric velocity of the named particle in m/s.
func (s *SolarSystem) Velocity(name string) (Vector3D, error) {
	p := s.GetParticle(name)
	if p == nil {
		return Vector3D{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return p.Velocity(), nil
}

// SetPositionVelocity overwrites the state of the named particle with
// heliocentric coordinates. Subsystem moons are re-based onto their planet.
func (s *SolarSystem) SetPositionVelocity(name string, position, velocity Vector3D) error {
	if s.Particle(name) != nil {
		return s.SetParticleState(name, position, velocity)
	}
	planetName, ok := s.centerBodies[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	psys, ok := s.planetSystems[planetName]
	if !ok {
		return fmt.Errorf("%w: %q has no active planet system", ErrUnknownBody, name)
	}
	planet := s.Particle(planetName)
	if planet == nil {
		return fmt.Errorf("%w: %q", ErrUnknownBody, planetName)
	}
	if err := psys.SetParticleState(name, position.Minus(planet.position), velocity.Minus(planet.velocity)); err != nil {
		return err
	}
	if shadow := s.moonShadow[name]; shadow != nil {
		shadow.position = position
		shadow.velocity = velocity
	}
	return nil
}
