package ssd

import (
	"fmt"
	"time"

	"github.com/ChristopherRabotin/ode"
)

// Particle is a point mass of a gravitational particle system. Its state is
// mutated only by the integrators, the drift correction pass, and the
// orchestrator's override hook.
type Particle struct {
	mass     float64 // [kg]
	μ        float64 // [m3/s2], zero for massless particles
	position Vector3D
	velocity Vector3D
}

// NewParticle returns a particle with the given mass, standard gravitational
// parameter, position [m], and velocity [m/s].
func NewParticle(mass, μ float64, position, velocity Vector3D) *Particle {
	return &Particle{mass: mass, μ: μ, position: position, velocity: velocity}
}

// NewMasslessParticle returns a particle which feels gravity but exerts
// none: μ is zero by construction and the particle never enters the force
// summation.
func NewMasslessParticle(position, velocity Vector3D) *Particle {
	return &Particle{mass: 1, position: position, velocity: velocity}
}

// Mass returns the mass in kg.
func (p *Particle) Mass() float64 { return p.mass }

// Mu returns μ, which is preferred over G*m whenever both are known.
func (p *Particle) Mu() float64 { return p.μ }

// Position returns the position in m.
func (p *Particle) Position() Vector3D { return p.position }

// Velocity returns the velocity in m/s.
func (p *Particle) Velocity() Vector3D { return p.velocity }

// State returns position and velocity.
func (p *Particle) State() (Vector3D, Vector3D) { return p.position, p.velocity }

// derivSample is one (velocity, acceleration) sample of the multi-step
// integrator history.
type derivSample struct {
	vel, acc []Vector3D
}

// ParticleSystem is a set of named point masses advanced by the RK4 and
// ABM4 integrators. "Massive" particles contribute to gravity; massless
// particles feel gravity but do not exert it. Iteration over particles is
// always in insertion order so summation is deterministic.
type ParticleSystem struct {
	names     []string
	particles map[string]*Particle
	massive   map[string]bool

	generalRelativity bool

	// Perturbation is an optional additional acceleration evaluated per
	// particle on top of the pairwise Newtonian term, with the full aligned
	// position and velocity arrays of the integration state. The oblate
	// planet systems use it for the zonal J2 term of their central body.
	Perturbation func(name string, i int, pos, vel []Vector3D) Vector3D

	// Four-step Adams-Bashforth-Moulton bookkeeping. The cyclic history
	// holds the most recent derivative samples, newest first.
	validABM4 bool
	abm4Step  time.Duration
	history   []derivSample
}

// NewParticleSystem returns an empty system.
func NewParticleSystem() *ParticleSystem {
	return &ParticleSystem{
		particles: make(map[string]*Particle),
		massive:   make(map[string]bool),
	}
}

// AddParticle adds a particle which applies forces to all other particles.
func (ps *ParticleSystem) AddParticle(name string, p *Particle) {
	ps.addParticle(name, p, true)
}

// AddParticleWithoutMass adds a particle which feels gravity but exerts none.
func (ps *ParticleSystem) AddParticleWithoutMass(name string, p *Particle) {
	ps.addParticle(name, p, false)
}

func (ps *ParticleSystem) addParticle(name string, p *Particle, massive bool) {
	if _, ok := ps.particles[name]; !ok {
		ps.names = append(ps.names, name)
	}
	ps.particles[name] = p
	ps.massive[name] = massive
	ps.SetValidABM4(false)
}

// RemoveParticle removes the named particle, if present.
func (ps *ParticleSystem) RemoveParticle(name string) {
	if _, ok := ps.particles[name]; !ok {
		return
	}
	delete(ps.particles, name)
	delete(ps.massive, name)
	for i, n := range ps.names {
		if n == name {
			ps.names = append(ps.names[:i], ps.names[i+1:]...)
			break
		}
	}
	ps.SetValidABM4(false)
}

// Particle returns the named particle, or nil when it does not exist.
func (ps *ParticleSystem) Particle(name string) *Particle {
	return ps.particles[name]
}

// ParticleNames returns the particle names in insertion order.
func (ps *ParticleSystem) ParticleNames() []string {
	out := make([]string, len(ps.names))
	copy(out, ps.names)
	return out
}

// SetParticleState overwrites the state of the named particle. This is the
// override hook used by the scheduled events: the write is exact and the
// multi-step history is discarded.
func (ps *ParticleSystem) SetParticleState(name string, position, velocity Vector3D) error {
	p, ok := ps.particles[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	p.position = position
	p.velocity = velocity
	ps.SetValidABM4(false)
	return nil
}

// SetParticleMass changes the mass of the named particle and discards the
// multi-step history.
func (ps *ParticleSystem) SetParticleMass(name string, mass float64) error {
	p, ok := ps.particles[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	p.mass = mass
	ps.SetValidABM4(false)
	return nil
}

// SetGeneralRelativity switches the post-Newtonian correction on or off.
func (ps *ParticleSystem) SetGeneralRelativity(flag bool) {
	ps.generalRelativity = flag
	ps.SetValidABM4(false)
}

// GeneralRelativity returns whether the post-Newtonian correction is applied.
func (ps *ParticleSystem) GeneralRelativity() bool { return ps.generalRelativity }

// SetValidABM4 marks the multi-step history valid or invalid. Adding or
// removing particles, changing masses, flipping the relativity flag,
// reversing the integration direction, and external state overrides all
// invalidate it; the next AdvanceABM4 calls then bootstrap with RK4.
func (ps *ParticleSystem) SetValidABM4(valid bool) {
	ps.validABM4 = valid
	if !valid {
		ps.history = nil
	}
}

// ValidABM4 reports whether the multi-step history is complete and valid.
func (ps *ParticleSystem) ValidABM4() bool { return ps.validABM4 }

// massCenter returns the mass-weighted state of the massive particles.
func (ps *ParticleSystem) massCenter() (position, velocity Vector3D) {
	var total float64
	for _, name := range ps.names {
		if !ps.massive[name] {
			continue
		}
		p := ps.particles[name]
		position = position.Plus(p.position.ScalarProduct(p.mass))
		velocity = velocity.Plus(p.velocity.ScalarProduct(p.mass))
		total += p.mass
	}
	if total == 0 {
		return Vector3D{}, Vector3D{}
	}
	return position.ScalarProduct(1 / total), velocity.ScalarProduct(1 / total)
}

// CorrectDrift re-anchors the system: when a particle named "Sun" exists its
// state is subtracted from every particle so the Sun is re-pinned at the
// origin; otherwise the mass-weighted center of mass is subtracted.
func (ps *ParticleSystem) CorrectDrift() {
	if sun, ok := ps.particles["Sun"]; ok {
		ps.correctDriftBy(sun.position, sun.velocity)
		return
	}
	pos, vel := ps.massCenter()
	ps.correctDriftBy(pos, vel)
}

func (ps *ParticleSystem) correctDriftBy(position, velocity Vector3D) {
	for _, name := range ps.names {
		p := ps.particles[name]
		p.position = p.position.Minus(position)
		p.velocity = p.velocity.Minus(velocity)
	}
}

// currentState packs positions and velocities in insertion order.
func (ps *ParticleSystem) currentState() (pos, vel []Vector3D) {
	pos = make([]Vector3D, len(ps.names))
	vel = make([]Vector3D, len(ps.names))
	for i, name := range ps.names {
		p := ps.particles[name]
		pos[i] = p.position
		vel[i] = p.velocity
	}
	return pos, vel
}

func (ps *ParticleSystem) commitState(pos, vel []Vector3D) {
	for i, name := range ps.names {
		p := ps.particles[name]
		p.position = pos[i]
		p.velocity = vel[i]
	}
}

func (ps *ParticleSystem) stateFinite() bool {
	for _, name := range ps.names {
		p := ps.particles[name]
		if !p.position.isFinite() || !p.velocity.isFinite() {
			return false
		}
	}
	return true
}

// accelerations computes the acceleration of every particle for the given
// positions and velocities (aligned with the insertion order). Only massive
// particles exert force; self-interaction is skipped by identity.
func (ps *ParticleSystem) accelerations(pos, vel []Vector3D) []Vector3D {
	acc := make([]Vector3D, len(ps.names))
	for i := range ps.names {
		for j, source := range ps.names {
			if j == i || !ps.massive[source] {
				continue
			}
			rel := pos[j].Minus(pos[i])
			d := rel.Norm()
			acc[i] = acc[i].Plus(rel.ScalarProduct(ps.particles[source].μ / (d * d * d)))
		}
	}
	if ps.generalRelativity {
		ps.addPostNewtonian(acc, pos, vel)
	}
	if ps.Perturbation != nil {
		for i, name := range ps.names {
			acc[i] = acc[i].Plus(ps.Perturbation(name, i, pos, vel))
		}
	}
	return acc
}

// addPostNewtonian adds the first order Schwarzschild correction for the
// field of the most massive particle (terms in v2/c2 and GM/(r c2)).
func (ps *ParticleSystem) addPostNewtonian(acc []Vector3D, pos, vel []Vector3D) {
	heaviest := -1
	for i, name := range ps.names {
		if !ps.massive[name] {
			continue
		}
		if heaviest < 0 || ps.particles[name].μ > ps.particles[ps.names[heaviest]].μ {
			heaviest = i
		}
	}
	if heaviest < 0 {
		return
	}
	μ := ps.particles[ps.names[heaviest]].μ
	c2 := SPEEDOFLIGHT * SPEEDOFLIGHT
	for i := range ps.names {
		if i == heaviest {
			continue
		}
		r := pos[i].Minus(pos[heaviest])
		v := vel[i].Minus(vel[heaviest])
		d := r.Norm()
		factor := μ / (c2 * d * d * d)
		term := r.ScalarProduct(factor * (4*μ/d - v.Dot(v)))
		term = term.Plus(v.ScalarProduct(factor * 4 * r.Dot(v)))
		acc[i] = acc[i].Plus(term)
	}
}

/* Runge-Kutta integration is driven through the ode package: the particle
system exposes its packed state as an ode.Integrable and lets the library
run the classical fourth order scheme. Backward steps integrate the time
reversed dynamics with a positive step size. */

type rkAdapter struct {
	ps    *ParticleSystem
	dir   float64
	steps int
	iter  int
}

// GetState implements the ode.Integrable interface.
func (a *rkAdapter) GetState() []float64 {
	pos, vel := a.ps.currentState()
	s := make([]float64, 6*len(pos))
	for i := range pos {
		s[6*i+0], s[6*i+1], s[6*i+2] = pos[i].X, pos[i].Y, pos[i].Z
		s[6*i+3], s[6*i+4], s[6*i+5] = vel[i].X, vel[i].Y, vel[i].Z
	}
	return s
}

// SetState implements the ode.Integrable interface.
func (a *rkAdapter) SetState(t float64, s []float64) {
	pos, vel := unpackState(s)
	a.ps.commitState(pos, vel)
}

// Stop implements the ode.Integrable interface.
func (a *rkAdapter) Stop(t float64) bool {
	if a.iter >= a.steps {
		return true
	}
	a.iter++
	return false
}

// Func implements the ode.Integrable interface.
func (a *rkAdapter) Func(t float64, s []float64) []float64 {
	pos, vel := unpackState(s)
	acc := a.ps.accelerations(pos, vel)
	f := make([]float64, len(s))
	for i := range pos {
		f[6*i+0] = a.dir * vel[i].X
		f[6*i+1] = a.dir * vel[i].Y
		f[6*i+2] = a.dir * vel[i].Z
		f[6*i+3] = a.dir * acc[i].X
		f[6*i+4] = a.dir * acc[i].Y
		f[6*i+5] = a.dir * acc[i].Z
	}
	return f
}

func unpackState(s []float64) (pos, vel []Vector3D) {
	n := len(s) / 6
	pos = make([]Vector3D, n)
	vel = make([]Vector3D, n)
	for i := 0; i < n; i++ {
		pos[i] = Vector3D{s[6*i+0], s[6*i+1], s[6*i+2]}
		vel[i] = Vector3D{s[6*i+3], s[6*i+4], s[6*i+5]}
	}
	return pos, vel
}

// AdvanceRK4 advances the system by Δt (negative for a backward step) with
// a single classical Runge-Kutta step. The step is transactional: on a
// non-finite result the system is left unchanged and ErrNumericalFailure is
// returned.
func (ps *ParticleSystem) AdvanceRK4(Δt time.Duration) error {
	if Δt == 0 || len(ps.names) == 0 {
		return nil
	}
	prevPos, prevVel := ps.currentState()
	h := Δt.Seconds()
	adapter := &rkAdapter{ps: ps, dir: sign(h), steps: 1}
	ode.NewRK4(0, float64(absDuration(Δt))/float64(time.Second), adapter).Solve()
	if !ps.stateFinite() {
		ps.commitState(prevPos, prevVel)
		return fmt.Errorf("%w: non-finite state after RK4 step", ErrNumericalFailure)
	}
	return nil
}

// AdvanceABM4 advances the system by Δt with the four-step Adams-Bashforth
// predictor and Adams-Moulton corrector. While the history is invalid or
// incomplete the call bootstraps with RK4 steps of the same size; the
// history becomes valid after four samples. A step size or direction change
// discards the history.
func (ps *ParticleSystem) AdvanceABM4(Δt time.Duration) error {
	if Δt == 0 || len(ps.names) == 0 {
		return nil
	}
	if len(ps.history) > 0 && Δt != ps.abm4Step {
		ps.SetValidABM4(false)
	}
	ps.abm4Step = Δt

	if len(ps.history) < 4 {
		// Bootstrap with a single-step scheme until the cyclic buffers are
		// filled.
		if err := ps.AdvanceRK4(Δt); err != nil {
			return err
		}
		ps.pushSample()
		if len(ps.history) == 4 {
			ps.validABM4 = true
		}
		return nil
	}

	h := Δt.Seconds()
	prevPos, prevVel := ps.currentState()
	f0, f1, f2, f3 := ps.history[0], ps.history[1], ps.history[2], ps.history[3]

	// Adams-Bashforth predictor.
	predPos := make([]Vector3D, len(ps.names))
	predVel := make([]Vector3D, len(ps.names))
	for i := range ps.names {
		predPos[i] = prevPos[i].Plus(combine(h/24, 55, f0.vel[i], -59, f1.vel[i], 37, f2.vel[i], -9, f3.vel[i]))
		predVel[i] = prevVel[i].Plus(combine(h/24, 55, f0.acc[i], -59, f1.acc[i], 37, f2.acc[i], -9, f3.acc[i]))
	}

	// Adams-Moulton corrector with the derivative at the predicted state.
	predAcc := ps.accelerations(predPos, predVel)
	newPos := make([]Vector3D, len(ps.names))
	newVel := make([]Vector3D, len(ps.names))
	for i := range ps.names {
		newPos[i] = prevPos[i].Plus(combine(h/24, 9, predVel[i], 19, f0.vel[i], -5, f1.vel[i], 1, f2.vel[i]))
		newVel[i] = prevVel[i].Plus(combine(h/24, 9, predAcc[i], 19, f0.acc[i], -5, f1.acc[i], 1, f2.acc[i]))
	}

	ps.commitState(newPos, newVel)
	if !ps.stateFinite() {
		ps.commitState(prevPos, prevVel)
		return fmt.Errorf("%w: non-finite state after ABM4 step", ErrNumericalFailure)
	}
	ps.pushSample()
	return nil
}

// pushSample evaluates the derivative at the current state and pushes it
// onto the history, newest first.
func (ps *ParticleSystem) pushSample() {
	pos, vel := ps.currentState()
	acc := ps.accelerations(pos, vel)
	sample := derivSample{vel: vel, acc: acc}
	ps.history = append([]derivSample{sample}, ps.history...)
	if len(ps.history) > 4 {
		ps.history = ps.history[:4]
	}
}

// combine returns scale * (c1*v1 + c2*v2 + c3*v3 + c4*v4).
func combine(scale, c1 float64, v1 Vector3D, c2 float64, v2 Vector3D, c3 float64, v3 Vector3D, c4 float64, v4 Vector3D) Vector3D {
	return v1.ScalarProduct(c1).
		Plus(v2.ScalarProduct(c2)).
		Plus(v3.ScalarProduct(c3)).
		Plus(v4.ScalarProduct(c4)).
		ScalarProduct(scale)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
