package ssd

import (
	"fmt"
	"math"
	"time"
)

// Trajectory computes a heliocentric state as a pure function of time
// within a validity window. Spacecraft are propagated as massless particles
// but re-seated from their trajectory at scheduled events.
type Trajectory interface {
	StartDateTime() time.Time
	StopDateTime() time.Time
	State(dt time.Time) (position, velocity Vector3D)
}

// TrajectoryFactory builds a spacecraft and its scheduled events against
// the given ephemeris. Factories are registered on the orchestrator;
// spacecraft construction dispatches through the registry rather than
// switching on names.
type TrajectoryFactory func(eph *SolarSystemEphemeris) (*Spacecraft, []Event, error)

// Spacecraft is a named body following a piecewise list of trajectories.
type Spacecraft struct {
	name       string
	centerBody string
	segments   []Trajectory
}

// NewSpacecraft returns a spacecraft from its trajectory segments.
func NewSpacecraft(name, centerBody string, segments []Trajectory) (*Spacecraft, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("spacecraft %q has no trajectory", name)
	}
	return &Spacecraft{name: name, centerBody: centerBody, segments: segments}, nil
}

// Name returns the spacecraft name.
func (sc *Spacecraft) Name() string { return sc.name }

// CenterBody returns the name of the body the spacecraft is presented
// around (display association, not a dynamical constraint).
func (sc *Spacecraft) CenterBody() string { return sc.centerBody }

// StateAt computes the spacecraft state at the given date/time from the
// segment covering it. Outside every window the state at the start of the
// first segment is returned, matching the behavior of the trajectory data
// this model was built for.
func (sc *Spacecraft) StateAt(dt time.Time) (Vector3D, Vector3D) {
	for _, t := range sc.segments {
		if !t.StartDateTime().After(dt) && t.StopDateTime().After(dt) {
			return t.State(dt)
		}
	}
	first := sc.segments[0]
	return first.State(first.StartDateTime())
}

// KeplerTrajectory is a trajectory segment following a fixed two-body orbit
// around a center body served by the ephemeris.
type KeplerTrajectory struct {
	start, stop time.Time
	elements    OrbitalElements
	centerName  string
	centerμ     float64
	eph         *SolarSystemEphemeris
}

// NewKeplerTrajectory returns a segment on the given osculating orbit
// around the named center body. The elements are evaluated with the center
// body's gravitational parameter; states are translated to heliocentric by
// the center body's ephemeris state.
func NewKeplerTrajectory(start, stop time.Time, el OrbitalElements, centerName string, eph *SolarSystemEphemeris, params *Params) (*KeplerTrajectory, error) {
	μ, err := params.Mu(centerName)
	if err != nil {
		return nil, err
	}
	return &KeplerTrajectory{start: start, stop: stop, elements: el, centerName: centerName, centerμ: μ, eph: eph}, nil
}

// StartDateTime implements the Trajectory interface.
func (t *KeplerTrajectory) StartDateTime() time.Time { return t.start }

// StopDateTime implements the Trajectory interface.
func (t *KeplerTrajectory) StopDateTime() time.Time { return t.stop }

// State implements the Trajectory interface.
func (t *KeplerTrajectory) State(dt time.Time) (Vector3D, Vector3D) {
	el := t.elements
	// Advance the mean anomaly on the two-body mean motion from the start
	// of the segment.
	a := el.Axis * ASTRONOMICALUNIT
	n := math.Sqrt(t.centerμ/(a*a*a)) * secondsPerDay / deg2rad // [deg/day]
	el.MeanAnomaly = modDegrees(el.MeanAnomaly + n*(JulianDate(dt)-JulianDate(t.start)))
	relPos, relVel, err := StateFromElements(el, t.centerμ)
	if err != nil {
		return Vector3D{}, Vector3D{}
	}
	if t.centerName == "Sun" {
		return relPos, relVel
	}
	centerPos, centerVel, err := t.eph.BodyState(t.centerName, dt)
	if err != nil {
		return relPos, relVel
	}
	return relPos.Plus(centerPos), relVel.Plus(centerVel)
}
