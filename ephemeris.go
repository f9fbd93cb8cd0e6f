package ssd

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds surfaced by the ephemeris service and the propagator. They are
// sentinel values so callers can test them with errors.Is and try an
// alternative source where that makes sense.
var (
	// ErrUnknownBody is returned when the requested body is not in the
	// registry or not served by the provider.
	ErrUnknownBody = errors.New("unknown body")
	// ErrOutOfRange is returned when the requested date is outside the
	// validity window of the provider.
	ErrOutOfRange = errors.New("date outside ephemeris validity window")
	// ErrNumericalFailure is returned when a solver did not converge or a
	// state vector contains a non-finite component. An advance call which
	// fails this way leaves the particle system unchanged.
	ErrNumericalFailure = errors.New("numerical failure")
	// ErrUnsupported is returned for provider specific operations which a
	// given source does not model, e.g. barycentric queries on a
	// heliocentric-only source.
	ErrUnsupported = errors.New("operation not supported")
	// ErrIO is returned when opening or reading a precomputed kernel fails.
	ErrIO = errors.New("kernel i/o error")
)

// Ephemeris provides heliocentric positions and velocities for a set of
// bodies over a validity window. All states are in the J2000 ecliptic frame,
// in m and m/s, relative to the Sun unless documented otherwise.
type Ephemeris interface {
	// FirstValidDate returns the earliest date served by this source.
	FirstValidDate() time.Time
	// LastValidDate returns the latest date served by this source.
	LastValidDate() time.Time
	// Bodies returns the names of the bodies served by this source.
	Bodies() []string
	// BodyState returns position [m] and velocity [m/s] of the named body.
	BodyState(name string, dt time.Time) (position, velocity Vector3D, err error)
}

// BarycentricEphemeris is implemented by sources which also model states
// relative to the solar system barycenter.
type BarycentricEphemeris interface {
	Ephemeris
	// BodyStateBarycenter returns the state relative to the solar system
	// barycenter rather than the Sun.
	BodyStateBarycenter(name string, dt time.Time) (position, velocity Vector3D, err error)
}

// BodyPosition returns only the position of the named body.
func BodyPosition(e Ephemeris, name string, dt time.Time) (Vector3D, error) {
	p, _, err := e.BodyState(name, dt)
	return p, err
}

// BodyVelocity returns only the velocity of the named body.
func BodyVelocity(e Ephemeris, name string, dt time.Time) (Vector3D, error) {
	_, v, err := e.BodyState(name, dt)
	return v, err
}

// withinRange reports whether dt lies within the validity window of e.
func withinRange(e Ephemeris, dt time.Time) bool {
	return !dt.Before(e.FirstValidDate()) && !dt.After(e.LastValidDate())
}

// checkRange returns ErrOutOfRange when dt lies outside the validity window.
func checkRange(e Ephemeris, dt time.Time) error {
	if !withinRange(e, dt) {
		return fmt.Errorf("%w: %s", ErrOutOfRange, dt.UTC().Format(time.RFC3339))
	}
	return nil
}

// serves reports whether the source lists the given body.
func serves(e Ephemeris, name string) bool {
	for _, b := range e.Bodies() {
		if b == name {
			return true
		}
	}
	return false
}
