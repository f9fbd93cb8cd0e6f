package ssd

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func vectorsEqualWithin(a, b Vector3D, tol float64) bool {
	return floats.EqualWithinAbs(a.X, b.X, tol) &&
		floats.EqualWithinAbs(a.Y, b.Y, tol) &&
		floats.EqualWithinAbs(a.Z, b.Z, tol)
}

// anglesEqualWithin compares two angles in degrees modulo 360.
func anglesEqualWithin(a, b, tol float64) (bool, error) {
	diff := math.Abs(modDegrees(a) - modDegrees(b))
	if diff < tol || math.Abs(diff-360) < tol {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.12f degrees", diff)
}

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}
