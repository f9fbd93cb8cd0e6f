// ssdq prints the heliocentric state of a body at a given UTC date/time,
// resolved through the composite ephemeris (precomputed kernels when the
// SSD_CONFIG configuration enables them, approximate Keplerian otherwise).
//
// Usage:
//
//	ssdq -body Mars -date 2017-01-01T12:00:00Z
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"

	"github.com/heliodyn/ssd"
)

func main() {
	bodyName := flag.String("body", "Earth", "body name, e.g. Earth, Jupiter, Halley")
	dateStr := flag.String("date", "", "UTC date/time (RFC 3339), defaults to now")
	elements := flag.Bool("elements", false, "also print the approximate osculating elements")
	flag.Parse()

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "app", "ssdq")

	dt := time.Now().UTC()
	if *dateStr != "" {
		var err error
		dt, err = time.Parse(time.RFC3339, *dateStr)
		if err != nil {
			logger.Log("level", "error", "err", err)
			os.Exit(1)
		}
	}

	eph := ssd.NewSolarSystemEphemeris(ssd.DefaultParams(), logger)
	pos, vel, err := eph.BodyState(*bodyName, dt)
	if err != nil {
		logger.Log("level", "error", "body", *bodyName, "date", dt, "err", err)
		os.Exit(1)
	}
	fmt.Printf("body=%s date=%s\n", *bodyName, dt.Format(time.RFC3339))
	fmt.Printf("r(m)   = [%.6e %.6e %.6e] |r|=%.6e\n", pos.X, pos.Y, pos.Z, pos.Norm())
	fmt.Printf("v(m/s) = [%.6e %.6e %.6e] |v|=%.6e\n", vel.X, vel.Y, vel.Z, vel.Norm())

	if *elements {
		el, err := eph.Elements(*bodyName, dt)
		if err != nil {
			logger.Log("level", "warning", "body", *bodyName, "err", err)
			return
		}
		fmt.Printf("a=%.8f AU e=%.8f i=%.6f M=%.6f ω=%.6f Ω=%.6f\n",
			el.Axis, el.Eccentricity, el.Inclination, el.MeanAnomaly, el.ArgPerihelion, el.LongNode)
	}
}
