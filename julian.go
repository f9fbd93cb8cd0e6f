package ssd

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

const (
	// J2000 is the Julian date of the J2000.0 reference epoch.
	J2000 = 2451545.0
	// JulianCentury is the number of days per Julian century.
	JulianCentury = 36525.0
	secondsPerDay = 86400.0
)

// JulianDate converts a date/time to a Julian date. Dates are interpreted on
// the proleptic Gregorian calendar, which is valid for the whole 3000 BC to
// AD 3000 domain of the ephemerides. The time zone is forced to UTC as all
// ephemeris data is in UTC.
func JulianDate(dt time.Time) float64 {
	dt = dt.UTC()
	day := float64(dt.Day()) +
		(float64(dt.Hour())+
			(float64(dt.Minute())+
				(float64(dt.Second())+float64(dt.Nanosecond())/1e9)/60)/60)/24
	return julian.CalendarGregorianToJD(dt.Year(), int(dt.Month()), day)
}

// CalendarDate converts a Julian date back to a UTC date/time with
// millisecond precision. It is the inverse of JulianDate: day, hour, and
// minute round-trip for all dates in the supported domain. The inverse is
// computed on the proleptic Gregorian calendar (the book algorithm behind
// julian.JDToCalendar switches to the Julian calendar before 1582, which
// would not round-trip pre-Gregorian dates).
func CalendarDate(jd float64) time.Time {
	jdn := math.Floor(jd + 0.5)
	frac := jd + 0.5 - jdn

	// Fliegel-Van Flandern in integer arithmetic, proleptic Gregorian.
	a := int64(jdn) + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	day := int(e - (153*m+2)/5 + 1)
	month := int(m + 3 - 12*(m/10))
	year := int(100*b + d - 4800 + m/10)

	// Round to the nearest millisecond to undo the floating point noise of
	// the JD representation.
	ms := math.Round(frac * secondsPerDay * 1e3)
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(ms) * time.Millisecond)
}

// SecondsPastJ2000 returns the number of seconds between the given date/time
// and the J2000.0 epoch (negative before the epoch). All internal time
// arithmetic of the integrators uses this representation.
func SecondsPastJ2000(dt time.Time) float64 {
	return (JulianDate(dt) - J2000) * secondsPerDay
}

// CenturiesPastJ2000 returns the number of Julian centuries between the
// given date/time and the J2000.0 epoch.
func CenturiesPastJ2000(dt time.Time) float64 {
	return (JulianDate(dt) - J2000) / JulianCentury
}

// DateFromSecondsPastJ2000 is the inverse of SecondsPastJ2000.
func DateFromSecondsPastJ2000(et float64) time.Time {
	return CalendarDate(J2000 + et/secondsPerDay)
}
