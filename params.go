package ssd

import (
	"fmt"
	"sync"
)

const (
	// ASTRONOMICALUNIT is one astronomical unit in meters.
	ASTRONOMICALUNIT = 1.49597870691e11
	// SPEEDOFLIGHT is the speed of light in vacuum in m/s.
	SPEEDOFLIGHT = 299792458.0
	// GRAVITATIONALCONSTANT is Newton's constant G in m3/(kg s2). Only used
	// when a body's standard gravitational parameter is not tabulated, as μ
	// is known to greater accuracy than either G or M.
	GRAVITATIONALCONSTANT = 6.6743e-11
)

// OblatenessParams describe the zonal J2 term and the orientation of the
// rotation axis of an oblate body. Pole right ascension and declination are
// IAU working group values in the J2000 equatorial frame.
type OblatenessParams struct {
	J2               float64
	EquatorialRadius float64 // [m]
	PoleRA, PoleDec  float64 // [deg]
}

// BodyParams is a single row of the parameter registry.
type BodyParams struct {
	Name       string
	Mass       float64             // [kg]
	Mu         float64             // [m3/s2], 0 when only the mass is known
	Diameter   float64             // [m]
	Rates      *ElementRates       // long-form planets, nil otherwise
	Perihelion *PerihelionElements // small bodies, nil otherwise
	CenterBody string              // owning planet for moon-class bodies
	Oblateness *OblatenessParams   // nil for bodies treated as point masses
}

// Params is the read-only registry of physical and orbital parameters of the
// solar system bodies. Construct it once via DefaultParams and pass it by
// reference; it is immutable after initialization.
type Params struct {
	bodies  map[string]*BodyParams
	planets []string // planet-class bodies shown in heliocentric orbit
	moons   []string // moon-class bodies, each with a center body
}

var (
	defaultParamsOnce sync.Once
	defaultParams     *Params
)

// DefaultParams returns the registry with the compiled-in parameter tables.
func DefaultParams() *Params {
	defaultParamsOnce.Do(func() {
		defaultParams = newParams()
	})
	return defaultParams
}

// Body returns the full parameter row for the named body.
func (p *Params) Body(name string) (*BodyParams, error) {
	b, ok := p.bodies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return b, nil
}

// Mass returns the mass of the named body in kg.
func (p *Params) Mass(name string) (float64, error) {
	b, err := p.Body(name)
	if err != nil {
		return 0, err
	}
	return b.Mass, nil
}

// Mu returns the standard gravitational parameter of the named body in
// m3/s2, falling back to G*M when μ is not tabulated.
func (p *Params) Mu(name string) (float64, error) {
	b, err := p.Body(name)
	if err != nil {
		return 0, err
	}
	if b.Mu != 0 {
		return b.Mu, nil
	}
	return GRAVITATIONALCONSTANT * b.Mass, nil
}

// Diameter returns the diameter of the named body in m.
func (p *Params) Diameter(name string) (float64, error) {
	b, err := p.Body(name)
	if err != nil {
		return 0, err
	}
	return b.Diameter, nil
}

// Planets returns the names of all planet-class bodies (the dwarf planets,
// asteroids, and comets of the registry are treated as planets: they orbit
// the Sun directly).
func (p *Params) Planets() []string {
	out := make([]string, len(p.planets))
	copy(out, p.planets)
	return out
}

// Moons returns the names of all moon-class bodies.
func (p *Params) Moons() []string {
	out := make([]string, len(p.moons))
	copy(out, p.moons)
	return out
}

// MoonsOfPlanet returns the moons owned by the given planet.
func (p *Params) MoonsOfPlanet(planet string) []string {
	var out []string
	for _, m := range p.moons {
		if p.bodies[m].CenterBody == planet {
			out = append(out, m)
		}
	}
	return out
}

// PlanetOfMoon returns the owning planet of a moon-class body.
func (p *Params) PlanetOfMoon(moon string) (string, error) {
	b, err := p.Body(moon)
	if err != nil {
		return "", err
	}
	if b.CenterBody == "" {
		return "", fmt.Errorf("%w: %q is not a moon", ErrUnknownBody, moon)
	}
	return b.CenterBody, nil
}

/* Parameter tables.

Masses and diameters are from the NASA factsheets
(https://nssdc.gsfc.nasa.gov/planetary/factsheet/), the standard
gravitational parameters from the HORIZONS documentation (values in km3/s2
multiplied by 1e9). The long-form Keplerian elements and their rates are
Tables 2a/2b of "Keplerian Elements for Approximate Positions of the Major
Planets" by E.M. Standish (JPL/Caltech), valid 3000 BC -- AD 3000. The
small body elements are HORIZONS osculating elements at their listed epochs.
*/

func newParams() *Params {
	p := &Params{bodies: make(map[string]*BodyParams)}

	add := func(b *BodyParams) {
		p.bodies[b.Name] = b
		switch {
		case b.Name == "Sun":
		case b.CenterBody != "":
			p.moons = append(p.moons, b.Name)
		default:
			p.planets = append(p.planets, b.Name)
		}
	}

	add(&BodyParams{Name: "Sun", Mass: 1988500e24, Mu: 1.3271244001798698e20, Diameter: 1.3914e9})

	add(&BodyParams{Name: "Mercury", Mass: 0.33011e24, Mu: 2.2032080486417923e13, Diameter: 4.879e6,
		Rates: &ElementRates{
			Axis: 0.38709843, Eccentricity: 0.20563661, Inclination: 7.00559432,
			MeanLongitude: 252.25166724, LongPerihelion: 77.45771895, LongNode: 48.33961819,
			AxisDot: 0.00000000, EccentricityDot: 0.00002123, InclinationDot: -0.00590158,
			MeanLongitudeDot: 149472.67486623, LongPerihelionDot: 0.15940013, LongNodeDot: -0.12214182,
		}})

	add(&BodyParams{Name: "Venus", Mass: 4.8675e24, Mu: 3.2485859882645978e14, Diameter: 1.2104e7,
		Rates: &ElementRates{
			Axis: 0.72332102, Eccentricity: 0.00676399, Inclination: 3.39777545,
			MeanLongitude: 181.97970850, LongPerihelion: 131.76755713, LongNode: 76.67261496,
			AxisDot: -0.00000026, EccentricityDot: -0.00005107, InclinationDot: 0.00043494,
			MeanLongitudeDot: 58517.81560260, LongPerihelionDot: 0.05679648, LongNodeDot: -0.27274174,
		}})

	// The long-form row labeled "EM Bary" serves as the Earth row: the
	// approximate ephemeris describes the Earth-Moon barycenter, not the
	// Earth itself. See DESIGN.md for the convention.
	add(&BodyParams{Name: "Earth", Mass: 5.9723e24, Mu: 3.9860043289693922e14, Diameter: 1.2756e7,
		Rates: &ElementRates{
			Axis: 1.00000018, Eccentricity: 0.01673163, Inclination: -0.00054346,
			MeanLongitude: 100.46691572, LongPerihelion: 102.93005885, LongNode: -5.11260389,
			AxisDot: -0.00000003, EccentricityDot: -0.00003661, InclinationDot: -0.01337178,
			MeanLongitudeDot: 35999.37306329, LongPerihelionDot: 0.31795260, LongNodeDot: -0.24123856,
		},
		Oblateness: &OblatenessParams{J2: 1082.6269e-6, EquatorialRadius: 6.3781363e6, PoleRA: 0, PoleDec: 90}})

	add(&BodyParams{Name: "Mars", Mass: 0.64171e24, Mu: 4.2828314258067119e13, Diameter: 6.792e6,
		Rates: &ElementRates{
			Axis: 1.52371243, Eccentricity: 0.09336511, Inclination: 1.85181869,
			MeanLongitude: -4.56813164, LongPerihelion: -23.91744784, LongNode: 49.71320984,
			AxisDot: 0.00000097, EccentricityDot: 0.00009149, InclinationDot: -0.00724757,
			MeanLongitudeDot: 19140.29934243, LongPerihelionDot: 0.45223625, LongNodeDot: -0.26852431,
		},
		Oblateness: &OblatenessParams{J2: 1964e-6, EquatorialRadius: 3.39619e6, PoleRA: 317.68143, PoleDec: 52.88650}})

	add(&BodyParams{Name: "Jupiter", Mass: 1898.19e24, Mu: 1.2671276785779600e17, Diameter: 1.42984e8,
		Rates: &ElementRates{
			Axis: 5.20248019, Eccentricity: 0.04853590, Inclination: 1.29861416,
			MeanLongitude: 34.33479152, LongPerihelion: 14.27495244, LongNode: 100.29282654,
			AxisDot: -0.00002864, EccentricityDot: 0.00018026, InclinationDot: -0.00322699,
			MeanLongitudeDot: 3034.90371757, LongPerihelionDot: 0.18199196, LongNodeDot: 0.13024619,
			AugB: -0.00012452, AugC: 0.06064060, AugS: -0.35635438, AugF: 38.35125000,
		},
		Oblateness: &OblatenessParams{J2: 0.01475, EquatorialRadius: 7.1492e7, PoleRA: 268.056595, PoleDec: 64.495303}})

	add(&BodyParams{Name: "Saturn", Mass: 568.34e24, Mu: 3.7940626061137281e16, Diameter: 1.20536e8,
		Rates: &ElementRates{
			Axis: 9.54149883, Eccentricity: 0.05550825, Inclination: 2.49424102,
			MeanLongitude: 50.07571329, LongPerihelion: 92.86136063, LongNode: 113.63998702,
			AxisDot: -0.00003065, EccentricityDot: -0.00032044, InclinationDot: 0.00451969,
			MeanLongitudeDot: 1222.11494724, LongPerihelionDot: 0.54179478, LongNodeDot: -0.25015002,
			AugB: 0.00025899, AugC: -0.13434469, AugS: 0.87320147, AugF: 38.35125000,
		},
		Oblateness: &OblatenessParams{J2: 0.01645, EquatorialRadius: 6.0268e7, PoleRA: 40.589, PoleDec: 83.537}})

	add(&BodyParams{Name: "Uranus", Mass: 86.813e24, Mu: 5.7945490070718741e15, Diameter: 5.1118e7,
		Rates: &ElementRates{
			Axis: 19.18797948, Eccentricity: 0.04685740, Inclination: 0.77298127,
			MeanLongitude: 314.20276625, LongPerihelion: 172.43404441, LongNode: 73.96250215,
			AxisDot: -0.00020455, EccentricityDot: -0.00001550, InclinationDot: -0.00180155,
			MeanLongitudeDot: 428.49512595, LongPerihelionDot: 0.09266985, LongNodeDot: 0.05739699,
			AugB: 0.00058331, AugC: -0.97731848, AugS: 0.17689245, AugF: 7.67025000,
		},
		Oblateness: &OblatenessParams{J2: 0.012, EquatorialRadius: 2.5559e7, PoleRA: 257.311, PoleDec: -15.175}})

	add(&BodyParams{Name: "Neptune", Mass: 102.413e24, Mu: 6.8365340638792608e15, Diameter: 4.9528e7,
		Rates: &ElementRates{
			Axis: 30.06952752, Eccentricity: 0.00895439, Inclination: 1.77005520,
			MeanLongitude: 304.22289287, LongPerihelion: 46.68158724, LongNode: 131.78635853,
			AxisDot: 0.00006447, EccentricityDot: 0.00000818, InclinationDot: 0.00022400,
			MeanLongitudeDot: 218.46515314, LongPerihelionDot: 0.01009938, LongNodeDot: -0.00606302,
			AugB: -0.00041348, AugC: 0.68346318, AugS: -0.10162547, AugF: 7.67025000,
		},
		Oblateness: &OblatenessParams{J2: 0.003411, EquatorialRadius: 2.4764e7, PoleRA: 299.36, PoleDec: 43.46}})

	add(&BodyParams{Name: "Pluto", Mass: 0.01303e24, Mu: 9.8160088770700440e11, Diameter: 2.370e6,
		Rates: &ElementRates{
			Axis: 39.48686035, Eccentricity: 0.24885238, Inclination: 17.14104260,
			MeanLongitude: 238.96535011, LongPerihelion: 224.09702598, LongNode: 110.30167986,
			AxisDot: 0.00449751, EccentricityDot: 0.00006016, InclinationDot: 0.00000501,
			MeanLongitudeDot: 145.18042903, LongPerihelionDot: -0.00968827, LongNodeDot: -0.00809981,
			AugB: -0.01262724,
		}})

	// Earth's moon. The approximate elements are relative to the Earth and
	// are not corrected for date; the file-backed sources take precedence
	// whenever their window covers the request.
	add(&BodyParams{Name: "Moon", Mass: 0.07346e24, Mu: 4.9028005821477636e12, Diameter: 3.475e6,
		CenterBody: "Earth",
		Perihelion: &PerihelionElements{
			Axis: 3.844e8 / ASTRONOMICALUNIT, Eccentricity: 0.05490, Inclination: 5.145,
			MeanMotion: 360.0 / 27.321582,
		}})

	// Dwarf planets, asteroids, and comets (HORIZONS osculating elements).
	add(&BodyParams{Name: "Eris", Mass: 1.66e22, Mu: 1.1089e12, Diameter: 2.326e6,
		Perihelion: &PerihelionElements{
			Axis: 67.64968008508858, Eccentricity: 0.4417142619088136, Inclination: 44.20390955432094,
			ArgPerihelion: 151.5223022346903, LongNode: 35.87791199490014,
			PerihelionPassage: 2545575.799683113451, MeanMotion: 0.001771354370292503,
		}})
	add(&BodyParams{Name: "Chiron", Mass: 2.7e18, Diameter: 2.33e5,
		Perihelion: &PerihelionElements{
			Axis: 13.64821600709919, Eccentricity: 0.3822544351242399, Inclination: 6.949678708401436,
			ArgPerihelion: 339.6766969686663, LongNode: 209.200869875238,
			PerihelionPassage: 2450143.772120038983, MeanMotion: 0.01954745593835608,
		}})
	add(&BodyParams{Name: "Ceres", Mass: 9.393e20, Mu: 6.26284e10, Diameter: 9.46e5,
		Perihelion: &PerihelionElements{
			Axis: 2.767409329208225, Eccentricity: 0.07560729117115973, Inclination: 10.59321706277403,
			ArgPerihelion: 73.02374264688446, LongNode: 80.3088826123586,
			PerihelionPassage: 2458236.411182414352, MeanMotion: 0.2140888123385267,
		}})
	add(&BodyParams{Name: "Pallas", Mass: 2.11e20, Mu: 1.43e10, Diameter: 5.12e5,
		Perihelion: &PerihelionElements{
			Axis: 2.773085152812061, Eccentricity: 0.2305974109006172, Inclination: 34.83791913233102,
			ArgPerihelion: 309.9915581445374, LongNode: 173.0871774252975,
			PerihelionPassage: 2458320.736325116834, MeanMotion: 0.213431868021857,
		}})
	add(&BodyParams{Name: "Juno", Mass: 2.67e19, Diameter: 2.33e5,
		Perihelion: &PerihelionElements{
			Axis: 2.668531209360437, Eccentricity: 0.256853452328373, Inclination: 12.98996127586185,
			ArgPerihelion: 248.2064931516843, LongNode: 169.8582922221972,
			PerihelionPassage: 2458446.171166688112, MeanMotion: 0.2260974396170018,
		}})
	add(&BodyParams{Name: "Vesta", Mass: 2.59076e20, Mu: 1.78e10, Diameter: 5.254e5,
		Perihelion: &PerihelionElements{
			Axis: 2.361777559799509, Eccentricity: 0.08915261042902074, Inclination: 7.140019358926029,
			ArgPerihelion: 150.9430865320649, LongNode: 103.8358792056089,
			PerihelionPassage: 2458248.301104802767, MeanMotion: 0.2715473607287919,
		}})
	add(&BodyParams{Name: "Eros", Mass: 6.687e15, Mu: 4.463e5, Diameter: 1.684e4,
		Perihelion: &PerihelionElements{
			Axis: 1.457940027169433, Eccentricity: 0.2225889698361087, Inclination: 10.82759100791667,
			ArgPerihelion: 178.8165910772738, LongNode: 304.3221633760257,
			PerihelionPassage: 2457873.186399170510, MeanMotion: 0.559879523918286,
		}})
	add(&BodyParams{Name: "Halley", Mass: 2.2e14, Diameter: 1.1e4,
		Perihelion: &PerihelionElements{
			Axis: 17.83414429255373, Eccentricity: 0.9671429084623044, Inclination: 162.2626905791606,
			ArgPerihelion: 111.3324851045177, LongNode: 58.42008097656843,
			PerihelionPassage: 2446467.395317050925, MeanMotion: 0.01308656479244564,
		}})
	add(&BodyParams{Name: "Encke", Mass: 9.2e15, Diameter: 2.6e3,
		Perihelion: &PerihelionElements{
			Axis: 2.215103855763232, Eccentricity: 0.8482929263100047, Inclination: 11.78089864093374,
			ArgPerihelion: 186.5416777104336, LongNode: 334.5688235640465,
			PerihelionPassage: 2456618.220238561292, MeanMotion: 0.2989598963807595,
		}})
	add(&BodyParams{Name: "67P", Mass: 9.982e12, Diameter: 4.1e3,
		Perihelion: &PerihelionElements{
			Axis: 3.464737502510219, Eccentricity: 0.6405823233437267, Inclination: 7.043680712713979,
			ArgPerihelion: 12.69446409956478, LongNode: 50.18004588418096,
			PerihelionPassage: 2454891.027525088560, MeanMotion: 0.1528264653077319,
		}})
	// Orbital parameters not valid before 1992-Jul-15 nor after 1994-Jul-16.
	add(&BodyParams{Name: "Shoemaker-Levy 9", Mass: 1.0e13, Diameter: 1.0e4,
		Perihelion: &PerihelionElements{
			Axis: 6.86479462772464, Eccentricity: 0.216209166902718, Inclination: 6.00329387351007,
			ArgPerihelion: 354.8935191875186, LongNode: 220.5376550079234,
			PerihelionPassage: 2449435.603196492293, MeanMotion: 0.05479775297461272,
		}})
	add(&BodyParams{Name: "Hale-Bopp", Mass: 1.0e13, Diameter: 8.0e4,
		Perihelion: &PerihelionElements{
			Axis: 191.0064717884599, Eccentricity: 0.995213296666182, Inclination: 89.43269534883738,
			ArgPerihelion: 130.5768076894707, LongNode: 282.4722897964125,
			PerihelionPassage: 2450539.628109521717, MeanMotion: 0.0003733635782842797,
		}})
	add(&BodyParams{Name: "Florence", Mass: 1.0e13, Diameter: 4.9e3,
		Perihelion: &PerihelionElements{
			Axis: 1.769132445343428, Eccentricity: 0.4233004309875272, Inclination: 22.15078418498147,
			ArgPerihelion: 27.84698807748255, LongNode: 336.0951180796379,
			PerihelionPassage: 2458020.940196224544, MeanMotion: 0.418854854065512,
		}})

	// Moons of the outer planet systems. μ from the JPL satellite ephemeris
	// releases (km3/s2 scaled to m3/s2). The orbital elements are mean
	// values relative to the owning planet and, like the Moon row above,
	// are not corrected for date: they are only the fallback when the
	// system kernels do not cover the request.
	addMoon := func(name, planet string, mass, μ, diameter, axisKm, e, i, periodDays float64) {
		add(&BodyParams{Name: name, CenterBody: planet, Mass: mass, Mu: μ, Diameter: diameter,
			Perihelion: &PerihelionElements{
				Axis: axisKm * 1e3 / ASTRONOMICALUNIT, Eccentricity: e, Inclination: i,
				MeanMotion: 360.0 / periodDays,
			}})
	}
	addMoon("Io", "Jupiter", 8.9319e22, 5.959916e12, 3.6432e6, 421800, 0.0041, 0.036, 1.769138)
	addMoon("Europa", "Jupiter", 4.7998e22, 3.202739e12, 3.1216e6, 671100, 0.0094, 0.466, 3.551181)
	addMoon("Ganymede", "Jupiter", 1.4819e23, 9.887834e12, 5.2682e6, 1070400, 0.0013, 0.177, 7.154553)
	addMoon("Callisto", "Jupiter", 1.0759e23, 7.179289e12, 4.8206e6, 1882700, 0.0074, 0.192, 16.689017)

	addMoon("Mimas", "Saturn", 3.7493e19, 2.5026e9, 3.964e5, 185540, 0.0196, 1.574, 0.9424218)
	addMoon("Enceladus", "Saturn", 1.0802e20, 7.2027e9, 5.042e5, 238040, 0.0047, 0.003, 1.370218)
	addMoon("Tethys", "Saturn", 6.1749e20, 4.121e10, 1.0622e6, 294670, 0.0001, 1.091, 1.887802)
	addMoon("Dione", "Saturn", 1.0955e21, 7.3113e10, 1.1228e6, 377420, 0.0022, 0.028, 2.736915)
	addMoon("Rhea", "Saturn", 2.3065e21, 1.5394e11, 1.5276e6, 527070, 0.0010, 0.333, 4.517500)
	addMoon("Titan", "Saturn", 1.3452e23, 8.97814e12, 5.1495e6, 1221870, 0.0288, 0.306, 15.945421)
	addMoon("Hyperion", "Saturn", 5.62e18, 3.7e8, 2.70e5, 1500880, 0.0274, 0.615, 21.276609)
	addMoon("Iapetus", "Saturn", 1.8057e21, 1.2051e11, 1.4686e6, 3560840, 0.0283, 7.489, 79.330183)
	addMoon("Phoebe", "Saturn", 8.29e18, 5.534e8, 2.13e5, 12947780, 0.1635, 175.986, 550.48)

	addMoon("Miranda", "Uranus", 6.59e19, 4.4e9, 4.716e5, 129900, 0.0013, 4.338, 1.413479)
	addMoon("Ariel", "Uranus", 1.353e21, 8.64e10, 1.1578e6, 190900, 0.0012, 0.041, 2.520379)
	addMoon("Umbriel", "Uranus", 1.172e21, 8.15e10, 1.1694e6, 266000, 0.0039, 0.128, 4.144177)
	addMoon("Titania", "Uranus", 3.527e21, 2.282e11, 1.5768e6, 436300, 0.0011, 0.079, 8.705872)
	addMoon("Oberon", "Uranus", 3.014e21, 1.924e11, 1.5228e6, 583500, 0.0014, 0.068, 13.463239)

	addMoon("Triton", "Neptune", 2.139e22, 1.4276e12, 2.7068e6, 354800, 0.0000, 156.865, 5.876854)
	addMoon("Nereid", "Neptune", 3.1e19, 2.06e9, 3.57e5, 5513400, 0.7512, 7.090, 360.13619)
	addMoon("Proteus", "Neptune", 4.4e19, 2.9e9, 4.20e5, 117647, 0.0005, 0.026, 1.122315)

	return p
}
