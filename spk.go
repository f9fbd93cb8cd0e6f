package ssd

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"
)

/* Reader for SPK kernels in the DAF (double precision array file) format as
distributed by the NAIF. Only the Chebyshev record types 2 (position) and 3
(position and velocity) are supported, which covers the planetary and
satellite kernels consumed here. Target and observer follow the NAIF id
scheme (10=Sun, 3=Earth-Moon barycenter, 301=Moon, 699=Saturn, ...).

The file stays open for the life of the reader; states are pure with respect
to (epoch, target, observer) once the segment directory has been read. */

const dafRecordLen = 1024

// SPKSegment describes one segment of a kernel: a (target, observer) pair
// with Chebyshev records covering [StartET, StopET] seconds past J2000.
type SPKSegment struct {
	Target, Observer int
	Frame, Type      int
	StartET, StopET  float64
	StartJD, StopJD  float64

	begin, end int // 1-based word addresses of the segment data

	// Directory values, read lazily on first interpolation.
	loaded       bool
	init, intlen float64
	rsize, nrec  int
}

// SPK reads states from a single SPK kernel file.
type SPK struct {
	f        *os.File
	order    binary.ByteOrder
	segments []SPKSegment
}

// OpenSPK opens a kernel and reads its segment directory.
func OpenSPK(path string) (*SPK, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	s := &SPK{f: f}
	if err = s.readFileRecord(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the file handle.
func (s *SPK) Close() error {
	return s.f.Close()
}

// Segments returns the segment directory of the kernel.
func (s *SPK) Segments() []SPKSegment {
	out := make([]SPKSegment, len(s.segments))
	copy(out, s.segments)
	return out
}

func (s *SPK) readFileRecord() error {
	rec := make([]byte, dafRecordLen)
	if _, err := s.f.ReadAt(rec, 0); err != nil {
		return fmt.Errorf("%w: reading file record: %v", ErrIO, err)
	}
	idword := strings.TrimRight(string(rec[0:8]), " \x00")
	if idword != "DAF/SPK" {
		return fmt.Errorf("%w: not an SPK kernel (id word %q)", ErrIO, idword)
	}
	switch fmtword := strings.TrimRight(string(rec[88:96]), " \x00"); fmtword {
	case "LTL-IEEE":
		s.order = binary.LittleEndian
	case "BIG-IEEE":
		s.order = binary.BigEndian
	default:
		return fmt.Errorf("%w: unsupported binary format %q", ErrIO, fmtword)
	}
	nd := int(s.order.Uint32(rec[8:12]))
	ni := int(s.order.Uint32(rec[12:16]))
	if nd != 2 || ni != 6 {
		return fmt.Errorf("%w: unexpected summary format ND=%d NI=%d", ErrIO, nd, ni)
	}
	fward := int(s.order.Uint32(rec[76:80]))
	return s.readSummaries(fward)
}

func (s *SPK) readSummaries(record int) error {
	rec := make([]byte, dafRecordLen)
	for record > 0 {
		if _, err := s.f.ReadAt(rec, int64(record-1)*dafRecordLen); err != nil {
			return fmt.Errorf("%w: reading summary record %d: %v", ErrIO, record, err)
		}
		next := int(s.float64At(rec, 0))
		nsum := int(s.float64At(rec, 2))
		// Each summary holds ND doubles followed by NI packed int32s, which
		// is 5 doubles for SPK (ND=2, NI=6).
		for i := 0; i < nsum; i++ {
			off := 3 + i*5
			seg := SPKSegment{
				StartET:  s.float64At(rec, off),
				StopET:   s.float64At(rec, off+1),
				Target:   int(int32(s.order.Uint32(rec[(off+2)*8 : (off+2)*8+4]))),
				Observer: int(int32(s.order.Uint32(rec[(off+2)*8+4 : (off+2)*8+8]))),
				Frame:    int(int32(s.order.Uint32(rec[(off+3)*8 : (off+3)*8+4]))),
				Type:     int(int32(s.order.Uint32(rec[(off+3)*8+4 : (off+3)*8+8]))),
				begin:    int(int32(s.order.Uint32(rec[(off+4)*8 : (off+4)*8+4]))),
				end:      int(int32(s.order.Uint32(rec[(off+4)*8+4 : (off+4)*8+8]))),
			}
			seg.StartJD = J2000 + seg.StartET/secondsPerDay
			seg.StopJD = J2000 + seg.StopET/secondsPerDay
			s.segments = append(s.segments, seg)
		}
		record = next
	}
	return nil
}

func (s *SPK) float64At(rec []byte, word int) float64 {
	return math.Float64frombits(s.order.Uint64(rec[word*8 : word*8+8]))
}

// readWords reads n doubles starting at the given 1-based word address.
func (s *SPK) readWords(addr, n int) ([]float64, error) {
	buf := make([]byte, n*8)
	if _, err := s.f.ReadAt(buf, int64(addr-1)*8); err != nil {
		return nil, fmt.Errorf("%w: reading %d words at %d: %v", ErrIO, n, addr, err)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(s.order.Uint64(buf[i*8 : i*8+8]))
	}
	return out, nil
}

// StateAt interpolates the state of target relative to observer at et
// seconds past J2000. Outputs in km and km/s, in the frame of the segment
// (J2000 equatorial for the NAIF kernels).
func (s *SPK) StateAt(et float64, target, observer int) (position, velocity Vector3D, err error) {
	var match *SPKSegment
	pairExists := false
	for i := range s.segments {
		seg := &s.segments[i]
		if seg.Target != target || seg.Observer != observer {
			continue
		}
		pairExists = true
		if et >= seg.StartET && et <= seg.StopET {
			// Later segments supersede earlier ones, as in SPICE.
			match = seg
		}
	}
	if match == nil {
		if pairExists {
			return Vector3D{}, Vector3D{}, fmt.Errorf("%w: et=%g for target %d observer %d", ErrOutOfRange, et, target, observer)
		}
		return Vector3D{}, Vector3D{}, fmt.Errorf("%w: no segment for target %d observer %d", ErrUnknownBody, target, observer)
	}
	if match.Type != 2 && match.Type != 3 {
		return Vector3D{}, Vector3D{}, fmt.Errorf("%w: segment type %d", ErrUnsupported, match.Type)
	}
	if !match.loaded {
		dir, derr := s.readWords(match.end-3, 4)
		if derr != nil {
			return Vector3D{}, Vector3D{}, derr
		}
		match.init, match.intlen = dir[0], dir[1]
		match.rsize, match.nrec = int(dir[2]), int(dir[3])
		match.loaded = true
	}

	recIdx := int((et - match.init) / match.intlen)
	if recIdx >= match.nrec {
		recIdx = match.nrec - 1
	}
	if recIdx < 0 {
		recIdx = 0
	}
	rec, err := s.readWords(match.begin+recIdx*match.rsize, match.rsize)
	if err != nil {
		return Vector3D{}, Vector3D{}, err
	}
	mid, radius := rec[0], rec[1]
	x := (et - mid) / radius // normalized to [-1, 1]

	var ncomp int
	if match.Type == 2 {
		ncomp = 3
	} else {
		ncomp = 6
	}
	ncoef := (match.rsize - 2) / ncomp

	var state [6]float64
	for c := 0; c < ncomp; c++ {
		coefs := rec[2+c*ncoef : 2+(c+1)*ncoef]
		v, dv := chebyshev(coefs, x)
		state[c] = v
		if match.Type == 2 && c < 3 {
			// Differentiate the position polynomial for the velocity.
			state[c+3] = dv / radius
		}
	}
	position = Vector3D{state[0], state[1], state[2]}
	velocity = Vector3D{state[3], state[4], state[5]}
	return position, velocity, nil
}

// chebyshev evaluates a Chebyshev series and its derivative at x in [-1, 1].
func chebyshev(coefs []float64, x float64) (value, derivative float64) {
	// T_0, T_1 and their derivatives seed the recurrence
	// T_{k+1} = 2x T_k - T_{k-1}.
	tPrev, t := 1.0, x
	dPrev, d := 0.0, 1.0
	value = coefs[0]
	if len(coefs) > 1 {
		value += coefs[1] * t
		derivative = coefs[1]
	}
	for k := 2; k < len(coefs); k++ {
		tNext := 2*x*t - tPrev
		dNext := 2*t + 2*x*d - dPrev
		value += coefs[k] * tNext
		derivative += coefs[k] * dNext
		tPrev, t = t, tNext
		dPrev, d = d, dNext
	}
	return value, derivative
}
