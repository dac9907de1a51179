package iir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

var (
	errNilCoefficients = errors.New("iir: coefficients must not be nil")
	errEmptyNumerator  = errors.New("iir: numerator coefficients must not be empty")
	errEmptyDenom      = errors.New("iir: denominator coefficients must not be empty")
	errNoSections      = errors.New("iir: at least one second-order section required")
)

// Coefficients is the closed set of coefficient representations accepted by
// [New]. The two concrete forms are [BA] (transfer function) and [SOS]
// (cascaded second-order sections).
type Coefficients interface {
	validate() error
	sealed()
}

// BA holds transfer-function coefficients: numerator B and denominator A.
// A[0] must be nonzero; both slices are normalized by A[0] at construction.
type BA struct {
	B []float64
	A []float64
}

func (BA) sealed() {}

func (c BA) validate() error {
	if len(c.B) == 0 {
		return errEmptyNumerator
	}
	if len(c.A) == 0 {
		return errEmptyDenom
	}
	if c.A[0] == 0 || math.IsNaN(c.A[0]) || math.IsInf(c.A[0], 0) {
		return fmt.Errorf("iir: denominator a[0] must be nonzero and finite: %v", c.A[0])
	}
	return nil
}

// Section is one second-order section in [b0 b1 b2 a0 a1 a2] order.
// a0 must be nonzero; the section is normalized by a0 at construction.
type Section [6]float64

// SOS holds a cascade of second-order sections.
type SOS struct {
	Sections []Section
}

func (SOS) sealed() {}

func (c SOS) validate() error {
	if len(c.Sections) == 0 {
		return errNoSections
	}
	for i, s := range c.Sections {
		a0 := s[3]
		if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
			return fmt.Errorf("iir: section %d a0 must be nonzero and finite: %v", i, a0)
		}
	}
	return nil
}

// FromBiquad converts a biquad cascade, as produced by the algo-dsp design
// packages, into SOS form. The biquad convention already normalizes a0 to 1.
func FromBiquad(sections []biquad.Coefficients) SOS {
	out := SOS{Sections: make([]Section, len(sections))}
	for i, s := range sections {
		out.Sections[i] = Section{s.B0, s.B1, s.B2, 1, s.A1, s.A2}
	}
	return out
}

// baCoeffs is the normalized runtime form of BA: both slices padded to equal
// length, scaled so that a[0] == 1.
type baCoeffs struct {
	b []float64
	a []float64
}

func (c BA) normalize() (*baCoeffs, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	n := len(c.B)
	if len(c.A) > n {
		n = len(c.A)
	}

	inv := 1 / c.A[0]
	b := make([]float64, n)
	a := make([]float64, n)
	for i, v := range c.B {
		b[i] = v * inv
	}
	for i, v := range c.A {
		a[i] = v * inv
	}

	return &baCoeffs{b: b, a: a}, nil
}

// section is the normalized runtime form of one SOS row (a0 divided out).
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
}

func (c SOS) normalize() ([]section, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	secs := make([]section, len(c.Sections))
	for i, s := range c.Sections {
		inv := 1 / s[3]
		secs[i] = section{
			b0: s[0] * inv,
			b1: s[1] * inv,
			b2: s[2] * inv,
			a1: s[4] * inv,
			a2: s[5] * inv,
		}
	}
	return secs, nil
}

// runBA applies the transfer-function recursion (Direct Form II Transposed)
// over x with zero initial state. z is the delay-line scratch, len(b)-1
// entries, zeroed on entry. When out is non-nil the full output is written
// to it; the final output sample is returned either way.
func runBA(b, a, z, x, out []float64) float64 {
	for i := range z {
		z[i] = 0
	}

	n := len(b)
	var y float64
	for i, v := range x {
		if n == 1 {
			y = b[0] * v
		} else {
			y = b[0]*v + z[0]
			for j := 1; j < n-1; j++ {
				z[j-1] = b[j]*v + z[j] - a[j]*y
			}
			z[n-2] = b[n-1]*v - a[n-1]*y
		}
		if out != nil {
			out[i] = y
		}
	}
	return y
}

// runSOS applies the cascaded second-order-section recursion (Direct Form II
// Transposed per section) over x with zero initial state. st holds one
// [d0, d1] pair per section and is zeroed on entry.
func runSOS(secs []section, st [][2]float64, x, out []float64) float64 {
	for i := range st {
		st[i] = [2]float64{}
	}

	var y float64
	for i, v := range x {
		s := v
		for j := range secs {
			sec := &secs[j]
			yj := sec.b0*s + st[j][0]
			st[j][0] = sec.b1*s - sec.a1*yj + st[j][1]
			st[j][1] = sec.b2*s - sec.a2*yj
			s = yj
		}
		y = s
		if out != nil {
			out[i] = y
		}
	}
	return y
}

// Apply filters x with the given coefficients from zero initial state and
// returns the full output sequence. It is the offline counterpart of the
// streaming [Filter] and is useful for recomputing a buffered window.
func Apply(c Coefficients, x []float64) ([]float64, error) {
	if c == nil {
		return nil, errNilCoefficients
	}

	out := make([]float64, len(x))
	switch cc := c.(type) {
	case BA:
		ba, err := cc.normalize()
		if err != nil {
			return nil, err
		}
		runBA(ba.b, ba.a, make([]float64, len(ba.b)-1), x, out)
	case SOS:
		secs, err := cc.normalize()
		if err != nil {
			return nil, err
		}
		runSOS(secs, make([][2]float64, len(secs)), x, out)
	default:
		return nil, fmt.Errorf("iir: unsupported coefficient type %T", c)
	}
	return out, nil
}
