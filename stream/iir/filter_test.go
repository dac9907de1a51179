package iir

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// testSignal returns a deterministic mixed ramp/sine signal.
func testSignal(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 0.01*float64(i) + math.Sin(2*math.Pi*float64(i)/7.3)
	}
	return x
}

// lowpassBiquad returns a well-behaved lowpass-like biquad used across tests.
func lowpassBiquad() Section {
	return Section{0.25, 0.5, 0.25, 1, -0.2, 0.04}
}

func TestNew_ConfigurationErrors(t *testing.T) {
	cases := []struct {
		name string
		c    Coefficients
	}{
		{"nil coefficients", nil},
		{"empty numerator", BA{B: nil, A: []float64{1}}},
		{"empty denominator", BA{B: []float64{1}, A: nil}},
		{"zero a0", BA{B: []float64{1}, A: []float64{0, 0.5}}},
		{"nan a0", BA{B: []float64{1}, A: []float64{math.NaN()}}},
		{"no sections", SOS{}},
		{"zero section a0", SOS{Sections: []Section{{1, 0, 0, 0, 0, 0}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.c); err == nil {
				t.Errorf("expected configuration error")
			}
		})
	}
}

func TestProcessSample_FreshFilterSingleStep(t *testing.T) {
	// With exactly one buffered sample, the streaming output must equal a
	// single recursion step applied to that sample.
	x := 0.75

	t.Run("ba", func(t *testing.T) {
		f, err := New(BA{B: []float64{0.4, 0.3}, A: []float64{2, -0.5}})
		if err != nil {
			t.Fatal(err)
		}
		got := f.ProcessSample(x)
		want := (0.4 / 2) * x // first DF2T step: y = b0*x with zero state
		if !almostEqual(got, want, eps) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("sos", func(t *testing.T) {
		s := lowpassBiquad()
		f, err := New(SOS{Sections: []Section{s, s}})
		if err != nil {
			t.Fatal(err)
		}
		got := f.ProcessSample(x)
		want := s[0] * s[0] * x // cascade of two zero-state b0 gains
		if !almostEqual(got, want, eps) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestProcessSample_EvictionMatchesRecomputation(t *testing.T) {
	// After feeding more samples than the buffer holds, the output must match
	// an offline recomputation over only the last bufferSize samples.
	const bufferSize = 8

	coeffs := SOS{Sections: []Section{lowpassBiquad()}}
	f, err := New(coeffs, WithBufferSize(bufferSize))
	if err != nil {
		t.Fatal(err)
	}

	x := testSignal(50)
	var got float64
	for _, v := range x {
		got = f.ProcessSample(v)
	}

	out, err := Apply(coeffs, x[len(x)-bufferSize:])
	if err != nil {
		t.Fatal(err)
	}
	want := out[len(out)-1]

	if !almostEqual(got, want, eps) {
		t.Errorf("streaming output %v, recomputed %v", got, want)
	}
}

func TestApply_BAandSOSAgree(t *testing.T) {
	// The same biquad expressed in both forms must produce identical output.
	s := lowpassBiquad()
	ba := BA{
		B: []float64{s[0], s[1], s[2]},
		A: []float64{s[3], s[4], s[5]},
	}
	sos := SOS{Sections: []Section{s}}

	x := testSignal(64)
	outBA, err := Apply(ba, x)
	if err != nil {
		t.Fatal(err)
	}
	outSOS, err := Apply(sos, x)
	if err != nil {
		t.Fatal(err)
	}

	for i := range x {
		if !almostEqual(outBA[i], outSOS[i], eps) {
			t.Fatalf("sample %d: ba=%v sos=%v", i, outBA[i], outSOS[i])
		}
	}
}

func TestBA_NormalizesByA0(t *testing.T) {
	x := testSignal(32)

	out1, err := Apply(BA{B: []float64{0.5, 0.5}, A: []float64{1, -0.1}}, x)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := Apply(BA{B: []float64{1, 1}, A: []float64{2, -0.2}}, x)
	if err != nil {
		t.Fatal(err)
	}

	for i := range x {
		if !almostEqual(out1[i], out2[i], eps) {
			t.Fatalf("sample %d: %v != %v", i, out1[i], out2[i])
		}
	}
}

func TestFromBiquad_MatchesChain(t *testing.T) {
	// A cascade adopted from the algo-dsp coefficient source must reproduce
	// the reference biquad chain when filtered from zero state.
	sections := []biquad.Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.3, B1: 0.1, B2: 0.05, A1: -0.4, A2: 0.1},
	}

	x := testSignal(48)

	chain := biquad.NewChain(sections)
	want := make([]float64, len(x))
	for i, v := range x {
		want[i] = chain.ProcessSample(v)
	}

	got, err := Apply(FromBiquad(sections), x)
	if err != nil {
		t.Fatal(err)
	}

	for i := range x {
		if !almostEqual(got[i], want[i], eps) {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProcessBlock_MatchesProcessSample(t *testing.T) {
	coeffs := BA{B: []float64{0.2, 0.2, 0.2}, A: []float64{1, -0.3, 0.05}}

	f1, err := New(coeffs, WithBufferSize(16))
	if err != nil {
		t.Fatal(err)
	}
	f2, err := New(coeffs, WithBufferSize(16))
	if err != nil {
		t.Fatal(err)
	}

	x := testSignal(40)
	want := make([]float64, len(x))
	for i, v := range x {
		want[i] = f1.ProcessSample(v)
	}

	block := make([]float64, len(x))
	copy(block, x)
	f2.ProcessBlock(block)

	for i := range block {
		if !almostEqual(block[i], want[i], eps) {
			t.Fatalf("sample %d: block=%v sample=%v", i, block[i], want[i])
		}
	}
}

func TestReset_ClearsHistoryOnly(t *testing.T) {
	coeffs := SOS{Sections: []Section{lowpassBiquad()}}
	f, err := New(coeffs, WithBufferSize(8))
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range testSignal(20) {
		f.ProcessSample(v)
	}
	f.Reset()

	if f.Buffered() != 0 {
		t.Fatalf("Buffered after Reset = %d, want 0", f.Buffered())
	}

	// A fresh filter and a reset filter must agree on the next sample.
	fresh, _ := New(coeffs, WithBufferSize(8))
	if got, want := f.ProcessSample(0.5), fresh.ProcessSample(0.5); !almostEqual(got, want, eps) {
		t.Errorf("after Reset: got %v, want %v", got, want)
	}
}

func TestMultiFilter_IndependentChannels(t *testing.T) {
	coeffs := BA{B: []float64{0.5, 0.5}, A: []float64{1}}

	m, err := NewMulti(coeffs, 2, WithBufferSize(8))
	if err != nil {
		t.Fatal(err)
	}
	ref0, _ := New(coeffs, WithBufferSize(8))
	ref1, _ := New(coeffs, WithBufferSize(8))

	for i := range 10 {
		a := float64(i)
		b := -2 * float64(i)
		out, err := m.Process([]float64{a, b})
		if err != nil {
			t.Fatal(err)
		}
		if w := ref0.ProcessSample(a); !almostEqual(out[0], w, eps) {
			t.Fatalf("step %d channel 0: got %v, want %v", i, out[0], w)
		}
		if w := ref1.ProcessSample(b); !almostEqual(out[1], w, eps) {
			t.Fatalf("step %d channel 1: got %v, want %v", i, out[1], w)
		}
	}
}

func TestMultiFilter_FrameLengthMismatch(t *testing.T) {
	m, err := NewMulti(BA{B: []float64{1}, A: []float64{1}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Process([]float64{1, 2}); err == nil {
		t.Error("expected frame length error")
	}
}

func TestMultiFilter_InvalidChannelCount(t *testing.T) {
	if _, err := NewMulti(BA{B: []float64{1}, A: []float64{1}}, 0); err == nil {
		t.Error("expected channel count error")
	}
}
