// Package spectral provides a streaming spectrum monitor: a passthrough
// sample transform that keeps the most recent window of a stream and, on
// demand, reports its one-sided magnitude or power spectrum. It is intended
// as a lightweight diagnostic tap on an acquisition pipeline, sharing the
// bounded-history model of the streaming filters.
package spectral

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-stream/stream/ring"
)

type config struct {
	sampleRate float64
	windowType window.Type
}

// Option configures a Monitor.
type Option func(*config)

// WithSampleRate sets the sample rate used for bin-frequency conversion.
// Default is 48000. Non-positive values are ignored.
func WithSampleRate(fs float64) Option {
	return func(cfg *config) {
		if fs > 0 {
			cfg.sampleRate = fs
		}
	}
}

// WithWindow sets the analysis window type. Default is Hann.
func WithWindow(t window.Type) Option {
	return func(cfg *config) { cfg.windowType = t }
}

// Monitor taps a sample stream and exposes the spectrum of the most recent
// fftSize samples. Until the history fills, the analysis window is
// zero-padded at the end.
type Monitor struct {
	history    *ring.Ring
	plan       *algofft.Plan[complex128]
	coeffs     []float64
	sampleRate float64
	fftSize    int

	frame  []float64
	in     []complex128
	out    []complex128
	re, im []float64
}

// NewMonitor creates a spectrum monitor over a window of fftSize samples.
// fftSize must be a power of two >= 2.
func NewMonitor(fftSize int, opts ...Option) (*Monitor, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("spectral fft size must be a power of two >= 2: %d", fftSize)
	}

	cfg := config{sampleRate: 48000, windowType: window.TypeHann}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectral fft plan: %w", err)
	}

	r, err := ring.New(fftSize)
	if err != nil {
		return nil, err
	}

	bins := fftSize/2 + 1

	return &Monitor{
		history:    r,
		plan:       plan,
		coeffs:     window.Generate(cfg.windowType, fftSize),
		sampleRate: cfg.sampleRate,
		fftSize:    fftSize,
		frame:      make([]float64, fftSize),
		in:         make([]complex128, fftSize),
		out:        make([]complex128, fftSize),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
	}, nil
}

// ProcessSample records x in the history window and passes it through
// unchanged, so a Monitor can sit inline in a transform pipeline.
func (m *Monitor) ProcessSample(x float64) float64 {
	m.history.Push(x)
	return x
}

// Magnitude returns |X[k]| for the one-sided bins 0..fftSize/2 of the
// current window.
func (m *Monitor) Magnitude() []float64 {
	if !m.analyze() {
		return nil
	}

	out := make([]float64, len(m.re))
	vecmath.Magnitude(out, m.re, m.im)
	return out
}

// Power returns |X[k]|^2 for the one-sided bins 0..fftSize/2 of the
// current window.
func (m *Monitor) Power() []float64 {
	if !m.analyze() {
		return nil
	}

	out := make([]float64, len(m.re))
	vecmath.Power(out, m.re, m.im)
	return out
}

// analyze windows the buffered samples, runs the forward FFT and unpacks the
// one-sided bins into the re/im scratch slices.
func (m *Monitor) analyze() bool {
	for i := range m.frame {
		m.frame[i] = 0
	}
	m.history.CopyTo(m.frame)

	for i, v := range m.frame {
		w := 1.0
		if len(m.coeffs) == len(m.frame) {
			w = m.coeffs[i]
		}
		m.in[i] = complex(v*w, 0)
	}

	if err := m.plan.Forward(m.out, m.in); err != nil {
		return false
	}

	for i := range m.re {
		m.re[i] = real(m.out[i])
		m.im[i] = imag(m.out[i])
	}
	return true
}

// BinFrequency returns the center frequency in Hz of one-sided bin i.
func (m *Monitor) BinFrequency(i int) float64 {
	return float64(i) * m.sampleRate / float64(m.fftSize)
}

// FFTSize returns the analysis window length in samples.
func (m *Monitor) FFTSize() int { return m.fftSize }

// SampleRate returns the configured sample rate.
func (m *Monitor) SampleRate() float64 { return m.sampleRate }

// Buffered returns the number of samples currently held in the window.
func (m *Monitor) Buffered() int { return m.history.Len() }

// Reset discards the buffered history.
func (m *Monitor) Reset() { m.history.Reset() }
