package iir

import (
	"fmt"

	"github.com/cwbudde/algo-stream/stream/ring"
)

const defaultBufferSize = 256

type config struct {
	bufferSize int
}

// Option configures a Filter.
type Option func(*config)

// WithBufferSize sets the history buffer capacity in samples.
// Default is 256. Non-positive values are ignored.
func WithBufferSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.bufferSize = n
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{bufferSize: defaultBufferSize}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// Filter is a streaming IIR filter over a bounded history window.
//
// Exactly one of the two runtime coefficient forms is active, selected by
// the concrete [Coefficients] type passed to [New].
type Filter struct {
	ba  *baCoeffs
	sos []section

	history *ring.Ring
	window  []float64

	zBA  []float64
	zSOS [][2]float64
}

// New creates a streaming filter for the given coefficient set. The
// coefficients are validated and normalized here; a malformed set is a
// configuration error and is never deferred into ProcessSample.
func New(c Coefficients, opts ...Option) (*Filter, error) {
	if c == nil {
		return nil, errNilCoefficients
	}

	cfg := applyOptions(opts)

	f := &Filter{}
	switch cc := c.(type) {
	case BA:
		ba, err := cc.normalize()
		if err != nil {
			return nil, err
		}
		f.ba = ba
		f.zBA = make([]float64, len(ba.b)-1)
	case SOS:
		secs, err := cc.normalize()
		if err != nil {
			return nil, err
		}
		f.sos = secs
		f.zSOS = make([][2]float64, len(secs))
	default:
		return nil, fmt.Errorf("iir: unsupported coefficient type %T", c)
	}

	r, err := ring.New(cfg.bufferSize)
	if err != nil {
		return nil, err
	}
	f.history = r
	f.window = make([]float64, cfg.bufferSize)

	return f, nil
}

// ProcessSample appends x to the history (evicting the oldest sample at
// capacity), refilters the entire current window from zero initial state and
// returns the output at the most recent position. Zero-alloc in steady state.
func (f *Filter) ProcessSample(x float64) float64 {
	f.history.Push(x)
	n := f.history.CopyTo(f.window)
	w := f.window[:n]

	if f.ba != nil {
		return runBA(f.ba.b, f.ba.a, f.zBA, w, nil)
	}
	return runSOS(f.sos, f.zSOS, w, nil)
}

// ProcessBlock filters a block of samples in-place, one ProcessSample call
// per element.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Buffered returns the number of samples currently held in the history.
func (f *Filter) Buffered() int { return f.history.Len() }

// BufferSize returns the history capacity.
func (f *Filter) BufferSize() int { return f.history.Cap() }

// Reset discards the buffered history. Coefficients are unchanged.
func (f *Filter) Reset() {
	f.history.Reset()
}
