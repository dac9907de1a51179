package iir

import "fmt"

// MultiFilter filters vector-valued samples: a frame of N channels where the
// time axis is the call sequence. All channels share one coefficient set but
// keep independent histories.
type MultiFilter struct {
	filters []*Filter
}

// NewMulti creates a multichannel streaming filter.
func NewMulti(c Coefficients, channels int, opts ...Option) (*MultiFilter, error) {
	if channels < 1 {
		return nil, fmt.Errorf("iir: channel count must be > 0: %d", channels)
	}

	m := &MultiFilter{filters: make([]*Filter, channels)}
	for i := range m.filters {
		f, err := New(c, opts...)
		if err != nil {
			return nil, err
		}
		m.filters[i] = f
	}
	return m, nil
}

// Process filters one frame. The frame length must match the channel count.
func (m *MultiFilter) Process(frame []float64) ([]float64, error) {
	if len(frame) != len(m.filters) {
		return nil, fmt.Errorf("iir: frame length %d does not match %d channels", len(frame), len(m.filters))
	}

	out := make([]float64, len(frame))
	for i, x := range frame {
		out[i] = m.filters[i].ProcessSample(x)
	}
	return out, nil
}

// Channels returns the number of channels.
func (m *MultiFilter) Channels() int { return len(m.filters) }

// Reset discards the history of every channel.
func (m *MultiFilter) Reset() {
	for _, f := range m.filters {
		f.Reset()
	}
}
