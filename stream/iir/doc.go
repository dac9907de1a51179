// Package iir provides a streaming recursive (IIR) filter over a bounded
// sample history.
//
// A [Filter] wraps externally designed coefficients — either transfer
// function form [BA] or second-order sections [SOS] — together with a
// fixed-capacity ring of the most recent raw input samples. Each call to
// ProcessSample appends the new sample and refilters the entire buffered
// window from zero initial conditions, returning the output at the most
// recent position. Until the buffer fills, outputs are computed over the
// shorter window and may drift near the boundary; that edge effect is
// inherent to the design and deliberately not compensated.
//
// This package provides the processing runtime only. Coefficient design
// (Butterworth, Chebyshev, parametric EQ, etc.) lives in external design
// libraries such as github.com/cwbudde/algo-dsp/dsp/filter/design; use
// [FromBiquad] to adopt cascades produced there.
package iir
