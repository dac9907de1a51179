// Command trackdemo simulates a noisy 1-D constant-velocity track and runs
// it through the streaming estimators: a Kalman filter with the classic
// constant-velocity model and an IIR lowpass smoother designed by algo-dsp.
//
// It prints CSV to stdout, one row per sample:
//
//	step,truth,measured,kalman_pos,kalman_vel,iir_pos
//
// Examples:
//
//	trackdemo
//	trackdemo -n 500 -noise 3 -seed 42
//	trackdemo -cutoff 2 -order 4 -rate 100
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-dsp/dsp/filter/design/pass"
	"github.com/cwbudde/algo-stream/stream/iir"
	"github.com/cwbudde/algo-stream/stream/kalman"
)

func main() {
	var (
		n      = flag.Int("n", 200, "number of samples")
		dt     = flag.Float64("dt", 1.0, "time step between samples")
		vel    = flag.Float64("vel", 1.2, "true velocity of the simulated target")
		noise  = flag.Float64("noise", 2.0, "measurement noise standard deviation")
		seed   = flag.Int64("seed", 1, "random seed for the measurement noise")
		q      = flag.Float64("q", 0.001, "process noise variance")
		cutoff = flag.Float64("cutoff", 2.0, "IIR lowpass cutoff frequency in Hz")
		order  = flag.Int("order", 4, "IIR lowpass filter order")
		rate   = flag.Float64("rate", 100.0, "sample rate in Hz for the IIR design")
		buffer = flag.Int("buffer", 256, "IIR history buffer size in samples")
	)
	flag.Parse()

	kf, err := newConstantVelocityFilter(*dt, *q, *noise)
	if err != nil {
		fatal(err)
	}

	smoother, err := newLowpassSmoother(*cutoff, *order, *rate, *buffer)
	if err != nil {
		fatal(err)
	}

	rng := rand.New(rand.NewSource(*seed))
	z := mat.NewVecDense(1, nil)

	fmt.Println("step,truth,measured,kalman_pos,kalman_vel,iir_pos")
	for i := range *n {
		truth := *vel * float64(i+1) * *dt
		measured := truth + *noise*rng.NormFloat64()

		z.SetVec(0, measured)
		state, err := kf.Process(z)
		if err != nil {
			fatal(fmt.Errorf("step %d: %w", i, err))
		}

		smoothed := smoother.ProcessSample(measured)

		fmt.Printf("%d,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			i, truth, measured, state.AtVec(0), state.AtVec(1), smoothed)
	}
}

// newConstantVelocityFilter builds the classic 1-D constant-velocity Kalman
// model: state [position, velocity], position-only measurements.
func newConstantVelocityFilter(dt, q, noise float64) (*kalman.Filter, error) {
	kf, err := kalman.New(2, 1, 0)
	if err != nil {
		return nil, err
	}

	if err := kf.SetTransition(mat.NewDense(2, 2, []float64{1, dt, 0, 1})); err != nil {
		return nil, err
	}
	if err := kf.SetMeasurementMatrix(mat.NewDense(1, 2, []float64{1, 0})); err != nil {
		return nil, err
	}
	if err := kf.SetCovariance(mat.NewDense(2, 2, []float64{500, 0, 0, 500})); err != nil {
		return nil, err
	}
	if err := kf.SetProcessNoise(mat.NewDense(2, 2, []float64{q, 0, 0, q})); err != nil {
		return nil, err
	}
	if err := kf.SetMeasurementNoise(mat.NewDense(1, 1, []float64{noise * noise})); err != nil {
		return nil, err
	}

	return kf, nil
}

// newLowpassSmoother designs a Butterworth lowpass with algo-dsp and wraps
// it in a streaming filter.
func newLowpassSmoother(cutoff float64, order int, rate float64, buffer int) (*iir.Filter, error) {
	sections := pass.ButterworthLP(cutoff, order, rate)
	if len(sections) == 0 {
		return nil, fmt.Errorf("invalid lowpass design: cutoff %g Hz, order %d, rate %g Hz", cutoff, order, rate)
	}

	return iir.New(iir.FromBiquad(sections), iir.WithBufferSize(buffer))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "trackdemo:", err)
	os.Exit(1)
}
