package kalman_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-stream/stream/kalman"
)

func ExampleFilter_Process() {
	// Scalar filter observing its state directly. With the default model
	// (F = P = Q = R = 1) a single cycle pulls the estimate two thirds of
	// the way toward the measurement.
	kf, err := kalman.New(1, 1, 0)
	if err != nil {
		panic(err)
	}
	if err := kf.SetMeasurementMatrix(mat.NewDense(1, 1, []float64{1})); err != nil {
		panic(err)
	}

	x, err := kf.Process(mat.NewVecDense(1, []float64{1}))
	if err != nil {
		panic(err)
	}

	fmt.Printf("state %.4f cov %.4f\n", x.AtVec(0), kf.Covariance().At(0, 0))
	// Output: state 0.6667 cov 0.6667
}

func ExampleFilter_Update_missedObservation() {
	kf, err := kalman.New(1, 1, 0)
	if err != nil {
		panic(err)
	}
	if err := kf.SetMeasurementMatrix(mat.NewDense(1, 1, []float64{1})); err != nil {
		panic(err)
	}

	if err := kf.Predict(); err != nil {
		panic(err)
	}

	// A dropped observation is not an error: nil keeps the running estimate.
	if err := kf.Update(nil); err != nil {
		panic(err)
	}

	fmt.Println("measurement recorded:", kf.Measurement() != nil)
	fmt.Printf("posterior cov %.1f\n", kf.PosteriorCov().At(0, 0))
	// Output:
	// measurement recorded: false
	// posterior cov 2.0
}
