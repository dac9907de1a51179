package iir_test

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/filter/design/pass"
	"github.com/cwbudde/algo-stream/stream/iir"
)

func ExampleFilter_ProcessSample() {
	// Two-tap moving average in transfer-function form.
	f, err := iir.New(iir.BA{B: []float64{0.5, 0.5}, A: []float64{1}}, iir.WithBufferSize(8))
	if err != nil {
		panic(err)
	}

	for range 4 {
		fmt.Printf("%.3f\n", f.ProcessSample(1))
	}
	// Output:
	// 0.500
	// 1.000
	// 1.000
	// 1.000
}

func ExampleFromBiquad() {
	// Coefficient design is delegated to algo-dsp; the cascade it produces
	// feeds the streaming filter directly.
	sections := pass.ButterworthLP(100, 4, 1000)

	f, err := iir.New(iir.FromBiquad(sections), iir.WithBufferSize(64))
	if err != nil {
		panic(err)
	}

	fmt.Println(len(sections), f.BufferSize())
	// Output: 2 64
}
