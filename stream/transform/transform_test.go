package transform_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-stream/stream/iir"
	"github.com/cwbudde/algo-stream/stream/transform"
)

// gain is a trivial stateless transform used to exercise composition.
type gain float64

func (g gain) ProcessSample(x float64) float64 { return float64(g) * x }

func TestPipeline_ComposesInOrder(t *testing.T) {
	smoother, err := iir.New(iir.BA{B: []float64{0.5, 0.5}, A: []float64{1}}, iir.WithBufferSize(8))
	if err != nil {
		t.Fatal(err)
	}
	ref, err := iir.New(iir.BA{B: []float64{0.5, 0.5}, A: []float64{1}}, iir.WithBufferSize(8))
	if err != nil {
		t.Fatal(err)
	}

	p := transform.NewPipeline(gain(2), smoother)
	if p.NumStages() != 2 {
		t.Fatalf("NumStages = %d, want 2", p.NumStages())
	}

	for i := range 10 {
		x := math.Sin(float64(i))
		got := p.ProcessSample(x)
		want := ref.ProcessSample(2 * x)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got, want)
		}
	}
}

func TestPipeline_EmptyIsPassthrough(t *testing.T) {
	p := transform.NewPipeline()
	if got := p.ProcessSample(1.25); got != 1.25 {
		t.Errorf("got %v, want passthrough", got)
	}
}

func TestPipeline_SkipsNilStages(t *testing.T) {
	p := transform.NewPipeline(nil, gain(3), nil)
	if p.NumStages() != 1 {
		t.Fatalf("NumStages = %d, want 1", p.NumStages())
	}
	if got := p.ProcessSample(2); got != 6 {
		t.Errorf("got %v, want 6", got)
	}
}

func TestPipeline_ProcessBlock(t *testing.T) {
	p := transform.NewPipeline(gain(-1))
	buf := []float64{1, 2, 3}
	p.ProcessBlock(buf)
	want := []float64{-1, -2, -3}
	for i := range buf {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}
