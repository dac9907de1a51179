// Package transform defines the shared contract for streaming sample
// transforms: stateful processors that consume one input sample per call and
// produce one output sample, retaining whatever internal history they need
// between calls.
//
// Implementations are synchronous and non-reentrant. An instance is mutable
// shared state; confine it to a single goroutine or guard it externally if
// the surrounding pipeline is concurrent.
package transform

// SampleTransform consumes one scalar sample and produces one output sample.
// The call sequence is the only notion of time a transform has.
type SampleTransform interface {
	ProcessSample(x float64) float64
}

// Pipeline is an ordered series of transforms where each stage's output feeds
// the next. A Pipeline is itself a SampleTransform.
type Pipeline struct {
	stages []SampleTransform
}

// NewPipeline creates a pipeline from zero or more stages. Nil stages are
// skipped. An empty pipeline is a passthrough.
func NewPipeline(stages ...SampleTransform) *Pipeline {
	p := &Pipeline{stages: make([]SampleTransform, 0, len(stages))}
	for _, s := range stages {
		if s != nil {
			p.stages = append(p.stages, s)
		}
	}
	return p
}

// ProcessSample runs x through all stages in order.
func (p *Pipeline) ProcessSample(x float64) float64 {
	for _, s := range p.stages {
		x = s.ProcessSample(x)
	}
	return x
}

// ProcessBlock runs a block of samples through the pipeline in-place.
func (p *Pipeline) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = p.ProcessSample(x)
	}
}

// NumStages returns the number of stages in the pipeline.
func (p *Pipeline) NumStages() int {
	return len(p.stages)
}
