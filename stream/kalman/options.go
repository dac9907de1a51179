package kalman

import "gonum.org/v1/gonum/mat"

// callConfig collects per-call overrides for Predict, Update and Process.
// Unset fields fall back to the filter's stored model.
type callConfig struct {
	control       mat.Vector
	controlMatrix mat.Matrix
	transition    mat.Matrix

	processNoise       mat.Matrix
	processNoiseScalar *float64

	measurementNoise       mat.Matrix
	measurementNoiseScalar *float64
	measurementMatrix      mat.Matrix
}

// Option overrides part of the filter model for a single call. Predict
// consults the control, transition and process-noise overrides; Update
// consults the measurement-matrix and measurement-noise overrides; Process
// routes each to the step it belongs to.
type Option func(*callConfig)

// WithControl supplies a control vector u for this predict step.
// It takes effect only when a control transition matrix is available,
// either stored or supplied via WithControlMatrix.
func WithControl(u mat.Vector) Option {
	return func(cfg *callConfig) { cfg.control = u }
}

// WithControlMatrix overrides the control transition matrix B for this call.
func WithControlMatrix(b mat.Matrix) Option {
	return func(cfg *callConfig) { cfg.controlMatrix = b }
}

// WithTransition overrides the state transition matrix F for this call.
func WithTransition(f mat.Matrix) Option {
	return func(cfg *callConfig) { cfg.transition = f }
}

// WithProcessNoise overrides the process noise covariance Q for this call.
func WithProcessNoise(q mat.Matrix) Option {
	return func(cfg *callConfig) { cfg.processNoise = q }
}

// WithProcessNoiseScalar overrides Q with v times the identity for this call.
func WithProcessNoiseScalar(v float64) Option {
	return func(cfg *callConfig) { cfg.processNoiseScalar = &v }
}

// WithMeasurementNoise overrides the measurement noise covariance R for
// this call.
func WithMeasurementNoise(r mat.Matrix) Option {
	return func(cfg *callConfig) { cfg.measurementNoise = r }
}

// WithMeasurementNoiseScalar overrides R with v times the identity for
// this call.
func WithMeasurementNoiseScalar(v float64) Option {
	return func(cfg *callConfig) { cfg.measurementNoiseScalar = &v }
}

// WithMeasurementMatrix overrides the measurement projection H for this
// call. The measurement is taken as already shaped for the supplied matrix
// and is not reshaped.
func WithMeasurementMatrix(h mat.Matrix) Option {
	return func(cfg *callConfig) { cfg.measurementMatrix = h }
}

func applyOptions(opts []Option) callConfig {
	var cfg callConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}
