// Package kalman implements a discrete-time linear Kalman filter and
// predictor over gonum dense matrices.
//
// A [Filter] maintains a state mean and covariance across a repeating
// predict/update cycle. Predict advances the state through the transition
// model and inflates the covariance (optionally with a fading-memory factor);
// Update incorporates a measurement through the numerically stabilized
// Joseph-form covariance update, which preserves symmetry and positive
// semi-definiteness under floating-point rounding.
//
// A nil measurement passed to Update is a first-class "no observation this
// cycle" input: the running estimate is untouched, the posterior snapshots
// track the current state and the residual is zeroed. A measurement of the
// wrong shape, by contrast, is an error.
//
// Filters are synchronous and non-reentrant. An instance provides no
// internal locking; confine it to one acquisition goroutine or guard its
// predict/update cycle externally.
package kalman
