package kalman

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var errNoInnovation = errors.New("kalman: no innovation available before the first measurement update")

// Filter is a discrete-time linear Kalman filter.
//
// Dimensions are fixed for the filter's lifetime. All model matrices are
// externally settable; setters validate shapes immediately and copy values
// in, so later mutation of the caller's matrices never leaks into the
// filter. Snapshot accessors likewise return copies.
type Filter struct {
	dimState       int // n
	dimMeasurement int // m
	dimControl     int // k

	x *mat.VecDense // state mean (n)
	p *mat.Dense    // state covariance (n×n)

	f *mat.Dense // state transition (n×n)
	b *mat.Dense // control transition (n×k), nil without a control input
	h *mat.Dense // measurement projection (m×n)
	q *mat.Dense // process noise (n×n)
	r *mat.Dense // measurement noise (m×m)
	m *mat.Dense // process/measurement cross correlation (n×m), stored but unused by the base recursion

	alphaSq float64 // fading-memory factor, stored squared

	xPrior *mat.VecDense // state snapshot after Predict
	pPrior *mat.Dense
	xPost  *mat.VecDense // state snapshot after Update
	pPost  *mat.Dense

	k  *mat.Dense    // gain (n×m)
	y  *mat.VecDense // residual (m)
	s  *mat.Dense    // innovation covariance (m×m)
	si *mat.Dense    // inverse innovation covariance

	z *mat.VecDense // last measurement, nil when the last update was skipped

	eye *mat.Dense // identity(n), never mutated

	haveInnovation  bool
	logLikelihood   float64
	logLikelihoodOK bool
	mahalanobis     float64
	mahalanobisOK   bool
}

// New creates a filter with dimState state variables. dimMeasurement <= 0
// defaults to dimState; dimControl 0 means the filter takes no control input.
//
// Initial model: x = 0, P = Q = F = I, H = 0, R = I, alpha = 1.
func New(dimState, dimMeasurement, dimControl int) (*Filter, error) {
	if dimState < 1 {
		return nil, fmt.Errorf("kalman: state dimension must be >= 1: %d", dimState)
	}
	if dimMeasurement <= 0 {
		dimMeasurement = dimState
	}
	if dimControl < 0 {
		return nil, fmt.Errorf("kalman: control dimension must be >= 0: %d", dimControl)
	}

	n, m := dimState, dimMeasurement

	kf := &Filter{
		dimState:       n,
		dimMeasurement: m,
		dimControl:     dimControl,

		x: mat.NewVecDense(n, nil),
		p: identity(n),

		f: identity(n),
		h: mat.NewDense(m, n, nil),
		q: identity(n),
		r: identity(m),
		m: mat.NewDense(n, m, nil),

		alphaSq: 1,

		xPrior: mat.NewVecDense(n, nil),
		pPrior: identity(n),
		xPost:  mat.NewVecDense(n, nil),
		pPost:  identity(n),

		k:  mat.NewDense(n, m, nil),
		y:  mat.NewVecDense(m, nil),
		s:  mat.NewDense(m, m, nil),
		si: mat.NewDense(m, m, nil),

		eye: identity(n),
	}

	if dimControl > 0 {
		kf.b = mat.NewDense(n, dimControl, nil)
	}

	return kf, nil
}

// Dims returns the state, measurement and control dimensions.
func (kf *Filter) Dims() (dimState, dimMeasurement, dimControl int) {
	return kf.dimState, kf.dimMeasurement, kf.dimControl
}

// SetState replaces the state mean estimate.
func (kf *Filter) SetState(x mat.Vector) error {
	if x.Len() != kf.dimState {
		return fmt.Errorf("kalman: state must have length %d: %d", kf.dimState, x.Len())
	}
	kf.x.CopyVec(x)
	return nil
}

// SetCovariance replaces the state covariance estimate.
func (kf *Filter) SetCovariance(p mat.Matrix) error {
	if err := checkDims(p, kf.dimState, kf.dimState, "covariance"); err != nil {
		return err
	}
	kf.p.Copy(p)
	return nil
}

// SetTransition replaces the state transition matrix F.
func (kf *Filter) SetTransition(f mat.Matrix) error {
	if err := checkDims(f, kf.dimState, kf.dimState, "transition matrix"); err != nil {
		return err
	}
	kf.f.Copy(f)
	return nil
}

// SetControlTransition replaces the control transition matrix B.
// The filter must have been constructed with a nonzero control dimension.
func (kf *Filter) SetControlTransition(b mat.Matrix) error {
	if kf.dimControl == 0 {
		return errors.New("kalman: filter has no control dimension")
	}
	if err := checkDims(b, kf.dimState, kf.dimControl, "control transition matrix"); err != nil {
		return err
	}
	kf.b.Copy(b)
	return nil
}

// SetMeasurementMatrix replaces the measurement projection H.
func (kf *Filter) SetMeasurementMatrix(h mat.Matrix) error {
	if err := checkDims(h, kf.dimMeasurement, kf.dimState, "measurement matrix"); err != nil {
		return err
	}
	kf.h.Copy(h)
	return nil
}

// SetProcessNoise replaces the process noise covariance Q.
func (kf *Filter) SetProcessNoise(q mat.Matrix) error {
	if err := checkDims(q, kf.dimState, kf.dimState, "process noise"); err != nil {
		return err
	}
	kf.q.Copy(q)
	return nil
}

// SetMeasurementNoise replaces the measurement noise covariance R.
func (kf *Filter) SetMeasurementNoise(r mat.Matrix) error {
	if err := checkDims(r, kf.dimMeasurement, kf.dimMeasurement, "measurement noise"); err != nil {
		return err
	}
	kf.r.Copy(r)
	return nil
}

// SetCrossCorrelation replaces the process/measurement cross-correlation M.
// The base recursion stores but does not use it.
func (kf *Filter) SetCrossCorrelation(m mat.Matrix) error {
	if err := checkDims(m, kf.dimState, kf.dimMeasurement, "cross correlation"); err != nil {
		return err
	}
	kf.m.Copy(m)
	return nil
}

// SetAlpha sets the fading-memory factor. 1 gives the standard Kalman
// filter; values slightly above 1 discount older measurements by inflating
// the predicted covariance. Values below 1 are a configuration error.
// The factor is stored squared.
func (kf *Filter) SetAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha < 1 {
		return fmt.Errorf("kalman: alpha must be a scalar >= 1: %v", alpha)
	}
	kf.alphaSq = alpha * alpha
	return nil
}

// Alpha returns the fading-memory factor.
func (kf *Filter) Alpha() float64 {
	return math.Sqrt(kf.alphaSq)
}

// State returns a copy of the current state mean.
func (kf *Filter) State() *mat.VecDense { return mat.VecDenseCopyOf(kf.x) }

// Covariance returns a copy of the current state covariance.
func (kf *Filter) Covariance() *mat.Dense { return mat.DenseCopyOf(kf.p) }

// Prior returns a copy of the state snapshot taken after the last Predict.
func (kf *Filter) Prior() *mat.VecDense { return mat.VecDenseCopyOf(kf.xPrior) }

// PriorCov returns a copy of the covariance snapshot taken after the last
// Predict.
func (kf *Filter) PriorCov() *mat.Dense { return mat.DenseCopyOf(kf.pPrior) }

// Posterior returns a copy of the state snapshot taken after the last Update.
func (kf *Filter) Posterior() *mat.VecDense { return mat.VecDenseCopyOf(kf.xPost) }

// PosteriorCov returns a copy of the covariance snapshot taken after the
// last Update.
func (kf *Filter) PosteriorCov() *mat.Dense { return mat.DenseCopyOf(kf.pPost) }

// Gain returns a copy of the Kalman gain computed by the last Update.
func (kf *Filter) Gain() *mat.Dense { return mat.DenseCopyOf(kf.k) }

// Residual returns a copy of the innovation residual y from the last Update.
func (kf *Filter) Residual() *mat.VecDense { return mat.VecDenseCopyOf(kf.y) }

// InnovationCov returns a copy of the innovation covariance S from the last
// Update.
func (kf *Filter) InnovationCov() *mat.Dense { return mat.DenseCopyOf(kf.s) }

// Measurement returns a copy of the last incorporated measurement, or nil
// when the last update was skipped (no observation).
func (kf *Filter) Measurement() *mat.VecDense {
	if kf.z == nil {
		return nil
	}
	return mat.VecDenseCopyOf(kf.z)
}

func checkDims(a mat.Matrix, rows, cols int, name string) error {
	r, c := a.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("kalman: %s must be %dx%d: got %dx%d", name, rows, cols, r, c)
	}
	return nil
}

func identity(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := range n {
		d.Set(i, i, 1)
	}
	return d
}

func scaledIdentity(n int, v float64) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := range n {
		d.Set(i, i, v)
	}
	return d
}
