package kalman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Predict advances the state estimate one step through the transition model:
//
//	x <- F*x + B*u    (control term only when both B and u are available)
//	P <- alpha^2 * F*P*F' + Q
//
// and snapshots the post-predict state as the prior. Overrides supplied via
// options replace the stored model for this call only; shape mismatches are
// reported immediately.
func (kf *Filter) Predict(opts ...Option) error {
	cfg := applyOptions(opts)
	n := kf.dimState

	f := mat.Matrix(kf.f)
	if cfg.transition != nil {
		if err := checkDims(cfg.transition, n, n, "transition override"); err != nil {
			return err
		}
		f = cfg.transition
	}

	q := mat.Matrix(kf.q)
	switch {
	case cfg.processNoise != nil:
		if err := checkDims(cfg.processNoise, n, n, "process noise override"); err != nil {
			return err
		}
		q = cfg.processNoise
	case cfg.processNoiseScalar != nil:
		q = scaledIdentity(n, *cfg.processNoiseScalar)
	}

	var b mat.Matrix
	if kf.b != nil {
		b = kf.b
	}
	if cfg.controlMatrix != nil {
		br, _ := cfg.controlMatrix.Dims()
		if br != n {
			return fmt.Errorf("kalman: control transition override must have %d rows: %d", n, br)
		}
		b = cfg.controlMatrix
	}

	// x = F*x (+ B*u)
	var nx mat.VecDense
	nx.MulVec(f, kf.x)
	if b != nil && cfg.control != nil {
		_, bc := b.Dims()
		if cfg.control.Len() != bc {
			return fmt.Errorf("kalman: control vector must have length %d: %d", bc, cfg.control.Len())
		}
		var bu mat.VecDense
		bu.MulVec(b, cfg.control)
		nx.AddVec(&nx, &bu)
	}
	kf.x.CopyVec(&nx)

	// P = alpha^2 * F*P*F' + Q
	var np mat.Dense
	np.Product(f, kf.p, f.T())
	np.Scale(kf.alphaSq, &np)
	np.Add(&np, q)
	kf.p.Copy(&np)

	kf.xPrior.CopyVec(kf.x)
	kf.pPrior.Copy(kf.p)

	return nil
}

// Update incorporates a measurement into the state estimate.
//
// A nil measurement means "no observation this cycle": the running estimate
// is left untouched, the posterior snapshots track the current state, the
// residual is zeroed and the stored measurement is cleared. A measurement of
// the wrong length is an error.
//
// The posterior covariance uses the Joseph-form stabilized update
//
//	P <- (I - K*H)*P*(I - K*H)' + K*R*K'
//
// which preserves symmetry and positive semi-definiteness under rounding. A
// singular innovation covariance surfaces as an error from the matrix
// inverse; the filter makes no recovery attempt for that cycle.
func (kf *Filter) Update(z mat.Vector, opts ...Option) error {
	kf.invalidateDerived()

	if z == nil {
		kf.z = nil
		kf.xPost.CopyVec(kf.x)
		kf.pPost.Copy(kf.p)
		kf.y.Zero()
		return nil
	}

	n, m := kf.dimState, kf.dimMeasurement
	if z.Len() != m {
		return fmt.Errorf("kalman: measurement must have length %d: %d", m, z.Len())
	}

	cfg := applyOptions(opts)

	r := mat.Matrix(kf.r)
	switch {
	case cfg.measurementNoise != nil:
		if err := checkDims(cfg.measurementNoise, m, m, "measurement noise override"); err != nil {
			return err
		}
		r = cfg.measurementNoise
	case cfg.measurementNoiseScalar != nil:
		r = scaledIdentity(m, *cfg.measurementNoiseScalar)
	}

	h := mat.Matrix(kf.h)
	if cfg.measurementMatrix != nil {
		if err := checkDims(cfg.measurementMatrix, m, n, "measurement matrix override"); err != nil {
			return err
		}
		h = cfg.measurementMatrix
	}

	// y = z - H*x
	var hx mat.VecDense
	hx.MulVec(h, kf.x)
	kf.y.SubVec(z, &hx)

	// Common subexpression: P*H'
	var pht mat.Dense
	pht.Mul(kf.p, h.T())

	// S = H*P*H' + R
	var s mat.Dense
	s.Mul(h, &pht)
	s.Add(&s, r)
	kf.s.Copy(&s)

	if err := kf.si.Inverse(kf.s); err != nil {
		return fmt.Errorf("kalman: invert innovation covariance: %w", err)
	}

	// K = P*H'*inv(S)
	kf.k.Mul(&pht, kf.si)

	// x = x + K*y
	var ky mat.VecDense
	ky.MulVec(kf.k, kf.y)
	kf.x.AddVec(kf.x, &ky)

	// Joseph form posterior covariance.
	var kh mat.Dense
	kh.Mul(kf.k, h)
	var ikh mat.Dense
	ikh.Sub(kf.eye, &kh)

	var np mat.Dense
	np.Product(&ikh, kf.p, ikh.T())
	var krk mat.Dense
	krk.Product(kf.k, r, kf.k.T())
	np.Add(&np, &krk)
	kf.p.Copy(&np)

	if kf.z == nil {
		kf.z = mat.NewVecDense(m, nil)
	}
	kf.z.CopyVec(z)
	kf.xPost.CopyVec(kf.x)
	kf.pPost.Copy(kf.p)
	kf.haveInnovation = true

	return nil
}

// Process runs one full predict/update cycle and returns the posterior state
// mean. It is the primary per-sample entry point for streaming use; options
// are routed to the step they belong to.
func (kf *Filter) Process(z mat.Vector, opts ...Option) (*mat.VecDense, error) {
	if err := kf.Predict(opts...); err != nil {
		return nil, err
	}
	if err := kf.Update(z, opts...); err != nil {
		return nil, err
	}
	return kf.State(), nil
}

// ResidualOf returns z - H*x_prior for a candidate measurement without
// mutating the filter, useful for gating a measurement against the last
// prediction before committing it.
func (kf *Filter) ResidualOf(z mat.Vector) (*mat.VecDense, error) {
	if z.Len() != kf.dimMeasurement {
		return nil, fmt.Errorf("kalman: measurement must have length %d: %d", kf.dimMeasurement, z.Len())
	}

	out := mat.NewVecDense(kf.dimMeasurement, nil)
	out.MulVec(kf.h, kf.xPrior)
	out.SubVec(z, out)
	return out, nil
}

// MeasurementOfState projects a state vector into measurement space: H*x.
func (kf *Filter) MeasurementOfState(x mat.Vector) (*mat.VecDense, error) {
	if x.Len() != kf.dimState {
		return nil, fmt.Errorf("kalman: state must have length %d: %d", kf.dimState, x.Len())
	}

	out := mat.NewVecDense(kf.dimMeasurement, nil)
	out.MulVec(kf.h, x)
	return out, nil
}
