package kalman

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// invalidateDerived marks the cached innovation-derived quantities stale.
// Called on every update.
func (kf *Filter) invalidateDerived() {
	kf.logLikelihoodOK = false
	kf.mahalanobisOK = false
}

// mahalanobisSq computes y' * inv(S) * y from the last innovation.
func (kf *Filter) mahalanobisSq() float64 {
	var siy mat.VecDense
	siy.MulVec(kf.si, kf.y)
	return mat.Dot(kf.y, &siy)
}

// Mahalanobis returns the Mahalanobis distance of the last innovation.
// The value is cached until the next update. It is an error to ask before
// any measurement has been incorporated.
func (kf *Filter) Mahalanobis() (float64, error) {
	if !kf.haveInnovation {
		return 0, errNoInnovation
	}
	if !kf.mahalanobisOK {
		d2 := kf.mahalanobisSq()
		if d2 < 0 {
			d2 = 0
		}
		kf.mahalanobis = math.Sqrt(d2)
		kf.mahalanobisOK = true
	}
	return kf.mahalanobis, nil
}

// LogLikelihood returns the log-likelihood of the last incorporated
// measurement given the innovation covariance. The value is cached until the
// next update.
func (kf *Filter) LogLikelihood() (float64, error) {
	if !kf.haveInnovation {
		return 0, errNoInnovation
	}
	if !kf.logLikelihoodOK {
		logDet, sign := mat.LogDet(kf.s)
		if sign <= 0 {
			return 0, fmt.Errorf("kalman: innovation covariance is not positive definite")
		}
		m := float64(kf.dimMeasurement)
		kf.logLikelihood = -0.5 * (m*math.Log(2*math.Pi) + logDet + kf.mahalanobisSq())
		kf.logLikelihoodOK = true
	}
	return kf.logLikelihood, nil
}

// Likelihood returns exp(LogLikelihood), floored at the smallest positive
// float64 so downstream ratios never divide by zero.
func (kf *Filter) Likelihood() (float64, error) {
	ll, err := kf.LogLikelihood()
	if err != nil {
		return 0, err
	}
	l := math.Exp(ll)
	if l <= 0 {
		l = math.SmallestNonzeroFloat64
	}
	return l, nil
}
