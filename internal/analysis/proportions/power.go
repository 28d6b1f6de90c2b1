package proportions

import (
	"math"

	"abkit/internal/errors"
)

// ZTestPower returns the power of a two-sided two-sample z-test for a
// standardized effect size with nobs1 observations in the first group and
// ratio*nobs1 in the second.
func ZTestPower(effectSize, nobs1, alpha, ratio float64) (float64, error) {
	if math.IsNaN(effectSize) || math.IsInf(effectSize, 0) {
		return 0, errors.InvalidParameter("effect size must be finite, got %v", effectSize)
	}
	if nobs1 <= 0 || math.IsNaN(nobs1) {
		return 0, errors.InvalidParameter("nobs1 must be positive, got %v", nobs1)
	}
	if ratio <= 0 || math.IsNaN(ratio) {
		return 0, errors.InvalidParameter("ratio must be positive, got %v", ratio)
	}
	if err := checkOpenProbability("alpha", alpha); err != nil {
		return 0, err
	}
	return normalPower(effectSize, nobs1, twoSidedCritical(alpha), ratio), nil
}

// normalPower sums both rejection tails at the effective sample size
// nobs1*ratio/(1+ratio).
func normalPower(effectSize, nobs1, crit, ratio float64) float64 {
	shift := math.Abs(effectSize) * math.Sqrt(nobs1*ratio/(1+ratio))
	return normalSurvival(crit-shift) + normalCDF(-crit-shift)
}
