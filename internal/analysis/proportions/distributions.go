package proportions

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// normalCDF is the standard normal cumulative distribution function.
func normalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// normalSurvival is 1 - CDF, computed without cancellation in the upper tail.
func normalSurvival(x float64) float64 {
	return distuv.UnitNormal.Survival(x)
}

// twoSidedCritical returns z such that P(|Z| > z) = alpha.
func twoSidedCritical(alpha float64) float64 {
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

// twoSidedPValue computes the two-tailed p-value for a z statistic.
func twoSidedPValue(z float64) float64 {
	p := 2 * normalSurvival(math.Abs(z))
	if p > 1 {
		return 1
	}
	return p
}
