package proportions

import (
	"math"

	"abkit/domain/abtest"
	"abkit/internal/errors"
)

// WilsonInterval returns the Wilson score interval for successes/n at
// confidence 1-alpha. Bounds are clamped to [0, 1] so the observed rate is
// always inside the interval, including at 0 and n successes.
func WilsonInterval(successes, n int, alpha float64) (abtest.Interval, error) {
	if n <= 0 {
		return abtest.Interval{}, errors.InvalidParameter("n must be positive, got %d", n)
	}
	if successes < 0 || successes > n {
		return abtest.Interval{}, errors.InvalidParameter("successes must be in [0, %d], got %d", n, successes)
	}
	if err := checkOpenProbability("alpha", alpha); err != nil {
		return abtest.Interval{}, err
	}
	return wilson(successes, n, twoSidedCritical(alpha)), nil
}

func wilson(successes, n int, crit float64) abtest.Interval {
	nf := float64(n)
	p := float64(successes) / nf
	c2 := crit * crit

	denom := 1 + c2/nf
	center := (p + c2/(2*nf)) / denom
	half := crit * math.Sqrt(p*(1-p)/nf+c2/(4*nf*nf)) / denom

	return abtest.Interval{
		Lower: math.Max(0, math.Min(center-half, p)),
		Upper: math.Min(1, math.Max(center+half, p)),
	}
}
