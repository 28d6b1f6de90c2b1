package proportions

import (
	"math"

	"abkit/domain/abtest"
	"abkit/internal/errors"
)

// arcsineTransform is the variance-stabilizing transform phi = 2*asin(sqrt(p)).
func arcsineTransform(p float64) float64 {
	return 2 * math.Asin(math.Sqrt(p))
}

// inverseArcsine maps phi back to a proportion.
func inverseArcsine(phi float64) float64 {
	s := math.Sin(phi / 2)
	return s * s
}

// CohensH returns phi(p1) - phi(p2). Both proportions must lie in [0, 1].
func CohensH(p1, p2 float64) (float64, error) {
	if err := checkClosedProbability("p1", p1); err != nil {
		return 0, err
	}
	if err := checkClosedProbability("p2", p2); err != nil {
		return 0, err
	}
	return arcsineTransform(p1) - arcsineTransform(p2), nil
}

// ProportionEffectSize is Cohen's h for two open-interval proportions, the
// standardized effect fed into the power equation.
func ProportionEffectSize(baseline, treatment float64) (float64, error) {
	if err := checkOpenProbability("baseline rate", baseline); err != nil {
		return 0, err
	}
	if err := checkOpenProbability("treatment rate", treatment); err != nil {
		return 0, err
	}
	return arcsineTransform(baseline) - arcsineTransform(treatment), nil
}

// InterpretCohensH labels |h| using Cohen's 0.2 / 0.5 / 0.8 thresholds.
func InterpretCohensH(h float64) abtest.EffectMagnitude {
	switch a := math.Abs(h); {
	case a < 0.2:
		return abtest.MagnitudeNegligible
	case a < 0.5:
		return abtest.MagnitudeSmall
	case a < 0.8:
		return abtest.MagnitudeMedium
	default:
		return abtest.MagnitudeLarge
	}
}

func checkClosedProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return errors.InvalidParameter("%s must be in [0, 1], got %v", name, p)
	}
	return nil
}

func checkOpenProbability(name string, p float64) error {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return errors.InvalidParameter("%s must be in (0, 1), got %v", name, p)
	}
	return nil
}
