package proportions

import (
	"math"

	"abkit/domain/abtest"
	"abkit/internal/errors"
)

// TwoProportionZTest compares conversion rates of groups a and b with a pooled
// two-sided z-test and reports Wilson intervals at confidence 1-alpha.
func TwoProportionZTest(conversionsA, totalA, conversionsB, totalB int, alpha float64) (*abtest.ZTestResult, error) {
	if err := checkCounts("a", conversionsA, totalA); err != nil {
		return nil, err
	}
	if err := checkCounts("b", conversionsB, totalB); err != nil {
		return nil, err
	}
	if err := checkOpenProbability("alpha", alpha); err != nil {
		return nil, err
	}

	na, nb := float64(totalA), float64(totalB)
	rateA := float64(conversionsA) / na
	rateB := float64(conversionsB) / nb

	z, pValue := 0.0, 1.0
	pooled := float64(conversionsA+conversionsB) / (na + nb)
	if variance := pooled * (1 - pooled) * (1/na + 1/nb); variance > 0 {
		z = (rateA - rateB) / math.Sqrt(variance)
		pValue = twoSidedPValue(z)
	}

	crit := twoSidedCritical(alpha)
	lift := rateA - rateB
	relative := math.NaN()
	if rateB != 0 {
		relative = lift / rateB
	}

	return &abtest.ZTestResult{
		ZStatistic:   z,
		PValue:       pValue,
		Significant:  pValue < alpha,
		Alpha:        alpha,
		RateA:        rateA,
		RateB:        rateB,
		CIA:          wilson(conversionsA, totalA, crit),
		CIB:          wilson(conversionsB, totalB, crit),
		AbsoluteLift: lift,
		RelativeLift: relative,
	}, nil
}

// RunZTest is TwoProportionZTest over a request record. Alpha is not
// defaulted; callers fill it before the call.
func RunZTest(req abtest.ZTestRequest) (*abtest.ZTestResult, error) {
	return TwoProportionZTest(req.ConversionsA, req.TotalA, req.ConversionsB, req.TotalB, req.Alpha)
}

func checkCounts(group string, conversions, total int) error {
	if total <= 0 {
		return errors.InvalidParameter("total_%s must be positive, got %d", group, total)
	}
	if conversions < 0 || conversions > total {
		return errors.InvalidParameter("conversions_%s must be in [0, total_%s=%d], got %d", group, group, total, conversions)
	}
	return nil
}
