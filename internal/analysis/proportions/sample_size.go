package proportions

import (
	"fmt"
	"math"

	"abkit/domain/abtest"
	"abkit/internal/errors"
)

const (
	// DefaultAlpha is the two-sided significance level used when none is given.
	DefaultAlpha = 0.05
	// DefaultPower is the target power used when none is given.
	DefaultPower = 0.80

	// smallest per-group size tried when bracketing the power equation
	minNobs = 1e-8
)

// CalculateSampleSize returns the per-group sample size needed to detect a
// relative lift of mde over baselineRate with a two-sided z-test at level
// alpha and the given power, assuming equal group sizes.
func CalculateSampleSize(baselineRate, mde, alpha, power float64) (int, error) {
	res, err := solveSampleSize(abtest.SampleSizeRequest{
		BaselineRate: baselineRate,
		MDE:          mde,
		Alpha:        alpha,
		Power:        power,
	})
	if err != nil {
		return 0, err
	}
	return res.SampleSize, nil
}

// Option overrides a default of SampleSize or MinimumDetectableEffect.
type Option func(*settings)

type settings struct {
	alpha float64
	power float64
}

// WithAlpha sets the significance level.
func WithAlpha(alpha float64) Option {
	return func(s *settings) { s.alpha = alpha }
}

// WithPower sets the target power.
func WithPower(power float64) Option {
	return func(s *settings) { s.power = power }
}

func applyOptions(opts []Option) settings {
	s := settings{alpha: DefaultAlpha, power: DefaultPower}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// SampleSize is CalculateSampleSize with defaults and the full result record.
func SampleSize(baselineRate, mde float64, opts ...Option) (*abtest.SampleSizeResult, error) {
	s := applyOptions(opts)
	return solveSampleSize(abtest.SampleSizeRequest{
		BaselineRate: baselineRate,
		MDE:          mde,
		Alpha:        s.alpha,
		Power:        s.power,
	})
}

// SolveSampleSize runs a power analysis for a fully populated request.
func SolveSampleSize(req abtest.SampleSizeRequest) (*abtest.SampleSizeResult, error) {
	return solveSampleSize(req)
}

func solveSampleSize(req abtest.SampleSizeRequest) (*abtest.SampleSizeResult, error) {
	if err := checkOpenProbability("baseline rate", req.BaselineRate); err != nil {
		return nil, err
	}
	if err := checkLevels(req.Alpha, req.Power); err != nil {
		return nil, err
	}
	treatment := req.TreatmentRate()
	effect, err := ProportionEffectSize(req.BaselineRate, treatment)
	if err != nil {
		return nil, errors.InvalidParameter("mde %v moves the baseline rate %v outside (0, 1)", req.MDE, req.BaselineRate)
	}

	crit := twoSidedCritical(req.Alpha)
	objective := func(n float64) float64 {
		return normalPower(effect, n, crit, 1) - req.Power
	}

	hi, err := expandUpper(objective, minNobs, 2)
	if err != nil {
		return nil, errors.ComputationError("power equation has no solution for the requested effect", err)
	}
	n, err := brent(objective, minNobs, hi)
	if err != nil {
		return nil, errors.ComputationError("power equation did not converge", err)
	}

	if n > bracketLimit {
		return nil, errors.ComputationError(fmt.Sprintf("required sample size %g overflows an int", n), nil)
	}
	size := int(math.Ceil(n))
	return &abtest.SampleSizeResult{
		SampleSizeRequest: req,
		SampleSize:        size,
		Total:             2 * size,
		TreatmentRate:     treatment,
		EffectSize:        effect,
	}, nil
}

// MinimumDetectableEffect returns the smallest positive relative lift over
// baselineRate that a two-sided test with nobs per group detects with the
// configured power.
func MinimumDetectableEffect(baselineRate float64, nobs int, opts ...Option) (*abtest.MDEResult, error) {
	s := applyOptions(opts)
	if err := checkOpenProbability("baseline rate", baselineRate); err != nil {
		return nil, err
	}
	if nobs <= 0 {
		return nil, errors.InvalidParameter("sample size must be positive, got %d", nobs)
	}
	if err := checkLevels(s.alpha, s.power); err != nil {
		return nil, err
	}

	crit := twoSidedCritical(s.alpha)
	objective := func(d float64) float64 {
		return normalPower(d, float64(nobs), crit, 1) - s.power
	}
	d, err := brent(objective, 0, math.Pi)
	if err != nil {
		return nil, errors.ComputationError("power equation has no solution for the requested sample size", err)
	}

	phi := arcsineTransform(baselineRate) + d
	if phi >= math.Pi {
		return nil, errors.ComputationError("no lift below a rate of 1 is detectable at this sample size", nil)
	}
	treatment := inverseArcsine(phi)

	return &abtest.MDEResult{
		BaselineRate:  baselineRate,
		SampleSize:    nobs,
		Alpha:         s.alpha,
		Power:         s.power,
		MDE:           treatment/baselineRate - 1,
		TreatmentRate: treatment,
		EffectSize:    -d,
	}, nil
}

func checkLevels(alpha, power float64) error {
	if err := checkOpenProbability("alpha", alpha); err != nil {
		return err
	}
	return checkOpenProbability("power", power)
}
