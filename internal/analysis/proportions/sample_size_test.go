package proportions

import (
	"math"
	"testing"

	"abkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSampleSize_ReferenceValues(t *testing.T) {
	tests := []struct {
		name     string
		baseline float64
		mde      float64
		alpha    float64
		power    float64
		want     int
	}{
		{"10% baseline, 20% lift", 0.10, 0.20, 0.05, 0.80, 3835},
		{"10% baseline, 10% lift", 0.10, 0.10, 0.05, 0.80, 14745},
		{"5% baseline, 10% lift", 0.05, 0.10, 0.05, 0.80, 31218},
		{"50% baseline, 5% lift", 0.50, 0.05, 0.05, 0.80, 6274},
		{"20% baseline, 50% lift", 0.20, 0.50, 0.05, 0.80, 292},
		{"strict alpha, high power", 0.10, 0.20, 0.01, 0.90, 7270},
		{"negative lift", 0.10, -0.20, 0.05, 0.80, 3205},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSampleSize(tt.baseline, tt.mde, tt.alpha, tt.power)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateSampleSize_MonotoneInMDE(t *testing.T) {
	for _, baseline := range []float64{0.02, 0.1, 0.3} {
		prev := math.MaxInt
		for mde := 0.05; mde <= 1.0; mde += 0.05 {
			n, err := CalculateSampleSize(baseline, mde, DefaultAlpha, DefaultPower)
			require.NoError(t, err, "baseline=%v mde=%v", baseline, mde)
			assert.Positive(t, n)
			assert.LessOrEqual(t, n, prev, "baseline=%v mde=%v", baseline, mde)
			prev = n
		}
	}
}

func TestCalculateSampleSize_TinyMDE(t *testing.T) {
	tests := []struct {
		mde  float64
		want float64
	}{
		{1e-4, 14128576813.39},
		{1e-5, 1412801170770.06},
		{1e-6, 141279551994575.03},
	}

	prev := 0
	for _, tt := range tests {
		n, err := CalculateSampleSize(0.1, tt.mde, DefaultAlpha, DefaultPower)
		require.NoError(t, err, "mde=%v", tt.mde)
		// the arcsine difference loses digits for nearly equal rates
		assert.InEpsilon(t, tt.want, float64(n), 1e-6, "mde=%v", tt.mde)
		assert.Greater(t, n, prev, "mde=%v", tt.mde)
		prev = n
	}
}

func TestCalculateSampleSize_AchievesPower(t *testing.T) {
	res, err := SampleSize(0.1, 0.2)
	require.NoError(t, err)

	at, err := ZTestPower(res.EffectSize, float64(res.SampleSize), DefaultAlpha, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, at, DefaultPower)

	below, err := ZTestPower(res.EffectSize, float64(res.SampleSize-1), DefaultAlpha, 1)
	require.NoError(t, err)
	assert.Less(t, below, DefaultPower)
}

func TestSampleSize_Defaults(t *testing.T) {
	res, err := SampleSize(0.1, 0.2)
	require.NoError(t, err)

	assert.Equal(t, 3835, res.SampleSize)
	assert.Equal(t, 7670, res.Total)
	assert.InDelta(t, 0.12, res.TreatmentRate, 1e-12)
	assert.InDelta(t, -0.0639821, res.EffectSize, 1e-6)
	assert.Equal(t, DefaultAlpha, res.Alpha)
	assert.Equal(t, DefaultPower, res.Power)

	strict, err := SampleSize(0.1, 0.2, WithAlpha(0.01), WithPower(0.9))
	require.NoError(t, err)
	assert.Equal(t, 7270, strict.SampleSize)
}

func TestCalculateSampleSize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		baseline float64
		mde      float64
		alpha    float64
		power    float64
		code     string
	}{
		{"zero baseline", 0, 0.2, 0.05, 0.8, errors.CodeInvalidParameter},
		{"baseline of one", 1, 0.2, 0.05, 0.8, errors.CodeInvalidParameter},
		{"negative baseline", -0.1, 0.2, 0.05, 0.8, errors.CodeInvalidParameter},
		{"NaN baseline", math.NaN(), 0.2, 0.05, 0.8, errors.CodeInvalidParameter},
		{"zero alpha", 0.1, 0.2, 0, 0.8, errors.CodeInvalidParameter},
		{"alpha above one", 0.1, 0.2, 1.2, 0.8, errors.CodeInvalidParameter},
		{"zero power", 0.1, 0.2, 0.05, 0, errors.CodeInvalidParameter},
		{"power of one", 0.1, 0.2, 0.05, 1, errors.CodeInvalidParameter},
		{"treatment above one", 0.6, 1.0, 0.05, 0.8, errors.CodeInvalidParameter},
		{"treatment of zero", 0.1, -1.0, 0.05, 0.8, errors.CodeInvalidParameter},
		{"zero effect", 0.1, 0, 0.05, 0.8, errors.CodeComputationError},
		{"power below alpha", 0.1, 0.2, 0.5, 0.3, errors.CodeComputationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := CalculateSampleSize(tt.baseline, tt.mde, tt.alpha, tt.power)
			require.Error(t, err)
			assert.Zero(t, n)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestMinimumDetectableEffect(t *testing.T) {
	res, err := MinimumDetectableEffect(0.1, 5000)
	require.NoError(t, err)
	assert.InDelta(t, 0.1742844, res.MDE, 1e-6)
	assert.InDelta(t, 0.1174284, res.TreatmentRate, 1e-6)
	assert.Less(t, res.EffectSize, 0.0)

	// round trip through the sample size solver
	for _, n := range []int{500, 3835, 20000} {
		mde, err := MinimumDetectableEffect(0.1, n)
		require.NoError(t, err)
		back, err := CalculateSampleSize(0.1, mde.MDE, DefaultAlpha, DefaultPower)
		require.NoError(t, err)
		assert.InDelta(t, n, back, 1, "n=%d", n)
	}
}

func TestMinimumDetectableEffect_Errors(t *testing.T) {
	_, err := MinimumDetectableEffect(0.1, 0)
	assert.True(t, errors.Is(err, errors.CodeInvalidParameter))

	_, err = MinimumDetectableEffect(1.5, 100)
	assert.True(t, errors.Is(err, errors.CodeInvalidParameter))

	_, err = MinimumDetectableEffect(0.1, 100, WithPower(1))
	assert.True(t, errors.Is(err, errors.CodeInvalidParameter))

	// a single observation per group cannot reach 80% power
	_, err = MinimumDetectableEffect(0.1, 1)
	assert.True(t, errors.Is(err, errors.CodeComputationError))

	// near-certain baseline leaves no room for a detectable lift
	_, err = MinimumDetectableEffect(0.999, 50)
	assert.True(t, errors.Is(err, errors.CodeComputationError))
}

func TestZTestPower(t *testing.T) {
	d, err := ProportionEffectSize(0.1, 0.12)
	require.NoError(t, err)

	got, err := ZTestPower(d, 3841, 0.05, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.8006540, got, 1e-6)

	// sign of the effect does not matter for a two-sided test
	neg, err := ZTestPower(-d, 3841, 0.05, 1)
	require.NoError(t, err)
	assert.InDelta(t, got, neg, 1e-15)

	// a zero effect rejects at the nominal rate
	null, err := ZTestPower(0, 1000, 0.05, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, null, 1e-12)

	_, err = ZTestPower(d, 0, 0.05, 1)
	assert.True(t, errors.Is(err, errors.CodeInvalidParameter))
	_, err = ZTestPower(d, 100, 0.05, 0)
	assert.True(t, errors.Is(err, errors.CodeInvalidParameter))
	_, err = ZTestPower(math.Inf(1), 100, 0.05, 1)
	assert.True(t, errors.Is(err, errors.CodeInvalidParameter))
}
