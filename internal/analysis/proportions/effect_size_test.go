package proportions

import (
	"math"
	"testing"

	"abkit/domain/abtest"
	"abkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohensH(t *testing.T) {
	h, err := CohensH(0.1, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, -0.2838, h, 1e-4)

	h, err = CohensH(0.5, 0.75)
	require.NoError(t, err)
	assert.InDelta(t, -math.Pi/6, h, 1e-12)

	h, err = CohensH(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, h, 1e-12)
}

func TestCohensH_IdenticalAndAntisymmetric(t *testing.T) {
	ps := []float64{0, 0.01, 0.1, 0.25, 0.5, 0.73, 0.99, 1}
	for _, p1 := range ps {
		h, err := CohensH(p1, p1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, h)

		for _, p2 := range ps {
			forward, err := CohensH(p1, p2)
			require.NoError(t, err)
			backward, err := CohensH(p2, p1)
			require.NoError(t, err)
			assert.InDelta(t, -forward, backward, 1e-15)
		}
	}
}

func TestCohensH_Errors(t *testing.T) {
	for _, p := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		_, err := CohensH(p, 0.5)
		assert.Equal(t, errors.CodeInvalidParameter, errors.GetCode(err), "p1=%v", p)
		_, err = CohensH(0.5, p)
		assert.Equal(t, errors.CodeInvalidParameter, errors.GetCode(err), "p2=%v", p)
	}
}

func TestInterpretCohensH(t *testing.T) {
	tests := []struct {
		h    float64
		want abtest.EffectMagnitude
	}{
		{0, abtest.MagnitudeNegligible},
		{-0.19, abtest.MagnitudeNegligible},
		{0.2, abtest.MagnitudeSmall},
		{-0.2838, abtest.MagnitudeSmall},
		{0.5, abtest.MagnitudeMedium},
		{-0.79, abtest.MagnitudeMedium},
		{0.8, abtest.MagnitudeLarge},
		{math.Pi, abtest.MagnitudeLarge},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpretCohensH(tt.h), "h=%v", tt.h)
	}
}
