package abtest

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZTestResult_NaNRelativeLiftIsNull(t *testing.T) {
	res := ZTestResult{RateA: 0.05, AbsoluteLift: 0.05, RelativeLift: math.NaN()}

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"relative_lift":null`)

	var back ZTestResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.RelativeLift))
	assert.False(t, back.HasRelativeLift())
	assert.Equal(t, 0.05, back.RateA)
}

func TestZTestResult_RelativeLiftNumber(t *testing.T) {
	res := &ZTestResult{RateB: 0.1, RelativeLift: 0.2, CIA: Interval{Lower: 0.1, Upper: 0.14}}

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"relative_lift":0.2`)
	assert.Contains(t, string(data), `"ci_a":{"lower":0.1,"upper":0.14}`)

	var back ZTestResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *res, back)
}

func TestInterval(t *testing.T) {
	i := Interval{Lower: 0.1, Upper: 0.3}
	assert.True(t, i.Contains(0.1))
	assert.True(t, i.Contains(0.3))
	assert.False(t, i.Contains(0.31))
	assert.InDelta(t, 0.2, i.Width(), 1e-12)
}

func TestSampleSizeRequest_TreatmentRate(t *testing.T) {
	assert.InDelta(t, 0.12, SampleSizeRequest{BaselineRate: 0.1, MDE: 0.2}.TreatmentRate(), 1e-12)
	assert.InDelta(t, 0.08, SampleSizeRequest{BaselineRate: 0.1, MDE: -0.2}.TreatmentRate(), 1e-12)
}
