package abtest

import (
	"encoding/json"
	"math"
)

// Interval is a closed confidence interval [Lower, Upper].
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether v lies inside the interval.
func (i Interval) Contains(v float64) bool {
	return i.Lower <= v && v <= i.Upper
}

// Width returns Upper - Lower.
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// SampleSizeRequest describes a pre-experiment power analysis.
// MDE is relative: 0.2 means a 20% lift over BaselineRate.
type SampleSizeRequest struct {
	BaselineRate float64 `json:"baseline_rate"`
	MDE          float64 `json:"mde"`
	Alpha        float64 `json:"alpha"`
	Power        float64 `json:"power"`
}

// TreatmentRate is the conversion rate the test is powered to detect.
func (r SampleSizeRequest) TreatmentRate() float64 {
	return r.BaselineRate * (1 + r.MDE)
}

// SampleSizeResult is the outcome of a power analysis. SampleSize is per group.
type SampleSizeResult struct {
	SampleSizeRequest
	SampleSize    int     `json:"sample_size"`
	Total         int     `json:"total"`
	TreatmentRate float64 `json:"treatment_rate"`
	EffectSize    float64 `json:"effect_size"`
}

// ZTestRequest holds the observed counts for two groups.
type ZTestRequest struct {
	ConversionsA int     `json:"conversions_a"`
	TotalA       int     `json:"total_a"`
	ConversionsB int     `json:"conversions_b"`
	TotalB       int     `json:"total_b"`
	Alpha        float64 `json:"alpha"`
}

// ZTestResult is produced by a pooled two-proportion z-test.
// RelativeLift is NaN when RateB is zero.
type ZTestResult struct {
	ZStatistic   float64  `json:"z_statistic"`
	PValue       float64  `json:"p_value"`
	Significant  bool     `json:"significant"`
	Alpha        float64  `json:"alpha"`
	RateA        float64  `json:"rate_a"`
	RateB        float64  `json:"rate_b"`
	CIA          Interval `json:"ci_a"`
	CIB          Interval `json:"ci_b"`
	AbsoluteLift float64  `json:"absolute_lift"`
	RelativeLift float64  `json:"relative_lift"`
}

// HasRelativeLift is false when the control rate is zero.
func (r *ZTestResult) HasRelativeLift() bool {
	return !math.IsNaN(r.RelativeLift)
}

// MarshalJSON encodes a NaN relative lift as null; encoding/json rejects NaN.
func (r ZTestResult) MarshalJSON() ([]byte, error) {
	type plain ZTestResult
	out := struct {
		plain
		RelativeLift *float64 `json:"relative_lift"`
	}{plain: plain(r)}
	if !math.IsNaN(r.RelativeLift) {
		lift := r.RelativeLift
		out.RelativeLift = &lift
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON: null or absent decodes to NaN.
func (r *ZTestResult) UnmarshalJSON(data []byte) error {
	type plain ZTestResult
	p := plain{RelativeLift: math.NaN()}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ZTestResult(p)
	return nil
}

// EffectMagnitude is Cohen's conventional label for |h|.
type EffectMagnitude string

const (
	MagnitudeNegligible EffectMagnitude = "negligible"
	MagnitudeSmall      EffectMagnitude = "small"
	MagnitudeMedium     EffectMagnitude = "medium"
	MagnitudeLarge      EffectMagnitude = "large"
)

// EffectSizeResult pairs Cohen's h with its magnitude label.
type EffectSizeResult struct {
	P1        float64         `json:"p1"`
	P2        float64         `json:"p2"`
	CohensH   float64         `json:"cohens_h"`
	Magnitude EffectMagnitude `json:"magnitude"`
}

// MDEResult is the smallest relative lift detectable at a given per-group size.
type MDEResult struct {
	BaselineRate  float64 `json:"baseline_rate"`
	SampleSize    int     `json:"sample_size"`
	Alpha         float64 `json:"alpha"`
	Power         float64 `json:"power"`
	MDE           float64 `json:"mde"`
	TreatmentRate float64 `json:"treatment_rate"`
	EffectSize    float64 `json:"effect_size"`
}
