// Package report renders analysis results as aligned plain text for terminals.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"abkit/domain/abtest"

	"github.com/montanaflynn/stats"
)

// Precision is the number of decimals used for rates, statistics and bounds.
const Precision = 4

// SampleSize writes a power analysis summary.
func SampleSize(w io.Writer, res *abtest.SampleSizeResult) error {
	return table(w, [][2]string{
		{"Baseline rate", percent(res.BaselineRate)},
		{"Treatment rate", percent(res.TreatmentRate)},
		{"Relative MDE", percent(res.MDE)},
		{"Alpha", number(res.Alpha)},
		{"Power", number(res.Power)},
		{"Effect size (h)", number(res.EffectSize)},
		{"Sample size per group", strconv.Itoa(res.SampleSize)},
		{"Total sample size", strconv.Itoa(res.Total)},
	})
}

// ZTest writes a two-proportion z-test summary.
func ZTest(w io.Writer, res *abtest.ZTestResult) error {
	level := number(100 * (1 - res.Alpha))
	verdict := "not significant"
	if res.Significant {
		verdict = "significant"
	}
	return table(w, [][2]string{
		{"Rate A", percent(res.RateA)},
		{"Rate B", percent(res.RateB)},
		{"CI A (" + level + "%)", interval(res.CIA)},
		{"CI B (" + level + "%)", interval(res.CIB)},
		{"Absolute lift", percent(res.AbsoluteLift)},
		{"Relative lift", percent(res.RelativeLift)},
		{"z statistic", number(res.ZStatistic)},
		{"p-value", number(res.PValue)},
		{"Result", fmt.Sprintf("%s at alpha=%s", verdict, number(res.Alpha))},
	})
}

// EffectSize writes Cohen's h and its magnitude label.
func EffectSize(w io.Writer, res *abtest.EffectSizeResult) error {
	return table(w, [][2]string{
		{"p1", number(res.P1)},
		{"p2", number(res.P2)},
		{"Cohen's h", number(res.CohensH)},
		{"Magnitude", string(res.Magnitude)},
	})
}

// MDE writes the minimum detectable effect for a fixed sample size.
func MDE(w io.Writer, res *abtest.MDEResult) error {
	return table(w, [][2]string{
		{"Baseline rate", percent(res.BaselineRate)},
		{"Sample size per group", strconv.Itoa(res.SampleSize)},
		{"Alpha", number(res.Alpha)},
		{"Power", number(res.Power)},
		{"Minimum detectable effect", percent(res.MDE)},
		{"Detectable treatment rate", percent(res.TreatmentRate)},
	})
}

func table(w io.Writer, rows [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// number rounds to Precision decimals; NaN renders as n/a.
func number(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	rounded, err := stats.Round(v, Precision)
	if err != nil {
		return "n/a"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	rounded, err := stats.Round(100*v, Precision-2)
	if err != nil {
		return "n/a"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "%"
}

func interval(i abtest.Interval) string {
	return "[" + percent(i.Lower) + ", " + percent(i.Upper) + "]"
}
