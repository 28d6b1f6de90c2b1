package main

import (
	"encoding/json"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"abkit/domain/abtest"
	"abkit/internal"
	"abkit/internal/analysis/proportions"
	"abkit/internal/api"
	"abkit/internal/config"
	"abkit/internal/errors"
	"abkit/internal/report"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "abkit",
		Short:         "Sample sizes, z-tests and effect sizes for A/B conversion experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newSampleSizeCmd(),
		newZTestCmd(),
		newCohensHCmd(),
		newMDECmd(),
		newServeCmd(),
	)
	return rootCmd
}

func newSampleSizeCmd() *cobra.Command {
	var baseline, mde, alpha, power float64

	cmd := &cobra.Command{
		Use:   "sample-size",
		Short: "Required sample size per group for a baseline rate and relative MDE",
		Long: `Solve the two-sided two-sample z-test power equation for the per-group
sample size needed to detect a relative lift of --mde over --baseline.

Example: abkit sample-size --baseline 0.1 --mde 0.2 --power 0.9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := proportions.SampleSize(baseline, mde, proportions.WithAlpha(alpha), proportions.WithPower(power))
			if err != nil {
				return err
			}
			return output(cmd, res, func(w io.Writer) error { return report.SampleSize(w, res) })
		},
	}

	cmd.Flags().Float64Var(&baseline, "baseline", 0, "Baseline conversion rate in (0, 1)")
	cmd.Flags().Float64Var(&mde, "mde", 0, "Minimum detectable effect, relative to the baseline (0.2 = +20%)")
	cmd.Flags().Float64Var(&alpha, "alpha", proportions.DefaultAlpha, "Two-sided significance level")
	cmd.Flags().Float64Var(&power, "power", proportions.DefaultPower, "Target power")
	_ = cmd.MarkFlagRequired("baseline")
	_ = cmd.MarkFlagRequired("mde")
	return cmd
}

func newZTestCmd() *cobra.Command {
	var convA, totalA, convB, totalB int
	var alpha float64

	cmd := &cobra.Command{
		Use:   "ztest",
		Short: "Pooled two-proportion z-test with Wilson intervals and lift",
		Long: `Compare the conversion rates of group A (treatment) and group B (control).

Example: abkit ztest --conv-a 120 --total-a 1000 --conv-b 100 --total-b 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := proportions.TwoProportionZTest(convA, totalA, convB, totalB, alpha)
			if err != nil {
				return err
			}
			return output(cmd, res, func(w io.Writer) error { return report.ZTest(w, res) })
		},
	}

	cmd.Flags().IntVar(&convA, "conv-a", 0, "Conversions in group A")
	cmd.Flags().IntVar(&totalA, "total-a", 0, "Observations in group A")
	cmd.Flags().IntVar(&convB, "conv-b", 0, "Conversions in group B")
	cmd.Flags().IntVar(&totalB, "total-b", 0, "Observations in group B")
	cmd.Flags().Float64Var(&alpha, "alpha", proportions.DefaultAlpha, "Two-sided significance level")
	for _, name := range []string{"conv-a", "total-a", "conv-b", "total-b"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newCohensHCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cohens-h [p1] [p2]",
		Short: "Cohen's h effect size between two proportions",
		Long: `Cohen's h effect size between two proportions.

Values starting with a dash are read as flags; put them after "--":

  abkit cohens-h -- -0.1 0.2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p1, err := parseProportion("p1", args[0])
			if err != nil {
				return err
			}
			p2, err := parseProportion("p2", args[1])
			if err != nil {
				return err
			}
			h, err := proportions.CohensH(p1, p2)
			if err != nil {
				return err
			}
			res := &abtest.EffectSizeResult{P1: p1, P2: p2, CohensH: h, Magnitude: proportions.InterpretCohensH(h)}
			return output(cmd, res, func(w io.Writer) error { return report.EffectSize(w, res) })
		},
	}
}

func newMDECmd() *cobra.Command {
	var baseline, alpha, power float64
	var n int

	cmd := &cobra.Command{
		Use:   "mde",
		Short: "Smallest relative lift detectable with a fixed per-group sample size",
		Long: `Inverse of sample-size: given --n observations per group, report the
smallest positive relative lift over --baseline the test detects with --power.

Example: abkit mde --baseline 0.1 --n 5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := proportions.MinimumDetectableEffect(baseline, n, proportions.WithAlpha(alpha), proportions.WithPower(power))
			if err != nil {
				return err
			}
			return output(cmd, res, func(w io.Writer) error { return report.MDE(w, res) })
		},
	}

	cmd.Flags().Float64Var(&baseline, "baseline", 0, "Baseline conversion rate in (0, 1)")
	cmd.Flags().IntVar(&n, "n", 0, "Sample size per group")
	cmd.Flags().Float64Var(&alpha, "alpha", proportions.DefaultAlpha, "Two-sided significance level")
	cmd.Flags().Float64Var(&power, "power", proportions.DefaultPower, "Target power")
	_ = cmd.MarkFlagRequired("baseline")
	_ = cmd.MarkFlagRequired("n")
	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the statistics over JSON/HTTP",
		Long: `Start the HTTP API. Configuration is read from the environment
(PORT, GIN_MODE, LOG_LEVEL, DEFAULT_ALPHA, DEFAULT_POWER, SHUTDOWN_TIMEOUT).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
			return api.NewServer(cfg, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	return cmd
}

func parseProportion(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidParameter("%s must be a number, got %q", name, raw)
	}
	return v, nil
}

// output writes v as indented JSON when --json is set, otherwise via render.
func output(cmd *cobra.Command, v interface{}, render func(io.Writer) error) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	if !asJSON {
		return render(cmd.OutOrStdout())
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
