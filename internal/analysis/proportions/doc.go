// Package proportions implements the frequentist statistics behind a
// two-arm conversion experiment: power analysis for the required sample
// size, the pooled two-proportion z-test with Wilson score intervals, and
// Cohen's h.
//
// All functions are pure and safe for concurrent use. Invalid inputs return
// an INVALID_PARAMETER error; a power equation that cannot be solved returns
// COMPUTATION_ERROR.
package proportions
