package proportions

import (
	stderrors "errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

var (
	errNotBracketed  = stderrors.New("root is not bracketed")
	errNoConvergence = stderrors.New("root finder did not converge")
	errNonFinite     = stderrors.New("objective returned a non-finite value")
)

const (
	rootAbsTol   = 2e-12
	rootRelTol   = 4 * 2.220446049250313e-16
	rootMaxIter = 200

	// bracketLimit is the largest per-group size whose ceiling still fits in an int.
	bracketLimit = float64(math.MaxInt64 / 2)
)

// brent finds a root of f in [a, b] with Brent's method: inverse quadratic
// interpolation or secant steps, falling back to bisection whenever the
// interpolated step leaves the bracket or shrinks too slowly.
// f(a) and f(b) must have opposite signs.
func brent(f func(float64) float64, a, b float64) (float64, error) {
	xpre, xcur := a, b
	fpre, fcur := f(a), f(b)
	if math.IsNaN(fpre) || math.IsNaN(fcur) {
		return 0, errNonFinite
	}
	if fpre == 0 {
		return xpre, nil
	}
	if fcur == 0 {
		return xcur, nil
	}
	if math.Signbit(fpre) == math.Signbit(fcur) {
		return 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", errNotBracketed, a, fpre, b, fcur)
	}

	var xblk, fblk, spre, scur float64
	for i := 0; i < rootMaxIter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (rootAbsTol + rootRelTol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || scalar.EqualWithinAbsOrRel(xcur, xblk, 2*delta, rootRelTol) {
			return xcur, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic interpolation
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		switch {
		case math.Abs(scur) > delta:
			xcur += scur
		case sbis > 0:
			xcur += delta
		default:
			xcur -= delta
		}
		fcur = f(xcur)
		if math.IsNaN(fcur) {
			return 0, errNonFinite
		}
	}
	return xcur, errNoConvergence
}

// expandUpper doubles hi until f(hi) changes sign relative to f(lo), for
// objectives that are monotone on [lo, +inf).
func expandUpper(f func(float64) float64, lo, hi float64) (float64, error) {
	flo := f(lo)
	for ; hi <= bracketLimit; hi *= 2 {
		fhi := f(hi)
		if math.IsNaN(fhi) {
			return 0, errNonFinite
		}
		if fhi == 0 || math.Signbit(fhi) != math.Signbit(flo) {
			return hi, nil
		}
	}
	return 0, fmt.Errorf("%w below %g", errNotBracketed, bracketLimit)
}
