// Package dist implements the chi-squared distribution functions used
// by likelihood ratio tests.
package dist

import (
	"math"

	"github.com/gonum/mathext"
)

/*

IncompleteGamma returns the regularized lower incomplete gamma ratio
P(alpha, x), alpha is the shape parameter and x is the upper limit of
the integration.

*/
func IncompleteGamma(x, alpha float64) float64 {
	return mathext.GammaInc(alpha, x)
}

// CDFChi2 returns Prob{X<x} for X chi-squared distributed with df
// degrees of freedom.
func CDFChi2(x, df float64) float64 {
	if x <= 0 {
		return 0
	}
	if math.IsInf(x, 1) {
		return 1
	}
	return IncompleteGamma(x/2, df/2)
}

// SurvivalChi2 returns Prob{X>=x}, the p-value of statistic x. The
// upper tail is computed directly, so tiny p-values do not round to 0.
func SurvivalChi2(x, df float64) float64 {
	if x <= 0 {
		return 1
	}
	if math.IsInf(x, 1) {
		return 0
	}
	return mathext.GammaIncComp(df/2, x/2)
}
