package score

import (
	"fmt"
	"math"
	"strings"
)

// Criterion is an information criterion used to score a model or a
// whole scheme.
type Criterion int

const (
	AIC Criterion = iota
	AICc
	BIC
)

// ParseCriterion returns the criterion named by s, ignoring case.
func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(s) {
	case "aic":
		return AIC, nil
	case "aicc":
		return AICc, nil
	case "bic":
		return BIC, nil
	}
	return AIC, fmt.Errorf("unknown model-selection criterion %q (expected aic, aicc or bic): %w",
		s, ErrInvalidInput)
}

func (c Criterion) String() string {
	switch c {
	case AIC:
		return "aic"
	case AICc:
		return "aicc"
	case BIC:
		return "bic"
	}
	return fmt.Sprintf("Criterion(%d)", int(c))
}

// Value computes the criterion for log likelihood lnL, k free
// parameters and n sites.
//
// For AICc, n is raised to k+2 when it is smaller, so the correction
// term stays finite and positive. BIC does not check n; n=0 gives a
// non-finite value.
func (c Criterion) Value(lnL, k, n float64) (float64, error) {
	switch c {
	case AIC:
		return (-2.0 * lnL) + (2.0 * k), nil
	case AICc:
		if n < k+2.0 {
			n = k + 2.0
		}
		return (-2.0 * lnL) + ((2.0 * k) * (n / (n - k - 1.0))), nil
	case BIC:
		return (-2.0 * lnL) + (k * math.Log(n)), nil
	}
	return 0, fmt.Errorf("unknown model-selection criterion %v: %w", c, ErrInvalidInput)
}
