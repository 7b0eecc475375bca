// Package compare puts already scored partitioning schemes side by
// side. Scores come from package score; nothing here changes them.
package compare

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/dist"
)

var (
	ErrEmpty     = errors.New("compare: no schemes")
	ErrMismatch  = errors.New("compare: names and scores differ in length")
	ErrNotNested = errors.New("compare: alternative must have more free parameters")
)

// Entry is one scheme in a comparison.
type Entry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	// Delta is the score difference to the lowest score.
	Delta float64 `json:"delta"`
	// Weight is exp(-Delta/2) normalized over all entries.
	Weight float64 `json:"weight"`
}

// Table returns the entries sorted by increasing score, with non-finite
// scores last. Equal scores keep the input order.
func Table(names []string, scores []float64) ([]Entry, error) {
	if len(names) != len(scores) {
		return nil, ErrMismatch
	}
	if len(scores) == 0 {
		return nil, ErrEmpty
	}

	deltas := Deltas(scores)
	weights := Weights(scores)

	entries := make([]Entry, len(scores))
	for i := range scores {
		entries[i] = Entry{
			Name:   names[i],
			Score:  scores[i],
			Delta:  deltas[i],
			Weight: weights[i],
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := entries[i].Score, entries[j].Score
		if !finite(si) {
			return false
		}
		return !finite(sj) || si < sj
	})
	return entries, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// minFinite returns the minimum of the finite values, or NaN if there are none.
func minFinite(v []float64) float64 {
	m := math.NaN()
	for _, x := range v {
		if !finite(x) {
			continue
		}
		if math.IsNaN(m) || x < m {
			m = x
		}
	}
	return m
}

// Deltas returns every score minus the lowest finite score.
func Deltas(scores []float64) []float64 {
	m := minFinite(scores)
	d := make([]float64, len(scores))
	for i, s := range scores {
		d[i] = s - m
	}
	return d
}

// Weights returns exp(-delta/2) for every score, normalized to sum to
// one. Non-finite scores get zero weight.
func Weights(scores []float64) []float64 {
	deltas := Deltas(scores)
	w := make([]float64, len(scores))
	sum := 0.0
	for i, d := range deltas {
		if !finite(d) {
			continue
		}
		w[i] = math.Exp(-d / 2)
		sum += w[i]
	}
	if sum == 0 {
		return w
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// LRTResult is the result of a likelihood ratio test.
type LRTResult struct {
	// D is twice the log likelihood difference.
	D float64 `json:"D"`
	// DF is the difference in free parameters.
	DF int `json:"df"`
	// P is the upper chi-squared tail probability of D.
	P float64 `json:"p"`
}

// LRT tests scheme 0 against the alternative scheme 1 which it is
// nested in. Negative D (the alternative fits worse) is reported as 0.
func LRT(lnL0 float64, k0 int, lnL1 float64, k1 int) (LRTResult, error) {
	df := k1 - k0
	if df <= 0 {
		return LRTResult{}, fmt.Errorf("%w: k0=%d, k1=%d", ErrNotNested, k0, k1)
	}
	d := 2 * (lnL1 - lnL0)
	if d < 0 {
		d = 0
	}
	return LRTResult{
		D:  d,
		DF: df,
		P:  dist.SurvivalChi2(d, float64(df)),
	}, nil
}
