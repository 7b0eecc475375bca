package score

import (
	"fmt"
)

// Totals are the scheme-wide sums a criterion is computed from.
type Totals struct {
	// LnL is the sum of the subset log likelihoods.
	LnL float64 `json:"lnL"`
	// FreeParams is the number of free parameters, including
	// branch lengths.
	FreeParams int `json:"freeParams"`
	// Sites is the total number of alignment sites.
	Sites int `json:"sites"`
}

// Score computes criterion c from the totals.
func (t Totals) Score(c Criterion) (float64, error) {
	return c.Value(t.LnL, float64(t.FreeParams), float64(t.Sites))
}

// Aggregate sums the per-subset results of a scheme. paramCounts,
// lnLs and sites hold one entry per subset and must have the same
// length.
func Aggregate(paramCounts, lnLs []float64, sites []int, nTaxa int, bl BranchLengths) (t Totals, err error) {
	if len(paramCounts) != len(lnLs) || len(paramCounts) != len(sites) {
		return t, fmt.Errorf("parameter counts (%d), log likelihoods (%d) and site counts (%d) differ in length: %w",
			len(paramCounts), len(lnLs), len(sites), ErrInvalidInput)
	}

	sumK := 0.0
	for i, k := range paramCounts {
		sumK += k
		t.LnL += lnLs[i]
		t.Sites += sites[i]
	}

	t.FreeParams, err = bl.freeParams(sumK, len(paramCounts), nTaxa)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}

// Compute aggregates a scheme and scores it with criterion c.
func Compute(paramCounts, lnLs []float64, sites []int, nTaxa int, bl BranchLengths, c Criterion) (float64, error) {
	t, err := Aggregate(paramCounts, lnLs, sites, nTaxa, bl)
	if err != nil {
		return 0, err
	}
	return t.Score(c)
}

// AggregateByName is Aggregate with the policy given by name.
func AggregateByName(paramCounts, lnLs []float64, sites []int, nTaxa int, branchLengths string) (Totals, error) {
	bl, err := ParseBranchLengths(branchLengths)
	if err != nil {
		return Totals{}, err
	}
	return Aggregate(paramCounts, lnLs, sites, nTaxa, bl)
}

// ComputeByName is Compute with the policy and the criterion given by
// name. The policy name is case-sensitive, the criterion name is not.
func ComputeByName(paramCounts, lnLs []float64, sites []int, nTaxa int, branchLengths, criterion string) (float64, error) {
	t, err := AggregateByName(paramCounts, lnLs, sites, nTaxa, branchLengths)
	if err != nil {
		return 0, err
	}
	c, err := ParseCriterion(criterion)
	if err != nil {
		return 0, err
	}
	return t.Score(c)
}
