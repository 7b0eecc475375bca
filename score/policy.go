/*

Package score reduces the per-subset results of a partitioning scheme
into totals and turns them into an information criterion value.

A partitioning scheme is given as three parallel slices: parameter
count, log likelihood and number of sites for every subset. Together
with the number of taxa and the branch-length policy they define the
free parameter count K of the whole scheme:

	linked:   K = sum(k) + (S-1) + (2T-3)
	unlinked: K = sum(k) + S*(2T-3)

K is truncated toward zero. The criterion is then computed from the
total log likelihood, K and the total number of sites. Lower is
better; the package never compares schemes itself.

All functions are pure and safe for concurrent use.

*/
package score

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every error returned from this package.
var ErrInvalidInput = errors.New("score: invalid input")

// BranchLengths is the branch-length policy of a scheme.
type BranchLengths int

const (
	// Linked means all subsets share one set of branch lengths
	// and every subset but one gets a rate multiplier.
	Linked BranchLengths = iota
	// Unlinked means every subset estimates its own branch lengths.
	Unlinked
)

// ParseBranchLengths returns the policy named by s. Matching is
// case-sensitive.
func ParseBranchLengths(s string) (BranchLengths, error) {
	switch s {
	case "linked":
		return Linked, nil
	case "unlinked":
		return Unlinked, nil
	}
	return Linked, fmt.Errorf("unknown branch-length policy %q (expected linked or unlinked): %w",
		s, ErrInvalidInput)
}

func (b BranchLengths) String() string {
	switch b {
	case Linked:
		return "linked"
	case Unlinked:
		return "unlinked"
	}
	return fmt.Sprintf("BranchLengths(%d)", int(b))
}

// freeParams adds the branch-length parameters to the summed subset
// parameter count sumK and truncates the result toward zero. Additions
// are left to right, in float64.
func (b BranchLengths) freeParams(sumK float64, nSubsets, nTaxa int) (int, error) {
	brlen := float64(2*nTaxa - 3)
	switch b {
	case Linked:
		return int(sumK + (float64(nSubsets) - 1) + brlen), nil
	case Unlinked:
		return int(sumK + float64(nSubsets)*brlen), nil
	}
	return 0, fmt.Errorf("unknown branch-length policy %v: %w", b, ErrInvalidInput)
}
