package main

import (
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/compare"
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/scheme"
)

// Summary is storing pfscore run summary information.
type Summary struct {
	// Version stores pfscore version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// BranchLengths is the branch-length policy.
	BranchLengths string `json:"branchLengths,omitempty"`
	// Criterion is the model selection criterion.
	Criterion string `json:"criterion,omitempty"`
	// NumTaxa is the number of taxa used for schemes not setting their own.
	NumTaxa int `json:"numTaxa,omitempty"`
	// Results are the scored schemes in the command line order.
	Results []scheme.Result `json:"results,omitempty"`
	// Comparison are the schemes ordered by score.
	Comparison []compare.Entry `json:"comparison,omitempty"`
	// LRT is the likelihood ratio test result.
	LRT *compare.LRTResult `json:"lrt,omitempty"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}
