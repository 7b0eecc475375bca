package scheme

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/models"
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/score"
)

// Options are the scheme-independent scoring settings.
type Options struct {
	BranchLengths score.BranchLengths
	Criterion     score.Criterion
	// NumTaxa is used for schemes that do not set their own.
	NumTaxa int
	// Models resolves subset models to parameter counts; nil means
	// models.Default().
	Models models.Table
	// Threads limits the number of schemes scored at once; 0 means no
	// limit.
	Threads int
}

// Result is a scored scheme.
type Result struct {
	Scheme string       `json:"scheme"`
	Totals score.Totals `json:"totals"`
	Score  float64      `json:"score"`
}

// Evaluate aggregates and scores the scheme.
func (s *Scheme) Evaluate(opts Options) (Result, error) {
	table := opts.Models
	if table == nil {
		table = models.Default()
	}
	nTaxa := s.NumTaxa
	if nTaxa == 0 {
		nTaxa = opts.NumTaxa
	}
	if nTaxa <= 0 {
		return Result{}, fmt.Errorf("%w: number of taxa of %s is unknown", ErrInvalidScheme, s.Name)
	}

	params, lnLs, sites, err := s.Vectors(table)
	if err != nil {
		return Result{}, err
	}
	t, err := score.Aggregate(params, lnLs, sites, nTaxa, opts.BranchLengths)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	if t.Sites == 0 {
		log.Warningf("Scheme %s has no sites", s.Name)
	}
	v, err := t.Score(opts.Criterion)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	log.Debugf("Scheme %s: lnL=%v, K=%d, n=%d, %v=%v", s.Name, t.LnL, t.FreeParams, t.Sites, opts.Criterion, v)
	return Result{Scheme: s.Name, Totals: t, Score: v}, nil
}

// EvaluateAll scores the schemes concurrently. The results are in the
// order of schemes; the first error cancels the remaining work.
func EvaluateAll(ctx context.Context, schemes []*Scheme, opts Options) ([]Result, error) {
	if opts.Models == nil {
		opts.Models = models.Default()
	}
	results := make([]Result, len(schemes))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Threads > 0 {
		g.SetLimit(opts.Threads)
	}
	for i, s := range schemes {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := s.Evaluate(opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
