package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/compare"
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/models"
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/scheme"
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/score"
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/subsetdb"
	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/tree"
)

// stdout is where the result tables are printed.
var stdout io.Writer = os.Stdout

// modelTable returns the built-in models with the models from the CSV
// file fn added (if fn is not empty).
func modelTable(fn string) (models.Table, error) {
	table := models.Default()
	if fn == "" {
		return table, nil
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	custom, err := models.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	for _, m := range custom {
		table.Add(m)
	}
	log.Infof("Read %d model(s) from %s", len(custom), fn)
	return table, nil
}

// taxaFromTree returns the number of leaves of the tree in file fn.
func taxaFromTree(fn string) (int, error) {
	f, err := os.Open(fn)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	t, err := tree.ParseNewick(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", fn, err)
	}
	n := t.NLeaves()
	if t.NBranches() != tree.NBranchesBinary(n) {
		log.Warningf("Tree %s is not binary: %d branches for %d taxa", fn, t.NBranches(), n)
	}
	log.Infof("Read tree with %d taxa", n)
	return n, nil
}

// options converts the settings to scoring options.
func options(cfg config) (opts scheme.Options, err error) {
	if opts.BranchLengths, err = score.ParseBranchLengths(cfg.BranchLengths); err != nil {
		return
	}
	if opts.Criterion, err = score.ParseCriterion(cfg.ModelSelection); err != nil {
		return
	}
	if opts.Models, err = modelTable(cfg.Models); err != nil {
		return
	}
	opts.NumTaxa = cfg.NumTaxa
	if opts.NumTaxa == 0 && cfg.Tree != "" {
		if opts.NumTaxa, err = taxaFromTree(cfg.Tree); err != nil {
			return
		}
	}
	opts.Threads = cfg.Threads
	log.Infof("Branch lengths: %v, criterion: %v, taxa: %d", opts.BranchLengths, opts.Criterion, opts.NumTaxa)
	return opts, nil
}

// openDB opens the subset database if one is configured; otherwise it
// returns nil, which stores nothing.
func openDB(cfg config) (*subsetdb.DB, error) {
	if cfg.Database == "" {
		return nil, nil
	}
	return subsetdb.Open(cfg.Database)
}

// readSchemes reads scheme files and completes them from the subset
// database.
func readSchemes(cfg config, fns []string) ([]*scheme.Scheme, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	schemes := make([]*scheme.Scheme, 0, len(fns))
	for _, fn := range fns {
		s, err := scheme.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		if db != nil {
			if _, err := s.Fill(db); err != nil {
				return nil, err
			}
		}
		schemes = append(schemes, s)
	}
	log.Infof("Read %d scheme(s)", len(schemes))
	return schemes, nil
}

// evaluate reads and scores the schemes.
func evaluate(ctx context.Context, cfg config, fns []string, summary *Summary) ([]scheme.Result, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	summary.BranchLengths = opts.BranchLengths.String()
	summary.Criterion = opts.Criterion.String()
	summary.NumTaxa = opts.NumTaxa

	schemes, err := readSchemes(cfg, fns)
	if err != nil {
		return nil, err
	}
	results, err := scheme.EvaluateAll(ctx, schemes, opts)
	if err != nil {
		return nil, err
	}
	summary.Results = results
	return results, nil
}

func runScore(ctx context.Context, cfg config, fns []string, summary *Summary) error {
	results, err := evaluate(ctx, cfg, fns, summary)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "scheme\t%s\n", summary.Criterion)
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.6f\n", r.Scheme, r.Score)
	}
	return w.Flush()
}

func runStats(ctx context.Context, cfg config, fns []string, summary *Summary) error {
	results, err := evaluate(ctx, cfg, fns, summary)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "scheme\tlnL\tK\tsites")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.6f\t%d\t%d\n", r.Scheme, r.Totals.LnL, r.Totals.FreeParams, r.Totals.Sites)
	}
	return w.Flush()
}

func runCompare(ctx context.Context, cfg config, fns []string, summary *Summary) error {
	results, err := evaluate(ctx, cfg, fns, summary)
	if err != nil {
		return err
	}
	names := make([]string, len(results))
	scores := make([]float64, len(results))
	for i, r := range results {
		names[i] = r.Scheme
		scores[i] = r.Score
	}
	entries, err := compare.Table(names, scores)
	if err != nil {
		return err
	}
	summary.Comparison = entries

	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "scheme\t%s\tdelta\tweight\n", summary.Criterion)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.4g\n", e.Name, e.Score, e.Delta, e.Weight)
	}
	return w.Flush()
}

func runLRT(cfg config, h0, h1 string, summary *Summary) error {
	results, err := evaluate(context.Background(), cfg, []string{h0, h1}, summary)
	if err != nil {
		return err
	}
	t0, t1 := results[0].Totals, results[1].Totals
	res, err := compare.LRT(t0.LnL, t0.FreeParams, t1.LnL, t1.FreeParams)
	if err != nil {
		return err
	}
	summary.LRT = &res
	log.Noticef("H0 lnL=%v K=%d, H1 lnL=%v K=%d", t0.LnL, t0.FreeParams, t1.LnL, t1.FreeParams)
	fmt.Fprintf(stdout, "D=%g df=%d p=%g\n", res.D, res.DF, res.P)
	return nil
}

func runDBImport(cfg config, fns []string) error {
	if cfg.Database == "" {
		return fmt.Errorf("no subset database given (--db)")
	}
	table, err := modelTable(cfg.Models)
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	n := 0
	for _, fn := range fns {
		s, err := scheme.ReadFile(fn)
		if err != nil {
			return err
		}
		for _, r := range s.Records(table) {
			if err := db.Put(r); err != nil {
				return err
			}
			n++
		}
	}
	log.Noticef("Stored %d subset(s) in %s", n, cfg.Database)
	return nil
}

func runDBList(cfg config) error {
	if cfg.Database == "" {
		return fmt.Errorf("no subset database given (--db)")
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "subset\tmodel\tk\tlnL\tsites")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%g\t%.6f\t%d\n", r.Name, r.Model, r.ParamCount, r.LogLikelihood, r.SiteCount)
	}
	return w.Flush()
}

// runModels prints the subset models of a scheme as a RAxML partition
// list or a MrBayes block. Partition i is the i-th subset, from 1.
func runModels(cfg config, fn, format string) error {
	schemes, err := readSchemes(cfg, []string{fn})
	if err != nil {
		return err
	}
	s := schemes[0]
	for _, sub := range s.Subsets {
		if sub.Model == "" {
			return fmt.Errorf("%s: subset %s has no model", s.Name, sub.Name)
		}
	}

	if format == "raxml" {
		for _, sub := range s.Subsets {
			name, err := models.RAxMLName(sub.Model)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s, %s\n", name, sub.Name)
		}
		return nil
	}

	names := make([]string, len(s.Subsets))
	for i, sub := range s.Subsets {
		names[i] = sub.Name
	}
	fmt.Fprintln(stdout, "begin mrbayes;")
	fmt.Fprintf(stdout, "\tpartition %s = %d: %s;\n", s.Name, len(names), strings.Join(names, ", "))
	fmt.Fprintf(stdout, "\tset partition = %s;\n", s.Name)
	for i, sub := range s.Subsets {
		text, err := models.MrBayesText(sub.Model, i+1)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, text)
	}
	fmt.Fprintln(stdout, "\tprset applyto=(all) ratepr=variable;")
	fmt.Fprintln(stdout, "\tunlink statefreq=(all) revmat=(all) shape=(all) pinvar=(all) tratio=(all);")
	fmt.Fprintln(stdout, "end;")
	return nil
}
