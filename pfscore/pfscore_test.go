package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	schemeA = `{"name": "by_gene", "subsets": [
  {"name": "COI", "param_count": 2, "log_likelihood": -100, "site_count": 50},
  {"name": "ND2", "param_count": 3, "log_likelihood": -150, "site_count": 70}]}`
	schemeB = `{"name": "all_together", "subsets": [
  {"name": "COI_ND2", "model": "HKY+G", "log_likelihood": -262, "site_count": 120}]}`
	schemeProtein = `name: prot
subsets:
  - {name: p1, model: LG+I+G+F, log_likelihood: -10, site_count: 5}
  - {name: p2, model: JTT+G, log_likelihood: -12, site_count: 6}
`
	tree10 = "(((a,b),(c,d)),((e,f),(g,(h,(i,j)))));"
)

func writeFiles(t *testing.T, files map[string]string) map[string]string {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[string]string, len(files))
	for name, content := range files {
		fn := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fn, []byte(content), 0644))
		paths[name] = fn
	}
	return paths
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	old := stdout
	stdout = buf
	t.Cleanup(func() { stdout = old })
	return buf
}

func TestConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	fns := writeFiles(t, map[string]string{
		"cfg.yml": "branchlengths: unlinked\nmodel_selection: BIC\nnum_taxa: 12\n",
		"bad.yml": "branchlength: unlinked\n",
	})
	cfg, err = loadConfig(fns["cfg.yml"])
	require.NoError(t, err)
	assert.Equal(t, "unlinked", cfg.BranchLengths)
	assert.Equal(t, "BIC", cfg.ModelSelection)
	assert.Equal(t, 12, cfg.NumTaxa)
	require.NoError(t, cfg.validate())

	cfg.override(config{ModelSelection: "aic", Threads: 2})
	assert.Equal(t, "aic", cfg.ModelSelection)
	assert.Equal(t, "unlinked", cfg.BranchLengths)
	assert.Equal(t, 2, cfg.Threads)

	_, err = loadConfig(fns["bad.yml"])
	assert.Error(t, err)

	cfg.BranchLengths = "Linked"
	assert.Error(t, cfg.validate())
	cfg.BranchLengths = "linked"
	cfg.ModelSelection = "xic"
	assert.Error(t, cfg.validate())
}

func TestRunScore(t *testing.T) {
	fns := writeFiles(t, map[string]string{"a.json": schemeA})
	out := captureStdout(t)

	cfg := defaultConfig()
	cfg.BranchLengths = "unlinked"
	cfg.ModelSelection = "AIC"
	cfg.NumTaxa = 10
	summary := &Summary{}
	require.NoError(t, runScore(context.Background(), cfg, []string{fns["a.json"]}, summary))

	assert.Contains(t, out.String(), "by_gene")
	assert.Contains(t, out.String(), "578.000000")
	assert.Equal(t, "aic", summary.Criterion)
	assert.Equal(t, "unlinked", summary.BranchLengths)
	header := strings.SplitN(out.String(), "\n", 2)[0]
	assert.Equal(t, []string{"scheme", "aic"}, strings.Fields(header))
	require.Len(t, summary.Results, 1)
	assert.Equal(t, 39, summary.Results[0].Totals.FreeParams)
}

func TestRunStatsFromTree(t *testing.T) {
	fns := writeFiles(t, map[string]string{"a.json": schemeA, "t.nwk": tree10})
	out := captureStdout(t)

	cfg := defaultConfig()
	cfg.Tree = fns["t.nwk"]
	summary := &Summary{}
	require.NoError(t, runStats(context.Background(), cfg, []string{fns["a.json"]}, summary))

	assert.Equal(t, 10, summary.NumTaxa)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"by_gene", "-250.000000", "23", "120"}, strings.Fields(lines[1]))
}

func TestRunCompare(t *testing.T) {
	fns := writeFiles(t, map[string]string{"a.json": schemeA, "b.json": schemeB})
	out := captureStdout(t)

	cfg := defaultConfig()
	cfg.ModelSelection = "aic"
	cfg.NumTaxa = 10
	summary := &Summary{Criterion: "aic"}
	require.NoError(t, runCompare(context.Background(), cfg, []string{fns["a.json"], fns["b.json"]}, summary))

	// by_gene: K=23, AIC=546; all_together: K=5+17=22, AIC=524+44=568
	require.Len(t, summary.Comparison, 2)
	assert.Equal(t, "by_gene", summary.Comparison[0].Name)
	assert.Equal(t, 22.0, summary.Comparison[1].Delta)
	assert.Contains(t, out.String(), "all_together")
}

func TestRunLRT(t *testing.T) {
	fns := writeFiles(t, map[string]string{"a.json": schemeA, "b.json": schemeB})
	captureStdout(t)

	cfg := defaultConfig()
	cfg.NumTaxa = 10
	summary := &Summary{}
	require.NoError(t, runLRT(cfg, fns["b.json"], fns["a.json"], summary))
	require.NotNil(t, summary.LRT)
	assert.Equal(t, 1, summary.LRT.DF)
	assert.Equal(t, 24.0, summary.LRT.D)
	assert.Less(t, summary.LRT.P, 1e-5)

	assert.Error(t, runLRT(cfg, fns["a.json"], fns["b.json"], &Summary{}))
}

func TestRunDB(t *testing.T) {
	fns := writeFiles(t, map[string]string{
		"a.json":      schemeA,
		"partial.yml": "name: partial\nsubsets:\n  - name: COI\n  - name: ND2\n",
	})
	out := captureStdout(t)

	cfg := defaultConfig()
	assert.Error(t, runDBList(cfg))

	cfg.Database = filepath.Join(t.TempDir(), "subsets.db")
	cfg.NumTaxa = 10
	cfg.BranchLengths = "unlinked"
	cfg.ModelSelection = "aic"
	require.NoError(t, runDBImport(cfg, []string{fns["a.json"]}))
	require.NoError(t, runDBList(cfg))
	assert.Contains(t, out.String(), "COI")
	assert.Contains(t, out.String(), "ND2")

	summary := &Summary{}
	require.NoError(t, runScore(context.Background(), cfg, []string{fns["partial.yml"]}, summary))
	require.Len(t, summary.Results, 1)
	assert.Equal(t, 578.0, summary.Results[0].Score)
}

func TestRunPlot(t *testing.T) {
	fns := writeFiles(t, map[string]string{"a.json": schemeA, "b.json": schemeB})
	captureStdout(t)

	cfg := defaultConfig()
	cfg.NumTaxa = 10
	png := filepath.Join(t.TempDir(), "scores.png")
	require.NoError(t, runPlot(context.Background(), cfg, []string{fns["a.json"], fns["b.json"]}, png, &Summary{Criterion: "aicc"}))

	st, err := os.Stat(png)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func TestRunModels(t *testing.T) {
	fns := writeFiles(t, map[string]string{"a.json": schemeA, "p.yml": schemeProtein})
	out := captureStdout(t)

	cfg := defaultConfig()
	require.NoError(t, runModels(cfg, fns["p.yml"], "raxml"))
	assert.Equal(t, "LGF, p1\nJTT, p2\n", out.String())

	out.Reset()
	require.NoError(t, runModels(cfg, fns["p.yml"], "mrbayes"))
	assert.Contains(t, out.String(), "\tpartition prot = 2: p1, p2;\n")
	assert.Contains(t, out.String(), "\tlset applyto=(1) rates=invgamma;\n")
	assert.Contains(t, out.String(), "\tprset applyto=(2) aamodelpr=fixed(jones);\n")
	assert.True(t, strings.HasSuffix(out.String(), "end;\n"))

	// by_gene gives parameter counts only
	assert.Error(t, runModels(cfg, fns["a.json"], "raxml"))
}
