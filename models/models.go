// Package models knows how many free parameters a substitution model
// has. The count is the sum of the rate matrix parameters, the base
// frequency parameters and the rate variation parameters.
package models

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownModel is returned for a model missing from a table.
var ErrUnknownModel = errors.New("models: unknown model")

// Model is a substitution model with its parameter breakdown.
type Model struct {
	Name           string
	MatrixParams   int
	BaseFreqParams int
	RateVarParams  int
}

// NumParams returns the total number of free parameters.
func (m Model) NumParams() int {
	return m.MatrixParams + m.BaseFreqParams + m.RateVarParams
}

// Table maps model names (e.g. "GTR+I+G") to models.
type Table map[string]Model

// NumParams returns the total number of parameters of the named model.
func (t Table) NumParams(name string) (int, error) {
	m, ok := t[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return m.NumParams(), nil
}

// Names returns the sorted model names.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add inserts m, replacing a model with the same name.
func (t Table) Add(m Model) {
	t[m.Name] = m
}

// base is a model without rate variation.
type base struct {
	name           string
	matrixParams   int
	baseFreqParams int
}

var dnaModels = []base{
	{"JC", 0, 0},
	{"K80", 1, 0},
	{"TrNef", 2, 0},
	{"K81", 2, 0},
	{"TIMef", 3, 0},
	{"TVMef", 4, 0},
	{"SYM", 5, 0},
	{"F81", 0, 3},
	{"HKY", 1, 3},
	{"TrN", 2, 3},
	{"K81uf", 2, 3},
	{"TIM", 3, 3},
	{"TVM", 4, 3},
	{"GTR", 5, 3},
}

// Empirical protein matrices have no free matrix parameters.
var proteinModels = []string{
	"BLOSUM62", "CPREV", "DAYHOFF", "DCMUT", "FLU", "HIVB", "HIVW",
	"JTT", "JTTDCMUT", "LG", "MTART", "MTMAM", "MTREV", "MTZOA",
	"RTREV", "VT", "WAG",
}

var morphologyModels = []string{"BINARY", "MULTISTATE"}

// proteinFreqParams is the number of free amino acid frequencies.
const proteinFreqParams = 19

// rateVar lists rate variation suffixes and their parameter counts.
var rateVar = []struct {
	suffix string
	params int
}{
	{"", 0},
	{"+I", 1},
	{"+G", 1},
	{"+I+G", 2},
}

// Default returns a table with the built-in DNA, protein and
// morphology models, each with every rate variation suffix.
// Protein models also come with "+F" and "+X" (estimated
// frequencies) variants.
func Default() Table {
	t := make(Table)
	for _, b := range dnaModels {
		for _, rv := range rateVar {
			t.Add(Model{b.name + rv.suffix, b.matrixParams, b.baseFreqParams, rv.params})
		}
	}
	for _, name := range proteinModels {
		for _, rv := range rateVar {
			t.Add(Model{name + rv.suffix, 0, 0, rv.params})
			t.Add(Model{name + rv.suffix + "+F", 0, proteinFreqParams, rv.params})
			t.Add(Model{name + rv.suffix + "+X", 0, proteinFreqParams, rv.params})
		}
	}
	for _, name := range morphologyModels {
		t.Add(Model{name, 0, 0, 0})
		t.Add(Model{name + "+G", 0, 0, 1})
	}
	return t
}

var csvHeader = []string{"name", "matrix_params", "basefreq_params", "ratevar_params"}

// ReadCSV reads a model table. The first row must be the header
// "name,matrix_params,basefreq_params,ratevar_params"; columns may be
// in any order and extra columns are ignored. Empty numeric cells
// count as zero.
func ReadCSV(rd io.Reader) (Table, error) {
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("models: reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range csvHeader {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("models: missing column %q", h)
		}
	}

	t := make(Table)
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("models: line %d: %w", line, err)
		}

		cell := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		num := func(name string) (int, error) {
			s := cell(name)
			if s == "" {
				return 0, nil
			}
			v, err := strconv.Atoi(s)
			if err != nil {
				return 0, fmt.Errorf("models: line %d, %s: %w", line, name, err)
			}
			return v, nil
		}

		m := Model{Name: cell("name")}
		if m.Name == "" {
			continue
		}
		if m.MatrixParams, err = num("matrix_params"); err != nil {
			return nil, err
		}
		if m.BaseFreqParams, err = num("basefreq_params"); err != nil {
			return nil, err
		}
		if m.RateVarParams, err = num("ratevar_params"); err != nil {
			return nil, err
		}
		t.Add(m)
	}
	return t, nil
}
