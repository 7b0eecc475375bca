package models

import (
	"errors"
	"strings"
	"testing"
)

func TestDefault(tst *testing.T) {
	t := Default()

	expected := map[string]int{
		"JC":           0,
		"JC+G":         1,
		"K80+I":        2,
		"HKY+I+G":      6,
		"GTR":          8,
		"GTR+I+G":      10,
		"SYM+G":        6,
		"LG+G":         1,
		"LG+I+G+F":     21,
		"WAG+X":        19,
		"BINARY":       0,
		"MULTISTATE+G": 1,
	}

	for name, n := range expected {
		got, err := t.NumParams(name)
		if err != nil {
			tst.Error("Error for", name, err)
			continue
		}
		if got != n {
			tst.Errorf("%s: expected %d parameters, got %d", name, n, got)
		}
	}
}

func TestUnknown(tst *testing.T) {
	_, err := Default().NumParams("GTR+R4")
	if !errors.Is(err, ErrUnknownModel) {
		tst.Error("Expected ErrUnknownModel, got", err)
	}
}

func TestNames(tst *testing.T) {
	names := Default().Names()
	if len(names) == 0 {
		tst.Fatal("No model names")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			tst.Error("Names are not sorted:", names[i-1], names[i])
		}
	}
}

const modelsCSV = `name,matrix_params,basefreq_params,ratevar_params,comment
GTR+G, 5, 3, 1, general
JC,0,0,0
LG+F,,19,
`

func TestReadCSV(tst *testing.T) {
	t, err := ReadCSV(strings.NewReader(modelsCSV))
	if err != nil {
		tst.Fatal("Error reading csv:", err)
	}
	if len(t) != 3 {
		tst.Error("Expected 3 models, got", len(t))
	}
	for name, n := range map[string]int{"GTR+G": 9, "JC": 0, "LG+F": 19} {
		got, err := t.NumParams(name)
		if err != nil || got != n {
			tst.Errorf("%s: expected %d, got %d (%v)", name, n, got, err)
		}
	}
}

func TestReadCSVErrors(tst *testing.T) {
	_, err := ReadCSV(strings.NewReader("name,matrix_params\nGTR,5\n"))
	if err == nil {
		tst.Error("Expected missing column error")
	}

	_, err = ReadCSV(strings.NewReader("name,matrix_params,basefreq_params,ratevar_params\nGTR,five,3,0\n"))
	if err == nil {
		tst.Error("Expected number parsing error")
	}

	_, err = ReadCSV(strings.NewReader(""))
	if err == nil {
		tst.Error("Expected error for empty input")
	}
}

func TestRAxMLName(tst *testing.T) {
	expected := map[string]string{
		"LG+I+G+F":   "LGF",
		"WAG+G+X":    "WAGX",
		"JTT":        "JTT",
		"BINARY+G":   "BIN",
		"MULTISTATE": "MULTI",
		"GTR+I+G":    "DNA",
		"K80":        "DNA",
	}
	for model, name := range expected {
		got, err := RAxMLName(model)
		if err != nil {
			tst.Error("Error for", model, err)
			continue
		}
		if got != name {
			tst.Errorf("%s: expected %s, got %s", model, name, got)
		}
	}

	if _, err := RAxMLName("FOO+G"); !errors.Is(err, ErrUnknownModel) {
		tst.Error("Expected unknown model error, got", err)
	}
}

func TestMrBayesText(tst *testing.T) {
	expected := map[string]string{
		"GTR+I+G": "\tlset applyto=(1) nst=6 rates=invgamma;\n",
		"HKY+G":   "\tlset applyto=(1) nst=2 rates=gamma;\n",
		"TrN+I":   "\tlset applyto=(1) nst=6 rates=propinv;\n",
		"JC":      "\tlset applyto=(1) nst=1;\nprset applyto=(1) statefreqpr=fixed(equal);\n",
		"LG+G+F":  "\tlset applyto=(1) rates=gamma;\n\tprset applyto=(1) aamodelpr=fixed(wag);\n",
		"JTT":     "\tprset applyto=(1) aamodelpr=fixed(jones);\n",
	}
	for model, text := range expected {
		got, err := MrBayesText(model, 1)
		if err != nil {
			tst.Error("Error for", model, err)
			continue
		}
		if got != text {
			tst.Errorf("%s: expected %q, got %q", model, text, got)
		}
	}

	got, _ := MrBayesText("SYM", 3)
	if !strings.Contains(got, "applyto=(3) statefreqpr=fixed(equal)") {
		tst.Error("Wrong partition index:", got)
	}
	if _, err := MrBayesText("BINARY", 1); !errors.Is(err, ErrNoExport) {
		tst.Error("Expected no export error, got", err)
	}
}
