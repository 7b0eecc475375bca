package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoExport is returned for a model with no downstream program
// equivalent.
var ErrNoExport = errors.New("models: no export for model")

// Kind is the data type a model applies to.
type Kind int

const (
	DNA Kind = iota
	Protein
	Morphology
)

func (k Kind) String() string {
	switch k {
	case DNA:
		return "DNA"
	case Protein:
		return "protein"
	case Morphology:
		return "morphology"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// split separates the base model name from its "+" suffixes.
func split(model string) (name string, extras map[string]bool) {
	elements := strings.Split(model, "+")
	extras = make(map[string]bool, len(elements)-1)
	for _, e := range elements[1:] {
		extras[e] = true
	}
	return elements[0], extras
}

// KindOf returns the data type of model, judged by its base name.
func KindOf(model string) (Kind, error) {
	name, _ := split(model)
	for _, b := range dnaModels {
		if b.name == name {
			return DNA, nil
		}
	}
	for _, p := range proteinModels {
		if p == name {
			return Protein, nil
		}
	}
	for _, m := range morphologyModels {
		if m == name {
			return Morphology, nil
		}
	}
	return DNA, fmt.Errorf("%w: %s", ErrUnknownModel, model)
}

// RAxMLName returns the model name used in a RAxML partition file.
// Protein models get F or X appended when the frequencies are
// estimated (LG+I+G+F is LGF); rate variation is set for the whole
// RAxML run and is dropped. Morphology models become BIN or MULTI and
// every DNA model is DNA.
func RAxMLName(model string) (string, error) {
	kind, err := KindOf(model)
	if err != nil {
		return "", err
	}
	name, extras := split(model)
	switch kind {
	case Protein:
		switch {
		case extras["F"]:
			return name + "F", nil
		case extras["X"]:
			return name + "X", nil
		}
		return name, nil
	case Morphology:
		if name == "BINARY" {
			return "BIN", nil
		}
		return "MULTI", nil
	}
	return "DNA", nil
}

// mrBayesRates returns the lset rates option for the rate variation
// suffixes.
func mrBayesRates(extras map[string]bool) string {
	switch {
	case extras["I"] && extras["G"]:
		return " rates=invgamma"
	case extras["I"]:
		return " rates=propinv"
	case extras["G"]:
		return " rates=gamma"
	}
	return ""
}

// mrBayesProtein maps protein matrices to MrBayes aamodelpr names.
var mrBayesProtein = map[string]string{
	"BLOSUM62": "blosum",
	"CPREV":    "cprev",
	"DAYHOFF":  "dayhoff",
	"JTT":      "jones",
	"MTMAM":    "mtmam",
	"MTREV":    "mtrev",
	"RTREV":    "rtrev",
	"VT":       "vt",
	"WAG":      "wag",
}

// MrBayesText returns the MrBayes block lines setting model for
// partition i. DNA models MrBayes lacks get nst=6; protein matrices
// MrBayes lacks are replaced by wag.
func MrBayesText(model string, i int) (string, error) {
	kind, err := KindOf(model)
	if err != nil {
		return "", err
	}
	name, extras := split(model)
	rates := mrBayesRates(extras)

	switch kind {
	case DNA:
		nst := 6
		switch name {
		case "HKY", "K80":
			nst = 2
		case "F81", "JC":
			nst = 1
		}
		text := fmt.Sprintf("\tlset applyto=(%d) nst=%d%s;\n", i, nst, rates)
		switch name {
		case "SYM", "K80", "JC":
			text += fmt.Sprintf("prset applyto=(%d) statefreqpr=fixed(equal);\n", i)
		}
		return text, nil
	case Protein:
		aa, ok := mrBayesProtein[name]
		if !ok {
			aa = "wag"
		}
		var text string
		if rates != "" {
			text = fmt.Sprintf("\tlset applyto=(%d)%s;\n", i, rates)
		}
		return text + fmt.Sprintf("\tprset applyto=(%d) aamodelpr=fixed(%s);\n", i, aa), nil
	}
	return "", fmt.Errorf("%w: MrBayes, %s", ErrNoExport, model)
}
