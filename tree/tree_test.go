package tree

import (
	"bytes"
	"errors"
	"testing"
)

const (
	tree1 = "((((a001:0.242690,a002:0.268555)#1:0.073424,a003:0.252510):0.198740,((((((a004:0.001000,a005:0.014869):0.045007,a006:0.050606):0.056908,a007:0.166439):0.023217,a008:0.094788):0.429852,a009:0.558116):0.130317,(a010:0.009332,a011:0.024271):0.315124):0.217376):0.464470,a012:0.144369):0.0;"
	tree2 = "((a:1,b:2)#1:3,c:1):0;"
	tree3 = "(a:1,b:2,(c:1,d:1):0.5);"
)

func TestParse(tst *testing.T) {
	t, err := ParseNewick(bytes.NewBufferString(tree2))
	if err != nil {
		tst.Fatal("Error parsing tree", err)
	}
	if t.NLeaves() != 3 {
		tst.Error("Expected 3 leaves, got", t.NLeaves())
	}
	if !t.IsRooted() {
		tst.Error("Tree should be rooted")
	}
	if t.NBranches() != 3 {
		tst.Error("Expected 3 branches, got", t.NBranches())
	}

	for node := range t.Walker(nil) {
		if node.IsTerminal() && node.Name == "" {
			tst.Error("Leaf without a name")
		}
		if !node.IsTerminal() && node.Name != "" {
			tst.Error("Branch label taken as a node name:", node.Name)
		}
		if node.Name == "a" && node.BranchLength != 1 {
			tst.Error("Wrong branch length of a:", node.BranchLength)
		}
	}
}

func TestBranches(tst *testing.T) {
	for _, s := range []string{tree1, tree2, tree3} {
		t, err := ParseNewick(bytes.NewBufferString(s))
		if err != nil {
			tst.Fatal("Error parsing tree", err)
		}
		if t.NBranches() != NBranchesBinary(t.NLeaves()) {
			tst.Errorf("%d branches for %d leaves", t.NBranches(), t.NLeaves())
		}
	}
}

func TestUnrooted(tst *testing.T) {
	t, err := ParseNewick(bytes.NewBufferString(tree3))
	if err != nil {
		tst.Fatal("Error parsing tree", err)
	}
	if t.IsRooted() {
		tst.Error("Tree should be unrooted")
	}
	if t.NLeaves() != 4 || t.NBranches() != 5 {
		tst.Error("Wrong leaves/branches:", t.NLeaves(), t.NBranches())
	}
}

func TestLargeTree(tst *testing.T) {
	t, err := ParseNewick(bytes.NewBufferString(tree1))
	if err != nil {
		tst.Fatal("Error parsing tree", err)
	}
	if t.NLeaves() != 12 {
		tst.Error("Expected 12 leaves, got", t.NLeaves())
	}
	if t.NNodes() != 23 {
		tst.Error("Expected 23 nodes, got", t.NNodes())
	}
}

func TestParseErrors(tst *testing.T) {
	bad := map[string]error{
		"((a,b),c;": ErrBrackets,
		"(a,b));":   ErrBrackets,
		"a,b;":      ErrComma,
		"  ":        ErrEmpty,
	}
	for s, expected := range bad {
		_, err := ParseNewick(bytes.NewBufferString(s))
		if !errors.Is(err, expected) {
			tst.Errorf("%q: expected %v, got %v", s, expected, err)
		}
	}

	_, err := ParseNewick(bytes.NewBufferString("(a:x,b:1);"))
	if err == nil {
		tst.Error("Expected branch length error")
	}
}
