// Package tree reads Newick trees. It is used to get the number of
// taxa and branches a scheme's branch lengths are counted from.
package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var (
	ErrBrackets = errors.New("tree: brackets mismatch")
	ErrComma    = errors.New("tree: top level comma")
	ErrEmpty    = errors.New("tree: empty tree")
)

type mode int

const (
	normal mode = iota
	length
	label
)

// Tree is a rooted view of a Newick tree; Node is its root.
type Tree struct {
	*Node
	nNodes int
}

// Node is a tree node. Leaves have names; internal nodes may.
type Node struct {
	Name         string
	BranchLength float64
	ID           int
	Parent       *Node
	childNodes   []*Node
}

func newNode(id int) *Node {
	return &Node{ID: id}
}

// AddChild appends subNode to the node children.
func (node *Node) AddChild(subNode *Node) {
	subNode.Parent = node
	node.childNodes = append(node.childNodes, subNode)
}

// ChildNodes returns node children.
func (node *Node) ChildNodes() []*Node {
	return node.childNodes
}

func (node *Node) IsRoot() bool {
	return node.Parent == nil
}

func (node *Node) IsTerminal() bool {
	return len(node.childNodes) == 0
}

// NSubNodes returns the number of nodes in the subtree, the node included.
func (node *Node) NSubNodes() (size int) {
	for _, child := range node.childNodes {
		size += child.NSubNodes()
	}
	return size + 1
}

// Walk sends every node accepted by filter to ch in preorder.
func (node *Node) Walk(ch chan *Node, filter func(*Node) bool) {
	if filter == nil || filter(node) {
		ch <- node
	}
	for _, child := range node.childNodes {
		child.Walk(ch, filter)
	}
}

// NNodes returns the number of nodes including the root.
func (tree *Tree) NNodes() int {
	if tree.nNodes == 0 {
		tree.nNodes = tree.NSubNodes()
	}
	return tree.nNodes
}

// Walker returns a closed, buffered channel with all the nodes
// accepted by filter.
func (tree *Tree) Walker(filter func(*Node) bool) <-chan *Node {
	ch := make(chan *Node, tree.NNodes())
	tree.Walk(ch, filter)
	close(ch)
	return ch
}

// Terminals returns the leaves.
func (tree *Tree) Terminals() <-chan *Node {
	return tree.Walker(func(node *Node) bool {
		return node.IsTerminal()
	})
}

// NLeaves returns the number of taxa.
func (tree *Tree) NLeaves() (n int) {
	for range tree.Terminals() {
		n++
	}
	return
}

// IsRooted returns true if the root has exactly two children.
func (tree *Tree) IsRooted() bool {
	return len(tree.childNodes) == 2
}

// NBranches returns the number of branches of the unrooted tree. For
// a binary tree with T taxa this is 2T-3.
func (tree *Tree) NBranches() int {
	n := tree.NNodes() - 1
	if tree.IsRooted() {
		// the two root branches merge when unrooting
		n--
	}
	return n
}

// NBranchesBinary is the number of branches of an unrooted binary
// tree with nTaxa leaves.
func NBranchesBinary(nTaxa int) int {
	return 2*nTaxa - 3
}

func isSpecial(r rune) bool {
	switch r {
	case '(', ')', ':', '#', ';', ',':
		return true
	}
	return false
}

// newickSplit is a bufio.SplitFunc returning special characters as
// one-rune tokens and everything else as words.
func newickSplit(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for width := 0; start < len(data); start += width {
		var r rune
		r, width = utf8.DecodeRune(data[start:])
		if isSpecial(r) {
			return start + width, data[start : start+width], nil
		}
		if !unicode.IsSpace(r) {
			break
		}
	}

	for width, i := 0, start; i < len(data); i += width {
		var r rune
		r, width = utf8.DecodeRune(data[i:])
		if unicode.IsSpace(r) || isSpecial(r) {
			return i, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	if atEOF {
		return len(data), nil, nil
	}
	return start, nil, nil
}

// ParseNewick reads one tree. Branch lengths follow ':'. Branch labels
// following '#' are skipped.
func ParseNewick(rd io.Reader) (*Tree, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Split(newickSplit)

	nodeID := 0
	node := newNode(nodeID)
	tree := &Tree{Node: node}
	nodeID++

	m := normal
	depth := 0
	tokens := 0

	for scanner.Scan() {
		text := scanner.Text()
		tokens++
		switch text {
		case "(":
			subNode := newNode(nodeID)
			nodeID++
			node.AddChild(subNode)
			node = subNode
			depth++
		case ",":
			if node.Parent == nil {
				return nil, ErrComma
			}
			subNode := newNode(nodeID)
			nodeID++
			node.Parent.AddChild(subNode)
			node = subNode
		case ")":
			if node.Parent == nil {
				return nil, ErrBrackets
			}
			node = node.Parent
			depth--
		case "#":
			m = label
		case ":":
			m = length
		case ";":
			return tree.finish(depth, tokens)
		default:
			switch m {
			case length:
				l, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return nil, fmt.Errorf("tree: branch length: %w", err)
				}
				node.BranchLength = l
			case label:
			default:
				node.Name = text
			}
			m = normal
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tree.finish(depth, tokens)
}

// finish checks the brackets and collapses a root with a single child.
func (tree *Tree) finish(depth, tokens int) (*Tree, error) {
	if depth != 0 {
		return nil, ErrBrackets
	}
	if tokens == 0 {
		return nil, ErrEmpty
	}
	if len(tree.childNodes) == 1 {
		root := tree.childNodes[0]
		root.Parent = nil
		tree.Node = root
	}
	return tree, nil
}
