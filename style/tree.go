package style

import (
	"github.com/kestrelweb/corebrowser/css/parser"
	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/tree"
)

// StyledNode mirrors the teacher's styledtree.StyNode: a tree payload
// pairing a DOM node with its resolved ComputedStyle.
type StyledNode struct {
	tree.Node[*StyledNode]

	domNode *dom.Node
	style   ComputedStyle
}

// NewStyledNode creates an unattached styled node for a DOM node.
func NewStyledNode(n *dom.Node, cs ComputedStyle) *tree.Node[*StyledNode] {
	sn := &StyledNode{domNode: n, style: cs}
	sn.Payload = sn
	return &sn.Node
}

// StyledNodeOf extracts the payload from a generic tree node. Safe on nil.
func StyledNodeOf(tn *tree.Node[*StyledNode]) *StyledNode {
	if tn == nil {
		return nil
	}
	return tn.Payload
}

// DOMNode returns the underlying DOM node this styled node mirrors.
func (sn *StyledNode) DOMNode() *dom.Node { return sn.domNode }

// TreeNode returns the underlying generic tree node for this payload.
func (sn *StyledNode) TreeNode() *tree.Node[*StyledNode] {
	if sn == nil {
		return nil
	}
	return &sn.Node
}

// Style returns the resolved ComputedStyle for this node.
func (sn *StyledNode) Style() ComputedStyle { return sn.style }

// BuildTree recurses over doc's element tree building a parallel styled
// tree, applying Resolve at every element (spec §4.4's "For the document
// root, build a parallel styled tree by recursion").
func BuildTree(doc *dom.Document, sheet parser.Stylesheet) *tree.Node[*StyledNode] {
	root := doc.RootElement()
	if root == nil {
		return nil
	}
	return buildNode(root, Default(), sheet.Rules)
}

func buildNode(el *dom.Node, parentStyle ComputedStyle, rules []parser.Rule) *tree.Node[*StyledNode] {
	cs := Resolve(el, parentStyle, rules)
	sn := NewStyledNode(el, cs)
	for _, child := range el.ElementChildren() {
		childNode := buildNode(child, cs, rules)
		sn.AddChild(childNode)
	}
	return sn
}
