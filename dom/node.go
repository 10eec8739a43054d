// Package dom implements the DOM model of spec §3: a closed sum of node
// kinds built on top of the generic tree package, the way the teacher
// repo built styledtree.StyNode on tree.Node[*StyNode].
//
// Parent back-pointers are never stored on the payload itself; tree.Node
// already tracks a parent link internally, and that is the only one we
// rely on. Traversal is top-down from the Document root, per spec §9's
// "cyclic DOM graphs" note.
package dom

import (
	"strings"
	"sync/atomic"

	"github.com/kestrelweb/corebrowser/tree"
)

// NodeKind discriminates the five DOM node variants of spec §3.
type NodeKind uint8

const (
	DocumentKind NodeKind = iota
	DocumentTypeKind
	ElementKind
	TextKind
	CommentKind
)

func (k NodeKind) String() string {
	switch k {
	case DocumentKind:
		return "#document"
	case DocumentTypeKind:
		return "#doctype"
	case ElementKind:
		return "element"
	case TextKind:
		return "#text"
	case CommentKind:
		return "#comment"
	}
	return "#unknown"
}

// VoidElements never accept children and close immediately (spec §3).
var VoidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var nextNodeID uint64

// newID hands out a process-wide monotonically increasing identity (spec
// §3 invariant v, §8 property 1). 0 is never issued, so the zero value of
// a Node can be distinguished from a constructed one.
func newID() uint64 {
	return atomic.AddUint64(&nextNodeID, 1)
}

// DocumentType is the optional doctype record owned by a Document.
type DocumentType struct {
	Name     string
	PublicID string
	SystemID string
}

// Node is the sum-typed building block of the DOM tree. Only the fields
// relevant to Kind are meaningful; this mirrors the teacher's StyNode,
// which also wraps a single generic tree.Node[*Node] payload rather than
// modelling each kind as a distinct Go type.
type Node struct {
	tree.Node[*Node]

	id        uint64
	Kind      NodeKind
	Tag       string // ElementKind: lowercased tag name
	Namespace string // ElementKind: optional namespace
	Attrs     *Attributes
	Data      string        // TextKind/CommentKind: literal content
	Doctype   *DocumentType // DocumentTypeKind
}

// ID returns this node's process-wide unique identity.
func (n *Node) ID() uint64 { return n.id }

func newNode(kind NodeKind) *Node {
	n := &Node{id: newID(), Kind: kind}
	n.Payload = n
	return n
}

// NewElement creates a new, unattached element node. The tag name is
// lowercased per spec §3 invariant i.
func NewElement(tag string) *tree.Node[*Node] {
	n := newNode(ElementKind)
	n.Tag = strings.ToLower(tag)
	n.Attrs = NewAttributes()
	return &n.Node
}

// NewText creates a new, unattached text node.
func NewText(data string) *tree.Node[*Node] {
	n := newNode(TextKind)
	n.Data = data
	return &n.Node
}

// NewComment creates a new, unattached comment node.
func NewComment(data string) *tree.Node[*Node] {
	n := newNode(CommentKind)
	n.Data = data
	return &n.Node
}

// NewDocumentNode creates the root "#document" tree node of a new document.
func NewDocumentNode() *tree.Node[*Node] {
	n := newNode(DocumentKind)
	return &n.Node
}

// NodeOf extracts the DOM payload from a generic tree node. Safe to call
// with nil.
func NodeOf(tn *tree.Node[*Node]) *Node {
	if tn == nil {
		return nil
	}
	return tn.Payload
}

// IsVoid reports whether this element belongs to the void-element set.
func (n *Node) IsVoid() bool {
	return n.Kind == ElementKind && VoidElements[n.Tag]
}

// TreeNode returns the underlying generic tree node for this payload, so
// that callers holding a *Node can still use tree.Node's AddChild/Children/
// Parent API.
func (n *Node) TreeNode() *tree.Node[*Node] {
	if n == nil {
		return nil
	}
	return &n.Node
}

// ElementChildren returns the element children of this node (a node may have text
// and comment children too; use TreeNode().Children(true) for all of them).
func (n *Node) ElementChildren() []*Node {
	kids := n.TreeNode().Children(true)
	out := make([]*Node, 0, len(kids))
	for _, k := range kids {
		if c := NodeOf(k); c != nil && c.Kind == ElementKind {
			out = append(out, c)
		}
	}
	return out
}

// ParentElement returns the nearest ancestor that is an element, or nil.
func (n *Node) ParentElement() *Node {
	p := n.TreeNode().Parent()
	for p != nil {
		if pn := NodeOf(p); pn != nil {
			if pn.Kind == ElementKind {
				return pn
			}
		}
		p = p.Parent()
	}
	return nil
}

// Ancestors returns the chain of ancestor elements, nearest first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	p := n.ParentElement()
	for p != nil {
		out = append(out, p)
		p = p.ParentElement()
	}
	return out
}

// TextContent concatenates the text of this node and all of its descendants,
// in source order (spec §3 "traversal is top-down from the document root").
func (n *Node) TextContent() string {
	var b strings.Builder
	var walk func(tn *tree.Node[*Node])
	walk = func(tn *tree.Node[*Node]) {
		node := NodeOf(tn)
		if node == nil {
			return
		}
		if node.Kind == TextKind {
			b.WriteString(node.Data)
		}
		for _, ch := range tn.Children(true) {
			walk(ch)
		}
	}
	walk(n.TreeNode())
	return b.String()
}
