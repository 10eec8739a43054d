package dom

import (
	"github.com/kestrelweb/corebrowser/maybe"
	"github.com/kestrelweb/corebrowser/tree"
)

// Document is the top-level container described in spec §3: an optional
// DocumentType, a root element (usually <html>), a title and a base URL.
// The #document tree node (Kind == DocumentKind) is the actual tree root;
// Document is a thin handle around it plus the convenience fields spec §3
// calls out by name.
type Document struct {
	root    *tree.Node[*Node]
	Doctype maybe.Maybe[DocumentType]
	Title   string
	BaseURL string
}

// NewDocument creates an empty document with a fresh "#document" root.
func NewDocument() *Document {
	return &Document{
		root:    NewDocumentNode(),
		Doctype: maybe.Nothing[DocumentType](),
	}
}

// Root returns the #document tree node.
func (d *Document) Root() *tree.Node[*Node] {
	return d.root
}

// RootElement returns the document's root element (conventionally <html>),
// or nil if none has been installed yet.
func (d *Document) RootElement() *Node {
	for _, ch := range d.root.Children(true) {
		if n := NodeOf(ch); n != nil && n.Kind == ElementKind {
			return n
		}
	}
	return nil
}

// SetDoctype records the parsed <!DOCTYPE ...> declaration.
func (d *Document) SetDoctype(dt DocumentType) {
	d.Doctype = maybe.Just(dt)
}

// Find returns the first element (in document order) for which pred
// returns true, or nil.
func (d *Document) Find(pred func(*Node) bool) *Node {
	var found *Node
	var walk func(tn *tree.Node[*Node]) bool
	walk = func(tn *tree.Node[*Node]) bool {
		n := NodeOf(tn)
		if n != nil && n.Kind == ElementKind && pred(n) {
			found = n
			return true
		}
		for _, ch := range tn.Children(true) {
			if walk(ch) {
				return true
			}
		}
		return false
	}
	walk(d.root)
	return found
}

// FindAll returns every element (in document order) for which pred returns
// true.
func (d *Document) FindAll(pred func(*Node) bool) []*Node {
	var found []*Node
	var walk func(tn *tree.Node[*Node])
	walk = func(tn *tree.Node[*Node]) {
		n := NodeOf(tn)
		if n != nil && n.Kind == ElementKind && pred(n) {
			found = append(found, n)
		}
		for _, ch := range tn.Children(true) {
			walk(ch)
		}
	}
	walk(d.root)
	return found
}

// GetElementByID is the canonical DOM lookup, used by js/host's
// document.getElementById.
func (d *Document) GetElementByID(id string) *Node {
	return d.Find(func(n *Node) bool {
		v, ok := n.Attrs.Get("id")
		return ok && v == id
	})
}

// ElementsByTagName returns every element with the given (lowercased) tag
// name, in document order.
func (d *Document) ElementsByTagName(tag string) []*Node {
	return d.FindAll(func(n *Node) bool { return n.Tag == tag })
}
