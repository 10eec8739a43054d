// Package tree implements the HTML tree builder of spec §4.2: it consumes
// the token stream produced by htmlparse/token and constructs a dom.Document
// using an open-element stack, following the structure of
// original_source/crates/html_parser/src/parser.rs (insert_node/insert_element/
// handle_end_tag) while building directly on dom.Node/tree.Node instead of
// Arc<RwLock<Node>>.
package tree

import (
	"strings"

	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/htmlparse/token"
	"github.com/kestrelweb/corebrowser/result"
	domtree "github.com/kestrelweb/corebrowser/tree"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("corebrowser.htmltree")
}

// Builder drives the open-element-stack algorithm of spec §4.2.
type Builder struct {
	doc  *dom.Document
	open []*domtree.Node[*dom.Node] // open element stack; open[0] is the document root
}

// NewBuilder creates a builder with an empty document, its root already
// pushed on the open-element stack.
func NewBuilder() *Builder {
	d := dom.NewDocument()
	return &Builder{doc: d, open: []*domtree.Node[*dom.Node]{d.Root()}}
}

// Parse tokenizes and builds src into a Document in one call.
func Parse(src string) result.Result[*dom.Document] {
	toks, err := token.Tokenize(src).Unwrap()
	if err != nil {
		return result.Err[*dom.Document](err)
	}
	tracer().Debugf("building DOM tree from %d tokens", len(toks))
	b := NewBuilder()
	for _, tok := range toks {
		if err := b.process(tok); err != nil {
			return result.Err[*dom.Document](err)
		}
	}
	return result.Ok(b.doc)
}

func (b *Builder) top() *domtree.Node[*dom.Node] {
	return b.open[len(b.open)-1]
}

func (b *Builder) push(n *domtree.Node[*dom.Node]) {
	b.open = append(b.open, n)
}

func (b *Builder) process(tok token.Token) error {
	switch tok.Kind {
	case token.DoctypeToken:
		b.doc.SetDoctype(dom.DocumentType{Name: tok.Name, PublicID: tok.PublicID, SystemID: tok.SystemID})

	case token.StartTagToken:
		b.handleStartTag(tok)

	case token.EndTagToken:
		b.handleEndTag(tok.Name)

	case token.TextToken:
		if tok.Text != "" {
			tn := dom.NewText(tok.Text)
			b.top().AddChild(tn)
		}

	case token.CommentToken:
		cn := dom.NewComment(tok.Text)
		b.top().AddChild(cn)

	case token.EOFToken:
		// nothing to do; open elements left unclosed are simply abandoned,
		// per spec §4.2's error-recovery stance.
	}
	return nil
}

func (b *Builder) handleStartTag(tok token.Token) {
	en := dom.NewElement(tok.Name)
	elem := dom.NodeOf(en)
	for _, a := range tok.Attrs {
		if _, exists := elem.Attrs.Get(a.Name); !exists {
			elem.Attrs.Set(a.Name, a.Value)
		}
	}

	b.top().AddChild(en)

	if tok.SelfClosing || elem.IsVoid() {
		return // never pushed onto the open-element stack
	}
	b.push(en)
}

// handleEndTag implements spec §4.2's case-insensitive scan: search the open
// stack from the top for a matching tag name, and if found pop everything
// above and including it; if not found, the end tag is silently dropped.
func (b *Builder) handleEndTag(name string) {
	name = strings.ToLower(name)
	for i := len(b.open) - 1; i >= 1; i-- {
		n := dom.NodeOf(b.open[i])
		if n != nil && n.Kind == dom.ElementKind && n.Tag == name {
			b.open = b.open[:i]
			return
		}
	}
	// no matching open element: ignore, per original_source's handle_end_tag
}
