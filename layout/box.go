// Package layout implements the box-model and flex layout engine of spec
// §4.5: a single bottom-down pass over the styled tree producing resolved
// geometry for every box, grounded on original_source/crates/layout/src/lib.rs
// (block cursor layout, flex two-pass sizing) and built on the same
// tree.Node[T] substrate the teacher uses for its other trees.
package layout

import (
	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/style"
	"github.com/kestrelweb/corebrowser/tree"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("corebrowser.layout")
}

// Rect is an axis-aligned box in viewport pixels.
type Rect struct {
	X, Y, W, H float64
}

// BoxKind discriminates the layout box kinds spec §4.5 lays out
// differently.
type BoxKind uint8

const (
	BoxBlock BoxKind = iota
	BoxInlineBlock
	BoxInline
	BoxText
	BoxFlex
	BoxImage
)

// Box is one laid-out node: its geometry plus a pointer back to the styled
// node (for color/font/border lookups during painting).
type Box struct {
	tree.Node[*Box]

	Kind    BoxKind
	Styled  *style.StyledNode
	Text    string // BoxText content
	ImgSrc  string // BoxImage source URL

	Margin, Border, Padding style.Edges
	Content                 Rect // content-box geometry (post margin/border/padding)
}

// NewBox creates an unattached box.
func NewBox(kind BoxKind, sn *style.StyledNode) *tree.Node[*Box] {
	b := &Box{Kind: kind, Styled: sn}
	b.Payload = b
	return &b.Node
}

// BoxOf extracts the payload from a generic tree node. Safe on nil.
func BoxOf(tn *tree.Node[*Box]) *Box {
	if tn == nil {
		return nil
	}
	return tn.Payload
}

// TreeNode returns the underlying generic tree node for this payload.
func (b *Box) TreeNode() *tree.Node[*Box] {
	if b == nil {
		return nil
	}
	return &b.Node
}

// MarginBoxHeight is the full height this box occupies in its container's
// block-flow cursor (spec §4.5 step (d)): margin + border + padding +
// content.
func (b *Box) MarginBoxHeight() float64 {
	return b.Margin.Top + b.Margin.Bottom + b.Border.Top + b.Border.Bottom +
		b.Padding.Top + b.Padding.Bottom + b.Content.H
}

// BorderBoxRect is the box's border-box extent (content plus padding plus
// border, excluding margin), used by the painter to place the background
// and border rect.
func (b *Box) BorderBoxRect() Rect {
	return Rect{
		X: b.Content.X - b.Padding.Left - b.Border.Left,
		Y: b.Content.Y - b.Padding.Top - b.Border.Top,
		W: b.Padding.Left + b.Padding.Right + b.Border.Left + b.Border.Right + b.Content.W,
		H: b.Padding.Top + b.Padding.Bottom + b.Border.Top + b.Border.Bottom + b.Content.H,
	}
}

// containingBlock is the rectangle a block-level child lays out against:
// spec §4.5's "(0, 0, viewport-width, 0)" initial value, with Cursor as
// the running offset for placing successive siblings.
type containingBlock struct {
	X, Y, W float64
	Cursor  float64 // accumulated content height so far; next child's Y offset
}

// Layout builds the box tree for doc's styled tree against a viewport of
// viewportW x viewportH pixels (spec §4.5's "initial containing block").
func Layout(styled *tree.Node[*style.StyledNode], viewportW, viewportH float64) *tree.Node[*Box] {
	sn := style.StyledNodeOf(styled)
	if sn == nil {
		return nil
	}
	cb := &containingBlock{X: 0, Y: 0, W: viewportW}
	root := layoutNode(styled, cb, viewportW, viewportH)
	tracer().Debugf("laid out box tree against viewport %vx%v", viewportW, viewportH)
	return root
}

// layoutNode dispatches a styled node to the layout routine matching its
// computed display, or nil if display:none drops the subtree (spec §4.5).
func layoutNode(styled *tree.Node[*style.StyledNode], cb *containingBlock, viewportW, viewportH float64) *tree.Node[*Box] {
	sn := style.StyledNodeOf(styled)
	if sn == nil {
		return nil
	}
	cs := sn.Style()
	if cs.Display == style.DisplayNone {
		return nil
	}
	if sn.DOMNode().Tag == "img" {
		return layoutImage(styled, cb)
	}
	switch cs.Display {
	case style.DisplayFlex:
		return layoutFlex(styled, cb, viewportW, viewportH)
	case style.DisplayInline, style.DisplayInlineBlock:
		return layoutBlockLevel(styled, cb, viewportW, viewportH)
	default:
		return layoutBlockLevel(styled, cb, viewportW, viewportH)
	}
}

func resolvedEdges(cs style.ComputedStyle) (margin, border, padding style.Edges) {
	return cs.Margin, cs.BorderWidth, cs.Padding
}

// resolveWidth implements spec §4.5 step (b): explicit width wins, else
// fill the containing block minus horizontal edges, clamped by min/max.
func resolveWidth(cs style.ComputedStyle, cb *containingBlock, horizontalEdges float64) float64 {
	var w float64
	switch {
	case cs.Width.Present:
		w = cs.Width.Value
	case cs.WidthPercent.Present:
		w = cb.W * cs.WidthPercent.Value / 100.0
	default:
		w = cb.W - horizontalEdges
	}
	if cs.MinWidth.Present && w < cs.MinWidth.Value {
		w = cs.MinWidth.Value
	}
	if cs.MaxWidth.Present && w > cs.MaxWidth.Value {
		w = cs.MaxWidth.Value
	}
	if w < 0 {
		w = 0
	}
	return w
}

// layoutBlockLevel implements spec §4.5's Block/InlineBlock algorithm: a
// sequential cursor-based layout of the node's children.
func layoutBlockLevel(styled *tree.Node[*style.StyledNode], cb *containingBlock, viewportW, viewportH float64) *tree.Node[*Box] {
	sn := style.StyledNodeOf(styled)
	cs := sn.Style()
	margin, border, padding := resolvedEdges(cs)

	horizontalEdges := margin.Left + margin.Right + border.Left + border.Right + padding.Left + padding.Right
	contentW := resolveWidth(cs, cb, horizontalEdges)

	x := cb.X + margin.Left + border.Left + padding.Left
	y := cb.Y + cb.Cursor + margin.Top + border.Top + padding.Top

	kind := BoxBlock
	if cs.Display == style.DisplayInlineBlock {
		kind = BoxInlineBlock
	} else if cs.Display == style.DisplayInline {
		kind = BoxInline
	}

	boxTn := NewBox(kind, sn)
	box := BoxOf(boxTn)
	box.Margin, box.Border, box.Padding = margin, border, padding
	box.Content = Rect{X: x, Y: y, W: contentW}

	childCB := &containingBlock{X: x, Y: y, W: contentW}
	el := sn.DOMNode()
	for _, child := range styled.Children(true) {
		childSn := style.StyledNodeOf(child)
		if childSn == nil {
			continue
		}
		childBox := layoutNode(child, childCB, viewportW, viewportH)
		if childBox == nil {
			continue
		}
		boxTn.AddChild(childBox)
		childCB.Cursor += BoxOf(childBox).MarginBoxHeight()
	}
	appendTextChildren(el, boxTn, cs, &childCB.Cursor, x, y)

	if cs.Height.Present {
		box.Content.H = cs.Height.Value
	} else if cs.HeightPercent.Present && cb.W > 0 {
		box.Content.H = cb.W * cs.HeightPercent.Value / 100.0
	} else {
		box.Content.H = childCB.Cursor
	}
	if cs.MinHeight.Present && box.Content.H < cs.MinHeight.Value {
		box.Content.H = cs.MinHeight.Value
	}
	if cs.MaxHeight.Present && box.Content.H > cs.MaxHeight.Value {
		box.Content.H = cs.MaxHeight.Value
	}
	return boxTn
}

// appendTextChildren lays out the element's direct text-node children as
// single-run inline text boxes (spec §4.5's Inline/Text rule: width =
// char-count * font-size*0.6, height = font-size * line-height).
func appendTextChildren(el *dom.Node, parent *tree.Node[*Box], cs style.ComputedStyle, cursor *float64, x, y float64) {
	for _, ch := range el.TreeNode().Children(true) {
		dn := dom.NodeOf(ch)
		if dn == nil || dn.Kind != dom.TextKind {
			continue
		}
		text := dn.Data
		if text == "" {
			continue
		}
		w := float64(len([]rune(text))) * cs.FontSize * 0.6
		h := cs.FontSize * cs.LineHeight

		tb := NewBox(BoxText, parentStyled(parent))
		box := BoxOf(tb)
		box.Text = text
		box.Content = Rect{X: x, Y: y + *cursor, W: w, H: h}
		parent.AddChild(tb)
		*cursor += h
	}
}

// parentStyled recovers the StyledNode embedded in a box's own tree node
// payload reference chain; boxes created for text carry their enclosing
// element's StyledNode so the painter can read color/font off of it.
func parentStyled(boxTn *tree.Node[*Box]) *style.StyledNode {
	b := BoxOf(boxTn)
	if b == nil {
		return nil
	}
	return b.Styled
}

// layoutImage implements spec §4.5's Image rule: explicit width/height win,
// else intrinsic dimensions (not tracked pre-decode in this engine), else a
// 100x100 default.
func layoutImage(styled *tree.Node[*style.StyledNode], cb *containingBlock) *tree.Node[*Box] {
	sn := style.StyledNodeOf(styled)
	cs := sn.Style()
	margin, border, padding := resolvedEdges(cs)

	w := 100.0
	h := 100.0
	if cs.Width.Present {
		w = cs.Width.Value
	}
	if cs.Height.Present {
		h = cs.Height.Value
	}

	x := cb.X + margin.Left + border.Left + padding.Left
	y := cb.Y + cb.Cursor + margin.Top + border.Top + padding.Top

	src, _ := sn.DOMNode().Attrs.Get("src")

	boxTn := NewBox(BoxImage, sn)
	box := BoxOf(boxTn)
	box.Margin, box.Border, box.Padding = margin, border, padding
	box.Content = Rect{X: x, Y: y, W: w, H: h}
	box.ImgSrc = src
	return boxTn
}
