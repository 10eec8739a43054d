// Package paint implements the display-list builder and software renderer
// of spec §4.6, grounded on
// original_source/crates/render/src/lib.rs (DisplayCommand enum,
// background/border/content emission order, alpha compositing formula,
// bitmap glyph approximation, Bresenham line drawing).
package paint

import (
	"github.com/kestrelweb/corebrowser/css/parser"
	"github.com/kestrelweb/corebrowser/layout"
	"github.com/kestrelweb/corebrowser/style"
	"github.com/kestrelweb/corebrowser/tree"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("corebrowser.paint")
}

// Color is an RGBA pixel color.
type Color struct {
	R, G, B, A uint8
}

func colorFrom(c parser.Color) Color { return Color{c.R, c.G, c.B, c.A} }

// ToU32 packs the color as 0x00RRGGBB, discarding alpha (spec §4.6's
// "packed 0x00RRGGBB pixel buffer").
func (c Color) ToU32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// BlendOver alpha-composites c (foreground) over bg using the standard
// "over" operator: out = fg*a + bg*(1-a).
func (c Color) BlendOver(bg Color) Color {
	if c.A == 255 {
		return c
	}
	if c.A == 0 {
		return bg
	}
	fgA := float64(c.A) / 255.0
	bgA := float64(bg.A) / 255.0
	outA := fgA + bgA*(1-fgA)
	if outA == 0 {
		return Color{}
	}
	r := uint8((float64(c.R)*fgA + float64(bg.R)*bgA*(1-fgA)) / outA)
	g := uint8((float64(c.G)*fgA + float64(bg.G)*bgA*(1-fgA)) / outA)
	b := uint8((float64(c.B)*fgA + float64(bg.B)*bgA*(1-fgA)) / outA)
	a := uint8(outA * 255.0)
	return Color{r, g, b, a}
}

// Rect is a paint-space rectangle, aliasing layout.Rect so commands can be
// built straight from box geometry.
type Rect = layout.Rect

// CommandKind discriminates the display commands of spec §4.6.
type CommandKind uint8

const (
	CmdSolidColor CommandKind = iota
	CmdRoundedRect
	CmdBorder
	CmdText
	CmdImage
	CmdLine
)

// EdgeWidths carries per-side border widths for a Border command.
type EdgeWidths struct {
	Top, Right, Bottom, Left float64
}

// Command is one paint operation. Only the fields relevant to Kind are
// populated.
type Command struct {
	Kind CommandKind

	Rect   Rect
	Color  Color
	Radius float64

	Border EdgeWidths

	Text       string
	FontSize   float64
	FontWeight int
	Underline  bool
	X, Y       float64

	ImgData          []byte
	ImgW, ImgH       int

	X1, Y1, X2, Y2 float64
	LineWidth      float64
}

// DisplayList is an ordered sequence of paint commands.
type DisplayList struct {
	Commands []Command
}

func (dl *DisplayList) push(c Command) { dl.Commands = append(dl.Commands, c) }

// BuildDisplayList walks the box tree root-first, emitting
// background -> borders -> content per box (spec §4.6's paint order),
// then recurses into children.
func BuildDisplayList(root *tree.Node[*layout.Box], fetchImage func(src string) (data []byte, w, h int)) *DisplayList {
	dl := &DisplayList{}
	if root != nil {
		paintBox(dl, root, fetchImage)
	}
	tracer().Debugf("built display list with %d commands", len(dl.Commands))
	return dl
}

func paintBox(dl *DisplayList, boxTn *tree.Node[*layout.Box], fetchImage func(string) ([]byte, int, int)) {
	b := layout.BoxOf(boxTn)
	if b == nil {
		return
	}
	paintBackground(dl, b)
	paintBorder(dl, b)
	paintContent(dl, b, fetchImage)
	for _, child := range boxTn.Children(true) {
		paintBox(dl, child, fetchImage)
	}
}

func paintBackground(dl *DisplayList, b *layout.Box) {
	sn := b.Styled
	if sn == nil {
		return
	}
	cs := sn.Style()
	c := colorFrom(cs.BackgroundColor)
	if c.A == 0 {
		return
	}
	rect := b.BorderBoxRect()
	if cs.BorderRadius > 0 {
		dl.push(Command{Kind: CmdRoundedRect, Rect: rect, Color: c, Radius: cs.BorderRadius})
	} else {
		dl.push(Command{Kind: CmdSolidColor, Rect: rect, Color: c})
	}
}

func paintBorder(dl *DisplayList, b *layout.Box) {
	sn := b.Styled
	if sn == nil {
		return
	}
	cs := sn.Style()
	hasBorder := b.Border.Top > 0 || b.Border.Right > 0 || b.Border.Bottom > 0 || b.Border.Left > 0
	if !hasBorder || cs.BorderStyle == style.BorderNone {
		return
	}
	dl.push(Command{
		Kind:   CmdBorder,
		Rect:   b.BorderBoxRect(),
		Color:  colorFrom(cs.BorderColor),
		Border: EdgeWidths{b.Border.Top, b.Border.Right, b.Border.Bottom, b.Border.Left},
		Radius: cs.BorderRadius,
	})
}

func paintContent(dl *DisplayList, b *layout.Box, fetchImage func(string) ([]byte, int, int)) {
	if b.Kind == layout.BoxText && b.Text != "" {
		sn := b.Styled
		cs := style.Default()
		if sn != nil {
			cs = sn.Style()
		}
		dl.push(Command{
			Kind:       CmdText,
			Text:       b.Text,
			X:          b.Content.X,
			Y:          b.Content.Y,
			Color:      colorFrom(cs.Color),
			FontSize:   cs.FontSize,
			FontWeight: cs.FontWeight,
			Underline:  cs.TextDecoration == style.DecorationUnderline,
		})
	}
	if b.Kind == layout.BoxImage {
		var data []byte
		w, h := int(b.Content.W), int(b.Content.H)
		if fetchImage != nil {
			data, w, h = fetchImage(b.ImgSrc)
		}
		dl.push(Command{Kind: CmdImage, Rect: b.Content, ImgData: data, ImgW: w, ImgH: h})
	}
}
