// Package style implements the dense ComputedStyle record and cascade
// engine of spec §4.4 and §3. The styled tree mirrors the teacher's
// dom/styledtree.StyNode — a payload wrapping tree.Node[*StyledNode] that
// carries both a DOM node pointer and its computed style — but ComputedStyle
// itself is a flat struct (spec §3 calls for a "dense record of
// painter-ready properties"), not the teacher's PropertyGroup/PropertyMap
// sparse map-with-inheritance-by-walking-ancestors.
package style

import (
	"github.com/kestrelweb/corebrowser/css/parser"
)

// Display is the outer/inner display mode of spec §4.4.
type Display uint8

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayInlineBlock
	DisplayFlex
	DisplayNone
)

type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
)

type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexRowReverse
	FlexColumn
	FlexColumnReverse
)

type FlexWrap uint8

const (
	NoWrap FlexWrap = iota
	Wrap
)

type JustifyContent uint8

const (
	JustifyStart JustifyContent = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
)

type AlignItems uint8

const (
	AlignStretch AlignItems = iota
	AlignStart
	AlignEnd
	AlignCenter
)

type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignRight
	TextAlignCenter
	TextAlignJustify
)

type TextDecoration uint8

const (
	DecorationNone TextDecoration = iota
	DecorationUnderline
	DecorationLineThrough
)

type BorderStyleKind uint8

const (
	BorderNone BorderStyleKind = iota
	BorderSolid
	BorderDashed
	BorderDotted
)

type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

// Px is an optional resolved pixel length: present tracks whether the
// author actually specified a value (spec §3 "optional absolute pixels").
type Px struct {
	Value   float64
	Present bool
}

func PxOf(v float64) Px { return Px{Value: v, Present: true} }

// Edges is a per-side box of resolved pixel lengths (margin/padding/border).
type Edges struct {
	Top, Right, Bottom, Left float64
}

// ComputedStyle is the dense, painter-ready record spec §3/§4.4 describes.
// Fields not explicitly set by any matching rule hold the tag's browser
// default, or are inherited from the parent where spec §4.4 step 1 says so.
type ComputedStyle struct {
	Display Display
	Position Position

	FlexDirection FlexDirection
	FlexWrap      FlexWrap
	Justify       JustifyContent
	AlignItems    AlignItems
	FlexGrow      float64
	FlexShrink    float64
	FlexBasis     Px
	Gap           float64

	// Width/Height etc. hold an already-resolved absolute pixel length when
	// the author wrote one; WidthPercent etc. hold a pending percentage
	// (resolved against the containing block's dimension during layout,
	// spec §4.5, since the containing block size isn't known at cascade
	// time). At most one of the pair is Present for a given box.
	Width, Height       Px
	MinWidth, MinHeight Px
	MaxWidth, MaxHeight Px
	WidthPercent, HeightPercent       Px
	MinWidthPercent, MinHeightPercent Px
	MaxWidthPercent, MaxHeightPercent Px

	Margin, Padding Edges
	BorderWidth     Edges
	BorderStyle     BorderStyleKind
	BorderColor     parser.Color
	BorderRadius    float64

	Color           parser.Color
	BackgroundColor parser.Color
	BackgroundImage string

	FontSize   float64
	FontFamily string
	FontWeight int
	Italic     bool
	LineHeight float64

	TextAlign      TextAlign
	TextDecoration TextDecoration
	LetterSpacing  float64

	Overflow   Overflow
	Opacity    float64
	ZIndex     int
	Visibility bool
	Cursor     string
	ListStyle  string

	Top, Right, Bottom, Left Px // position offsets
}

// Default returns the UA-stylesheet baseline used before any rule applies:
// spec §4.4 step 1's "browser default" starting point for the root.
func Default() ComputedStyle {
	return ComputedStyle{
		Display:    DisplayBlock,
		Position:   PositionStatic,
		FlexGrow:   0,
		FlexShrink: 1,
		FlexBasis:  Px{},
		Color:      parser.Color{R: 0, G: 0, B: 0, A: 255},
		FontSize:   16,
		FontFamily: "sans-serif",
		FontWeight: 400,
		LineHeight: 1.2,
		Opacity:    1,
		Visibility: true,
		TextAlign:  TextAlignLeft,
	}
}

// inheritFrom copies the fixed subset of inheritable properties from parent
// (spec §4.4 step 1: "color, font size/family/weight, line-height,
// text-align, visibility").
func inheritFrom(parent ComputedStyle) ComputedStyle {
	cs := Default()
	cs.Color = parent.Color
	cs.FontSize = parent.FontSize
	cs.FontFamily = parent.FontFamily
	cs.FontWeight = parent.FontWeight
	cs.LineHeight = parent.LineHeight
	cs.TextAlign = parent.TextAlign
	cs.Visibility = parent.Visibility
	return cs
}
