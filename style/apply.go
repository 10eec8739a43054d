package style

import (
	"strings"

	"github.com/kestrelweb/corebrowser/css/parser"
)

// resolveLength converts a CSS length Value to pixels (spec §4.4's closing
// paragraph): em/percent-for-font-size relative to the parent font size,
// rem fixed at 16, print units via fixed factors, vh/vw via the viewport.
// containingBlock is the dimension percentages resolve against for
// non-font-size properties; it is 0 when no containing dimension applies
// yet (the caller then leaves the percentage unresolved).
func resolveLength(v parser.Value, parentFontSize, containingBlock, viewportW, viewportH float64, forFontSize bool) (float64, bool) {
	switch v.Kind {
	case parser.ValLength:
		return lengthToPx(v.Num, v.Unit, parentFontSize, viewportW, viewportH), true
	case parser.ValPercentage:
		if forFontSize {
			return parentFontSize * v.Num / 100.0, true
		}
		if containingBlock <= 0 {
			return 0, false
		}
		return containingBlock * v.Num / 100.0, true
	case parser.ValNumber:
		return v.Num, true
	}
	return 0, false
}

func lengthToPx(value float64, unit string, parentFontSize, viewportW, viewportH float64) float64 {
	switch strings.ToLower(unit) {
	case "px":
		return value
	case "em":
		return value * parentFontSize
	case "rem":
		return value * 16
	case "pt":
		return value * 1.333
	case "cm":
		return value * 37.795
	case "mm":
		return value * 3.7795
	case "in":
		return value * 96
	case "vh":
		return value / 100.0 * viewportH
	case "vw":
		return value / 100.0 * viewportW
	case "ch", "ex":
		return value * parentFontSize * 0.5
	default:
		return value
	}
}

// applyDeclaration mutates cs in place for one matched declaration. Unknown
// properties are silently ignored (spec §7: "the cascade simply leaves the
// default in place"). For justify-content, align-items, flex-wrap,
// border-style, text-align, text-decoration and overflow, an unrecognized
// keyword sets the property's initial value instead of being ignored.
func applyDeclaration(cs *ComputedStyle, d parser.Declaration, parent ComputedStyle) {
	v := d.Value
	px := func(forFontSize bool) (float64, bool) {
		return resolveLength(v, parent.FontSize, 0, 0, 0, forFontSize)
	}

	switch d.Property {
	case "display":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "none":
				cs.Display = DisplayNone
			case "inline":
				cs.Display = DisplayInline
			case "inline-block":
				cs.Display = DisplayInlineBlock
			case "flex":
				cs.Display = DisplayFlex
			case "block":
				cs.Display = DisplayBlock
			}
		}
	case "position":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "static":
				cs.Position = PositionStatic
			case "relative":
				cs.Position = PositionRelative
			case "absolute":
				cs.Position = PositionAbsolute
			case "fixed":
				cs.Position = PositionFixed
			}
		}
	case "flex-direction":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "row":
				cs.FlexDirection = FlexRow
			case "row-reverse":
				cs.FlexDirection = FlexRowReverse
			case "column":
				cs.FlexDirection = FlexColumn
			case "column-reverse":
				cs.FlexDirection = FlexColumnReverse
			}
		}
	case "flex-wrap":
		if kw, ok := keyword(v); ok {
			if kw == "wrap" {
				cs.FlexWrap = Wrap
			} else {
				cs.FlexWrap = NoWrap
			}
		}
	case "justify-content":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "flex-end", "end":
				cs.Justify = JustifyEnd
			case "center":
				cs.Justify = JustifyCenter
			case "space-between":
				cs.Justify = JustifySpaceBetween
			case "space-around":
				cs.Justify = JustifySpaceAround
			default:
				cs.Justify = JustifyStart
			}
		}
	case "align-items":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "flex-start", "start":
				cs.AlignItems = AlignStart
			case "flex-end", "end":
				cs.AlignItems = AlignEnd
			case "center":
				cs.AlignItems = AlignCenter
			case "baseline":
				cs.AlignItems = AlignStart
			default:
				cs.AlignItems = AlignStretch
			}
		}
	case "flex-grow":
		if n, ok := number(v); ok {
			cs.FlexGrow = n
		}
	case "flex-shrink":
		if n, ok := number(v); ok {
			cs.FlexShrink = n
		}
	case "flex-basis":
		if n, ok := px(false); ok {
			cs.FlexBasis = PxOf(n)
		}
	case "gap":
		if n, ok := px(false); ok {
			cs.Gap = n
		}
	case "width":
		setSize(&cs.Width, &cs.WidthPercent, v, parent.FontSize)
	case "height":
		setSize(&cs.Height, &cs.HeightPercent, v, parent.FontSize)
	case "min-width":
		setSize(&cs.MinWidth, &cs.MinWidthPercent, v, parent.FontSize)
	case "min-height":
		setSize(&cs.MinHeight, &cs.MinHeightPercent, v, parent.FontSize)
	case "max-width":
		setSize(&cs.MaxWidth, &cs.MaxWidthPercent, v, parent.FontSize)
	case "max-height":
		setSize(&cs.MaxHeight, &cs.MaxHeightPercent, v, parent.FontSize)
	case "top":
		setPx(&cs.Top, px(false))
	case "right":
		setPx(&cs.Right, px(false))
	case "bottom":
		setPx(&cs.Bottom, px(false))
	case "left":
		setPx(&cs.Left, px(false))

	case "margin":
		applyEdgeShorthand(&cs.Margin, v, parent.FontSize)
	case "margin-top":
		if n, ok := px(false); ok {
			cs.Margin.Top = n
		}
	case "margin-right":
		if n, ok := px(false); ok {
			cs.Margin.Right = n
		}
	case "margin-bottom":
		if n, ok := px(false); ok {
			cs.Margin.Bottom = n
		}
	case "margin-left":
		if n, ok := px(false); ok {
			cs.Margin.Left = n
		}
	case "padding":
		applyEdgeShorthand(&cs.Padding, v, parent.FontSize)
	case "padding-top":
		if n, ok := px(false); ok {
			cs.Padding.Top = n
		}
	case "padding-right":
		if n, ok := px(false); ok {
			cs.Padding.Right = n
		}
	case "padding-bottom":
		if n, ok := px(false); ok {
			cs.Padding.Bottom = n
		}
	case "padding-left":
		if n, ok := px(false); ok {
			cs.Padding.Left = n
		}

	case "border-width":
		if n, ok := px(false); ok {
			cs.BorderWidth = Edges{n, n, n, n}
		}
	case "border-color":
		if c, ok := color(v); ok {
			cs.BorderColor = c
		}
	case "border-style":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "solid":
				cs.BorderStyle = BorderSolid
			case "dashed":
				cs.BorderStyle = BorderDashed
			case "dotted":
				cs.BorderStyle = BorderDotted
			default:
				cs.BorderStyle = BorderNone
			}
		}
	case "border-radius":
		if n, ok := px(false); ok {
			cs.BorderRadius = n
		}
	case "border":
		applyBorderShorthand(cs, v, parent.FontSize)

	case "color":
		if c, ok := color(v); ok {
			cs.Color = c
		}
	case "background-color", "background":
		if c, ok := color(v); ok {
			cs.BackgroundColor = c
		}
		if v.Kind == parser.ValURL {
			cs.BackgroundImage = v.Str
		}
	case "background-image":
		if v.Kind == parser.ValURL {
			cs.BackgroundImage = v.Str
		} else if v.Kind == parser.ValFunction && v.FuncName == "url" && len(v.Args) > 0 {
			cs.BackgroundImage = v.Args[0].Str
		}

	case "font-size":
		if n, ok := px(true); ok {
			cs.FontSize = n
		}
	case "font-family":
		if kw, ok := keyword(v); ok {
			cs.FontFamily = kw
		} else if v.Kind == parser.ValString {
			cs.FontFamily = v.Str
		}
	case "font-weight":
		if n, ok := number(v); ok {
			cs.FontWeight = int(n)
		} else if kw, ok := keyword(v); ok {
			if kw == "bold" {
				cs.FontWeight = 700
			} else if kw == "normal" {
				cs.FontWeight = 400
			}
		}
	case "font-style":
		if kw, ok := keyword(v); ok {
			cs.Italic = kw == "italic" || kw == "oblique"
		}
	case "line-height":
		if n, ok := number(v); ok {
			cs.LineHeight = n
		} else if n, ok := px(false); ok {
			cs.LineHeight = n / cs.FontSize
		}

	case "text-align":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "right":
				cs.TextAlign = TextAlignRight
			case "center":
				cs.TextAlign = TextAlignCenter
			case "justify":
				cs.TextAlign = TextAlignJustify
			default:
				cs.TextAlign = TextAlignLeft
			}
		}
	case "text-decoration":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "underline":
				cs.TextDecoration = DecorationUnderline
			case "line-through":
				cs.TextDecoration = DecorationLineThrough
			default:
				cs.TextDecoration = DecorationNone
			}
		}
	case "letter-spacing":
		if n, ok := px(false); ok {
			cs.LetterSpacing = n
		}
	case "overflow":
		if kw, ok := keyword(v); ok {
			switch kw {
			case "hidden":
				cs.Overflow = OverflowHidden
			case "scroll", "auto":
				cs.Overflow = OverflowScroll
			default:
				cs.Overflow = OverflowVisible
			}
		}
	case "opacity":
		if n, ok := number(v); ok {
			cs.Opacity = n
		}
	case "z-index":
		if n, ok := number(v); ok {
			cs.ZIndex = int(n)
		}
	case "visibility":
		if kw, ok := keyword(v); ok {
			cs.Visibility = kw != "hidden"
		}
	case "cursor":
		if kw, ok := keyword(v); ok {
			cs.Cursor = kw
		}
	case "list-style", "list-style-type":
		if kw, ok := keyword(v); ok {
			cs.ListStyle = kw
		}
	}
}

func setPx(field *Px, n float64, ok bool) {
	if ok {
		*field = PxOf(n)
	}
}

// setSize resolves a width/height-like property: absolute lengths go into
// abs, percentages are deferred into pct for the layout engine to resolve
// against the containing block.
func setSize(abs, pct *Px, v parser.Value, parentFontSize float64) {
	switch v.Kind {
	case parser.ValLength:
		*abs = PxOf(lengthToPx(v.Num, v.Unit, parentFontSize, 0, 0))
		*pct = Px{}
	case parser.ValNumber:
		*abs = PxOf(v.Num)
		*pct = Px{}
	case parser.ValPercentage:
		*pct = PxOf(v.Num)
		*abs = Px{}
	}
}

func keyword(v parser.Value) (string, bool) {
	if v.Kind == parser.ValKeyword {
		return strings.ToLower(v.Keyword), true
	}
	return "", false
}

func number(v parser.Value) (float64, bool) {
	if v.Kind == parser.ValNumber {
		return v.Num, true
	}
	return 0, false
}

func color(v parser.Value) (parser.Color, bool) {
	if v.Kind == parser.ValColor {
		return v.Color, true
	}
	if v.Kind == parser.ValKeyword {
		return parser.ParseColor(v.Keyword)
	}
	return parser.Color{}, false
}

// applyEdgeShorthand implements the standard 1/2/3/4-value CSS shorthand
// expansion for margin/padding.
func applyEdgeShorthand(e *Edges, v parser.Value, fontSize float64) {
	var vals []parser.Value
	if v.Kind == parser.ValList {
		vals = v.List
	} else {
		vals = []parser.Value{v}
	}
	px := func(val parser.Value) float64 {
		n, _ := resolveLength(val, fontSize, 0, 0, 0, false)
		return n
	}
	switch len(vals) {
	case 1:
		n := px(vals[0])
		e.Top, e.Right, e.Bottom, e.Left = n, n, n, n
	case 2:
		v0, h0 := px(vals[0]), px(vals[1])
		e.Top, e.Bottom = v0, v0
		e.Right, e.Left = h0, h0
	case 3:
		e.Top, e.Bottom = px(vals[0]), px(vals[2])
		e.Right, e.Left = px(vals[1]), px(vals[1])
	case 4:
		e.Top, e.Right, e.Bottom, e.Left = px(vals[0]), px(vals[1]), px(vals[2]), px(vals[3])
	}
}

// applyBorderShorthand handles `border: <width> <style> <color>` in any
// order, the common subset authors actually write.
func applyBorderShorthand(cs *ComputedStyle, v parser.Value, fontSize float64) {
	var vals []parser.Value
	if v.Kind == parser.ValList {
		vals = v.List
	} else {
		vals = []parser.Value{v}
	}
	for _, val := range vals {
		switch val.Kind {
		case parser.ValLength, parser.ValNumber:
			n, _ := resolveLength(val, fontSize, 0, 0, 0, false)
			cs.BorderWidth = Edges{n, n, n, n}
		case parser.ValColor:
			cs.BorderColor = val.Color
		case parser.ValKeyword:
			switch strings.ToLower(val.Keyword) {
			case "solid":
				cs.BorderStyle = BorderSolid
			case "dashed":
				cs.BorderStyle = BorderDashed
			case "dotted":
				cs.BorderStyle = BorderDotted
			case "none":
				cs.BorderStyle = BorderNone
			default:
				if c, ok := parser.ParseColor(val.Keyword); ok {
					cs.BorderColor = c
				}
			}
		}
	}
}
