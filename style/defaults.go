package style

import "github.com/kestrelweb/corebrowser/css/parser"

// tagDefault applies the browser's built-in presentational hints for a tag
// (spec §4.4 step 2), the Go equivalent of the teacher's
// dom/style/defaults.go UA-stylesheet table.
func tagDefault(tag string, cs *ComputedStyle) {
	switch tag {
	case "html", "body", "div", "section", "article", "header", "footer",
		"main", "nav", "aside", "figure", "figcaption", "form",
		"fieldset", "address", "hr":
		cs.Display = DisplayBlock
	case "p", "blockquote":
		cs.Display = DisplayBlock
		cs.Margin.Top, cs.Margin.Bottom = 16, 16
	case "h1":
		cs.Display, cs.FontSize, cs.FontWeight = DisplayBlock, 32, 700
	case "h2":
		cs.Display, cs.FontSize, cs.FontWeight = DisplayBlock, 24, 700
	case "h3":
		cs.Display, cs.FontSize, cs.FontWeight = DisplayBlock, 18.72, 700
	case "h4":
		cs.Display, cs.FontSize, cs.FontWeight = DisplayBlock, 16, 700
	case "h5":
		cs.Display, cs.FontSize, cs.FontWeight = DisplayBlock, 13.28, 700
	case "h6":
		cs.Display, cs.FontSize, cs.FontWeight = DisplayBlock, 10.72, 700
	case "ul", "ol":
		cs.Display = DisplayBlock
		cs.Padding.Left = 40
		cs.ListStyle = "disc"
	case "li":
		cs.Display = DisplayBlock
	case "a":
		cs.Display = DisplayInline
		cs.Color = blue
		cs.TextDecoration = DecorationUnderline
		cs.Cursor = "pointer"
	case "strong", "b":
		cs.Display, cs.FontWeight = DisplayInline, 700
	case "em", "i":
		cs.Display, cs.Italic = DisplayInline, true
	case "span", "label", "small", "code", "abbr", "time", "sub", "sup":
		cs.Display = DisplayInline
	case "img":
		cs.Display = DisplayInlineBlock
	case "input", "button", "select", "textarea":
		cs.Display = DisplayInlineBlock
	case "table":
		cs.Display = DisplayBlock
	case "script", "style", "head", "meta", "link", "title", "noscript", "template":
		cs.Display = DisplayNone
	}
}

var blue = parser.Color{R: 0, G: 0, B: 238, A: 255}
