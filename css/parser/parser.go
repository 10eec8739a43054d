// Package parser implements the CSS parser of spec §4.3: tokens from
// css/token become a Stylesheet of rules, each rule a selector list plus a
// declaration list, grounded on
// original_source/crates/css_parser/src/parser.rs (parse_rule/
// parse_selector/parse_declaration/parse_value/parse_rgb_args), reworked to
// consume the Go token stream, with specificity held as a three-field
// (id, class, type) struct compared field by field.
package parser

import (
	"strconv"
	"strings"

	"github.com/kestrelweb/corebrowser/css/token"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("corebrowser.cssparser")
}

// Specificity is the (id, class/attr/pseudo-class, type/pseudo-element)
// triple of spec §3/§4.3.
type Specificity struct {
	A, B, C uint32
}

// Less reports whether s sorts before other (lower specificity first); ties
// are NOT resolved here — source order is the caller's job (spec §4.4 step
// 4: "ties resolve by source order").
func (s Specificity) Less(o Specificity) bool {
	if s.A != o.A {
		return s.A < o.A
	}
	if s.B != o.B {
		return s.B < o.B
	}
	return s.C < o.C
}

type CombinatorKind uint8

const (
	Descendant CombinatorKind = iota
	Child
	Adjacent
	Sibling
)

type AttrOp uint8

const (
	AttrExists AttrOp = iota
	AttrEquals
	AttrIncludes
	AttrDashMatch
	AttrPrefix
	AttrSuffix
	AttrSubstring
)

// SelectorPartKind discriminates one simple-selector step.
type SelectorPartKind uint8

const (
	PartType SelectorPartKind = iota
	PartClass
	PartID
	PartUniversal
	PartAttribute
	PartPseudoClass
	PartPseudoElement
	PartCombinator
)

// SelectorPart is one step of a selector's right-to-left chain.
type SelectorPart struct {
	Kind       SelectorPartKind
	Name       string // Type/Class/ID/PseudoClass/PseudoElement/Attribute name
	AttrOp     AttrOp
	AttrValue  string
	Combinator CombinatorKind
}

// Selector is an ordered chain of simple selectors and combinators plus a
// precomputed specificity.
type Selector struct {
	Parts       []SelectorPart
	Specificity Specificity
}

// ValueKind discriminates the CSS value forms of spec §3.
type ValueKind uint8

const (
	ValKeyword ValueKind = iota
	ValLength
	ValPercentage
	ValColor
	ValNumber
	ValString
	ValURL
	ValFunction
	ValList
)

// Color is a resolved RGBA color, 0-255 per channel.
type Color struct{ R, G, B, A uint8 }

// Value is the tagged union of CSS property values.
type Value struct {
	Kind     ValueKind
	Keyword  string
	Num      float64
	Unit     string // ValLength
	Color    Color
	Str      string // ValString/ValURL
	FuncName string
	Args     []Value
	List     []Value
}

// Declaration is one `property: value [!important]` pair.
type Declaration struct {
	Property  string
	Value     Value
	Important bool
}

// Rule is a selector list sharing one declaration list.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet is an ordered sequence of rules (spec §3).
type Stylesheet struct {
	Rules []Rule
}

type parser struct {
	toks []token.Token
	pos  int
}

// Parse tokenizes and parses src into a Stylesheet.
func Parse(src string) Stylesheet {
	p := &parser{toks: token.Tokenize(src)}
	sheet := p.parseStylesheet()
	tracer().Debugf("parsed stylesheet with %d rules", len(sheet.Rules))
	return sheet
}

// ParseSelectors parses a standalone comma-separated selector list (as
// opposed to a full rule), for callers that only need selector matching —
// js/host's document.querySelector/querySelectorAll — without a stylesheet
// context.
func ParseSelectors(src string) ([]Selector, bool) {
	p := &parser{toks: token.Tokenize(src)}
	return p.parseSelectorList()
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(off int) token.Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) atEnd() bool { return p.peek().Kind == token.EOF }

func (p *parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) parseStylesheet() Stylesheet {
	var sheet Stylesheet
	for !p.atEnd() {
		if p.check(token.AtKeyword) {
			p.skipAtRule()
			continue
		}
		if rule, ok := p.parseRule(); ok {
			sheet.Rules = append(sheet.Rules, rule)
		} else {
			for !p.atEnd() && !p.check(token.RightBrace) {
				p.advance()
			}
			if p.check(token.RightBrace) {
				p.advance()
			}
		}
	}
	return sheet
}

func (p *parser) skipAtRule() {
	p.advance()
	depth := 0
	for !p.atEnd() {
		switch p.peek().Kind {
		case token.LeftBrace:
			depth++
			p.advance()
		case token.RightBrace:
			depth--
			p.advance()
			if depth <= 0 {
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
			p.advance()
		default:
			p.advance()
		}
	}
}

func (p *parser) parseRule() (Rule, bool) {
	selectors, ok := p.parseSelectorList()
	if !ok {
		return Rule{}, false
	}
	if !p.match(token.LeftBrace) {
		return Rule{}, false
	}
	decls := p.parseDeclarations()
	if !p.match(token.RightBrace) {
		for !p.atEnd() && !p.check(token.RightBrace) {
			p.advance()
		}
		p.advance()
	}
	return Rule{Selectors: selectors, Declarations: decls}, true
}

func (p *parser) parseSelectorList() ([]Selector, bool) {
	var out []Selector
	for {
		sel, ok := p.parseSelector()
		if !ok {
			break
		}
		out = append(out, sel)
		if !p.match(token.Comma) {
			break
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func simpleSelectorStart(k token.Kind) bool {
	switch k {
	case token.Ident, token.Hash, token.Dot, token.Star, token.LeftBracket, token.Colon:
		return true
	}
	return false
}

func (p *parser) parseSelector() (Selector, bool) {
	var sel Selector
	lastWasCombinator := true

	for {
		tk := p.peek()
		switch tk.Kind {
		case token.LeftBrace, token.Comma, token.EOF:
			goto done

		case token.Star:
			p.advance()
			sel.Parts = append(sel.Parts, SelectorPart{Kind: PartUniversal})
			lastWasCombinator = false

		case token.Ident:
			p.advance()
			sel.Parts = append(sel.Parts, SelectorPart{Kind: PartType, Name: tk.Text})
			sel.Specificity.C++
			lastWasCombinator = false

		case token.Hash:
			p.advance()
			sel.Parts = append(sel.Parts, SelectorPart{Kind: PartID, Name: tk.Text})
			sel.Specificity.A++
			lastWasCombinator = false

		case token.Dot:
			p.advance()
			if p.check(token.Ident) {
				name := p.advance().Text
				sel.Parts = append(sel.Parts, SelectorPart{Kind: PartClass, Name: name})
				sel.Specificity.B++
			}
			lastWasCombinator = false

		case token.Colon:
			p.advance()
			if p.check(token.Colon) {
				p.advance()
				if p.check(token.Ident) {
					name := p.advance().Text
					sel.Parts = append(sel.Parts, SelectorPart{Kind: PartPseudoElement, Name: name})
					sel.Specificity.C++
				}
			} else if p.check(token.Ident) {
				name := p.advance().Text
				sel.Parts = append(sel.Parts, SelectorPart{Kind: PartPseudoClass, Name: name})
				sel.Specificity.B++
			}
			lastWasCombinator = false

		case token.LeftBracket:
			p.advance()
			if part, ok := p.parseAttributeSelector(); ok {
				sel.Parts = append(sel.Parts, part)
				sel.Specificity.B++
			}
			lastWasCombinator = false

		case token.Greater:
			p.advance()
			if !lastWasCombinator {
				sel.Parts = append(sel.Parts, SelectorPart{Kind: PartCombinator, Combinator: Child})
				lastWasCombinator = true
			}

		case token.Plus:
			p.advance()
			if !lastWasCombinator {
				sel.Parts = append(sel.Parts, SelectorPart{Kind: PartCombinator, Combinator: Adjacent})
				lastWasCombinator = true
			}

		case token.Tilde:
			p.advance()
			if !lastWasCombinator {
				sel.Parts = append(sel.Parts, SelectorPart{Kind: PartCombinator, Combinator: Sibling})
				lastWasCombinator = true
			}

		default:
			if !lastWasCombinator && len(sel.Parts) > 0 && simpleSelectorStart(tk.Kind) {
				sel.Parts = append(sel.Parts, SelectorPart{Kind: PartCombinator, Combinator: Descendant})
				lastWasCombinator = true
				continue
			}
			goto done
		}
	}
done:
	if len(sel.Parts) == 0 {
		return Selector{}, false
	}
	return sel, true
}

func (p *parser) parseAttributeSelector() (SelectorPart, bool) {
	if !p.check(token.Ident) {
		return SelectorPart{}, false
	}
	name := p.advance().Text

	var op AttrOp
	var val string
	switch p.peek().Kind {
	case token.RightBracket:
		p.advance()
		return SelectorPart{Kind: PartAttribute, Name: name, AttrOp: AttrExists}, true
	case token.Equals:
		p.advance()
		op, val = AttrEquals, p.parseAttrValue()
	case token.Tilde:
		if p.peekAt(1).Kind == token.Equals {
			p.advance()
			p.advance()
			op, val = AttrIncludes, p.parseAttrValue()
		}
	case token.Delim:
		d := p.peek().Delim
		if p.peekAt(1).Kind == token.Equals {
			p.advance()
			p.advance()
			switch d {
			case '|':
				op, val = AttrDashMatch, p.parseAttrValue()
			case '^':
				op, val = AttrPrefix, p.parseAttrValue()
			case '$':
				op, val = AttrSuffix, p.parseAttrValue()
			}
		}
	case token.Star:
		if p.peekAt(1).Kind == token.Equals {
			p.advance()
			p.advance()
			op, val = AttrSubstring, p.parseAttrValue()
		}
	}
	p.match(token.RightBracket)
	return SelectorPart{Kind: PartAttribute, Name: name, AttrOp: op, AttrValue: val}, true
}

func (p *parser) parseAttrValue() string {
	switch p.peek().Kind {
	case token.Ident, token.StringTok:
		return p.advance().Text
	}
	return ""
}

func (p *parser) parseDeclarations() []Declaration {
	var out []Declaration
	for !p.atEnd() && !p.check(token.RightBrace) {
		if d, ok := p.parseDeclaration(); ok {
			out = append(out, d)
		}
	}
	return out
}

func (p *parser) parseDeclaration() (Declaration, bool) {
	if !p.check(token.Ident) {
		for !p.atEnd() {
			switch p.peek().Kind {
			case token.Semicolon:
				p.advance()
				return Declaration{}, false
			case token.RightBrace:
				return Declaration{}, false
			default:
				p.advance()
			}
		}
		return Declaration{}, false
	}
	property := strings.ToLower(p.advance().Text)
	if !p.match(token.Colon) {
		return Declaration{}, false
	}
	value := p.parseValue()
	important := p.checkImportant()
	p.match(token.Semicolon)
	return Declaration{Property: property, Value: value, Important: important}, true
}

func isDelim(tk token.Token, r rune) bool { return tk.Kind == token.Delim && tk.Delim == r }

func (p *parser) checkImportant() bool {
	if isDelim(p.peek(), '!') {
		p.advance()
		if p.check(token.Ident) && strings.EqualFold(p.peek().Text, "important") {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) parseValue() Value {
	var values []Value
	for !p.atEnd() {
		tk := p.peek()
		switch {
		case tk.Kind == token.Semicolon || tk.Kind == token.RightBrace || isDelim(tk, '!'):
			goto done
		case tk.Kind == token.Number:
			p.advance()
			values = append(values, Value{Kind: ValNumber, Num: tk.Num})
		case tk.Kind == token.Dimension:
			p.advance()
			values = append(values, Value{Kind: ValLength, Num: tk.Num, Unit: strings.ToLower(tk.Text)})
		case tk.Kind == token.Percentage:
			p.advance()
			values = append(values, Value{Kind: ValPercentage, Num: tk.Num})
		case tk.Kind == token.Ident:
			p.advance()
			if c, ok := namedColor(tk.Text); ok {
				values = append(values, Value{Kind: ValColor, Color: c})
			} else {
				values = append(values, Value{Kind: ValKeyword, Keyword: tk.Text})
			}
		case tk.Kind == token.Hash:
			p.advance()
			if c, ok := hexColor(tk.Text); ok {
				values = append(values, Value{Kind: ValColor, Color: c})
			} else {
				values = append(values, Value{Kind: ValKeyword, Keyword: "#" + tk.Text})
			}
		case tk.Kind == token.StringTok:
			p.advance()
			values = append(values, Value{Kind: ValString, Str: tk.Text})
		case tk.Kind == token.URL:
			p.advance()
			values = append(values, Value{Kind: ValURL, Str: tk.Text})
		case tk.Kind == token.Function:
			p.advance()
			name := strings.ToLower(tk.Text)
			args := p.parseFunctionArgs()
			if (name == "rgb" || name == "rgba") {
				if c, ok := rgbFromArgs(args); ok {
					values = append(values, Value{Kind: ValColor, Color: c})
					continue
				}
			}
			values = append(values, Value{Kind: ValFunction, FuncName: name, Args: args})
		case tk.Kind == token.Comma:
			p.advance()
		default:
			p.advance()
		}
	}
done:
	switch len(values) {
	case 0:
		return Value{Kind: ValKeyword}
	case 1:
		return values[0]
	default:
		return Value{Kind: ValList, List: values}
	}
}

func (p *parser) parseFunctionArgs() []Value {
	var args []Value
	depth := 1
	for !p.atEnd() && depth > 0 {
		switch p.peek().Kind {
		case token.LeftParen:
			depth++
			p.advance()
		case token.RightParen:
			depth--
			if depth > 0 {
				p.advance()
			}
		case token.Comma:
			p.advance()
		default:
			args = append(args, p.parseSingleValue())
		}
	}
	p.match(token.RightParen)
	return args
}

func (p *parser) parseSingleValue() Value {
	tk := p.peek()
	switch tk.Kind {
	case token.Number:
		p.advance()
		return Value{Kind: ValNumber, Num: tk.Num}
	case token.Dimension:
		p.advance()
		return Value{Kind: ValLength, Num: tk.Num, Unit: strings.ToLower(tk.Text)}
	case token.Percentage:
		p.advance()
		return Value{Kind: ValPercentage, Num: tk.Num}
	case token.Ident:
		p.advance()
		return Value{Kind: ValKeyword, Keyword: tk.Text}
	case token.StringTok:
		p.advance()
		return Value{Kind: ValString, Str: tk.Text}
	}
	p.advance()
	return Value{Kind: ValKeyword}
}

func rgbFromArgs(args []Value) (Color, bool) {
	num := func(v Value) (float64, bool) {
		switch v.Kind {
		case ValNumber:
			return v.Num, true
		case ValPercentage:
			return v.Num * 2.55, true
		}
		return 0, false
	}
	if len(args) < 3 {
		return Color{}, false
	}
	r, ok1 := num(args[0])
	g, ok2 := num(args[1])
	b, ok3 := num(args[2])
	if !ok1 || !ok2 || !ok3 {
		return Color{}, false
	}
	clamp := func(f float64) uint8 {
		if f < 0 {
			f = 0
		}
		if f > 255 {
			f = 255
		}
		return uint8(f)
	}
	a := 255.0
	if len(args) > 3 {
		switch args[3].Kind {
		case ValNumber:
			a = args[3].Num * 255.0 // rgba alpha argument is 0..1
		case ValPercentage:
			a = args[3].Num * 2.55
		}
	}
	return Color{R: clamp(r), G: clamp(g), B: clamp(b), A: clamp(a)}, true
}

func hexColor(hex string) (Color, bool) {
	hex = strings.TrimPrefix(hex, "#")
	nib := func(s string) (uint8, bool) {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, false
		}
		return uint8(v), true
	}
	switch len(hex) {
	case 3:
		r, ok1 := nib(strings.Repeat(hex[0:1], 2))
		g, ok2 := nib(strings.Repeat(hex[1:2], 2))
		b, ok3 := nib(strings.Repeat(hex[2:3], 2))
		if !ok1 || !ok2 || !ok3 {
			return Color{}, false
		}
		return Color{r, g, b, 255}, true
	case 4:
		r, ok1 := nib(strings.Repeat(hex[0:1], 2))
		g, ok2 := nib(strings.Repeat(hex[1:2], 2))
		b, ok3 := nib(strings.Repeat(hex[2:3], 2))
		a, ok4 := nib(strings.Repeat(hex[3:4], 2))
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return Color{}, false
		}
		return Color{r, g, b, a}, true
	case 6:
		r, ok1 := nib(hex[0:2])
		g, ok2 := nib(hex[2:4])
		b, ok3 := nib(hex[4:6])
		if !ok1 || !ok2 || !ok3 {
			return Color{}, false
		}
		return Color{r, g, b, 255}, true
	case 8:
		r, ok1 := nib(hex[0:2])
		g, ok2 := nib(hex[2:4])
		b, ok3 := nib(hex[4:6])
		a, ok4 := nib(hex[6:8])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return Color{}, false
		}
		return Color{r, g, b, a}, true
	}
	return Color{}, false
}

// ParseColor parses a standalone color string (name, #hex) for callers
// outside the value parser (e.g. inline style attribute shortcuts).
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := namedColor(s); ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return hexColor(s[1:])
	}
	return Color{}, false
}

var namedColors = map[string]Color{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"silver":      {192, 192, 192, 255},
	"navy":        {0, 0, 128, 255},
	"teal":        {0, 128, 128, 255},
	"aqua":        {0, 255, 255, 255},
	"cyan":        {0, 255, 255, 255},
	"maroon":      {128, 0, 0, 255},
	"purple":      {128, 0, 128, 255},
	"fuchsia":     {255, 0, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"olive":       {128, 128, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"lime":        {0, 255, 0, 255},
	"orange":      {255, 165, 0, 255},
	"pink":        {255, 192, 203, 255},
	"brown":       {165, 42, 42, 255},
	"coral":       {255, 127, 80, 255},
	"crimson":     {220, 20, 60, 255},
	"gold":        {255, 215, 0, 255},
	"indigo":      {75, 0, 130, 255},
	"violet":      {238, 130, 238, 255},
	"turquoise":   {64, 224, 208, 255},
	"tomato":      {255, 99, 71, 255},
	"skyblue":     {135, 206, 235, 255},
	"salmon":      {250, 128, 114, 255},
	"royalblue":   {65, 105, 225, 255},
	"plum":        {221, 160, 221, 255},
	"orchid":      {218, 112, 214, 255},
	"khaki":       {240, 230, 140, 255},
	"ivory":       {255, 255, 240, 255},
	"honeydew":    {240, 255, 240, 255},
	"hotpink":     {255, 105, 180, 255},
	"lightgray":   {211, 211, 211, 255},
	"lightgrey":   {211, 211, 211, 255},
	"darkgray":    {169, 169, 169, 255},
	"darkgrey":    {169, 169, 169, 255},
	"lightblue":   {173, 216, 230, 255},
	"lightgreen":  {144, 238, 144, 255},
	"darkblue":    {0, 0, 139, 255},
	"darkgreen":   {0, 100, 0, 255},
	"darkred":     {139, 0, 0, 255},
	"beige":       {245, 245, 220, 255},
	"azure":       {240, 255, 255, 255},
	"aliceblue":   {240, 248, 255, 255},
	"antiquewhite": {250, 235, 215, 255},
}

func namedColor(name string) (Color, bool) {
	c, ok := namedColors[strings.ToLower(name)]
	return c, ok
}
