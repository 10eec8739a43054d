// Package token implements the JavaScript tokenizer of spec §4.7, grounded
// on original_source/crates/js_engine/src/tokenizer.rs (keyword table,
// operator disambiguation, string/template escape handling), supplemented
// with context-disambiguated regex-literal recognition the original does
// not attempt.
package token

import (
	"strconv"
	"strings"

	"github.com/kestrelweb/corebrowser/browsererr"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("corebrowser.jstoken")
}

// Kind discriminates token categories.
type Kind uint8

const (
	Number Kind = iota
	String
	TemplateHead
	TemplateMiddle
	TemplateTail
	NoSubTemplate
	RegExp
	Identifier
	Keyword
	Operator
	Punct
	EOF
)

// Token is one lexical unit with source position.
type Token struct {
	Kind   Kind
	Text   string // raw lexeme for operators/punctuation/keywords/identifiers
	Str    string // decoded value for String/Template*/NoSubTemplate
	Num    float64
	Flags  string // RegExp flags
	Line   int
	Column int
}

var keywords = map[string]bool{
	"var": true, "let": true, "const": true, "function": true, "return": true,
	"if": true, "else": true, "while": true, "for": true, "break": true,
	"continue": true, "new": true, "this": true, "true": true, "false": true,
	"null": true, "undefined": true, "class": true, "extends": true, "super": true,
	"static": true, "get": true, "set": true, "async": true, "await": true,
	"yield": true, "in": true, "instanceof": true, "typeof": true, "delete": true,
	"void": true, "try": true, "catch": true, "finally": true, "throw": true,
	"switch": true, "case": true, "default": true, "do": true, "export": true,
	"import": true, "from": true, "as": true, "of": true, "with": true,
	"debugger": true,
}

// Tokenizer converts JavaScript source into a token stream.
type Tokenizer struct {
	src    []rune
	pos    int
	line   int
	column int

	// lastSignificant tracks the previous non-trivial token kind/text so
	// '/' can be disambiguated between division and a regex literal start.
	lastKind Kind
	lastText string
	hasLast  bool
}

// New creates a tokenizer over src.
func New(src string) *Tokenizer {
	return &Tokenizer{src: []rune(src), line: 1, column: 1}
}

// Tokenize runs the tokenizer to completion, returning every token
// including the trailing EOF.
func Tokenize(src string) ([]Token, error) {
	t := New(src)
	var toks []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	tracer().Debugf("tokenized %d JS tokens", len(toks))
	return toks, nil
}

func (t *Tokenizer) peek() (rune, bool) {
	if t.pos >= len(t.src) {
		return 0, false
	}
	return t.src[t.pos], true
}

func (t *Tokenizer) peekAt(off int) (rune, bool) {
	if t.pos+off >= len(t.src) {
		return 0, false
	}
	return t.src[t.pos+off], true
}

func (t *Tokenizer) advance() (rune, bool) {
	c, ok := t.peek()
	if !ok {
		return 0, false
	}
	t.pos++
	t.column++
	return c, true
}

func (t *Tokenizer) skipWhitespaceAndComments() {
	for {
		c, ok := t.peek()
		if !ok {
			return
		}
		switch c {
		case ' ', '\t', '\r':
			t.advance()
		case '\n':
			t.advance()
			t.line++
			t.column = 1
		case '/':
			next, _ := t.peekAt(1)
			if next == '/' {
				t.advance()
				t.advance()
				for {
					c, ok := t.peek()
					if !ok || c == '\n' {
						break
					}
					t.advance()
				}
			} else if next == '*' {
				t.advance()
				t.advance()
				for {
					c, ok := t.peek()
					if !ok {
						break
					}
					if c == '*' {
						if n, _ := t.peekAt(1); n == '/' {
							t.advance()
							t.advance()
							break
						}
					}
					if c == '\n' {
						t.line++
						t.column = 1
					}
					t.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// Next returns the next token, or an error for malformed numbers, strings,
// or escape sequences. Unknown single characters degrade to Identifier
// tokens (spec §4.7's permissive-lexing rule).
func (t *Tokenizer) Next() (Token, error) {
	t.skipWhitespaceAndComments()

	line, col := t.line, t.column
	c, ok := t.peek()
	if !ok {
		return t.emit(Token{Kind: EOF, Line: line, Column: col})
	}

	if c >= '0' && c <= '9' {
		return t.readNumber(line, col)
	}
	if c == '"' || c == '\'' {
		return t.readString(line, col, c)
	}
	if c == '`' {
		return t.readTemplate(line, col)
	}
	if c == '/' && t.regexAllowed() {
		return t.readRegExp(line, col)
	}
	if isIdentStart(c) {
		return t.readIdentifier(line, col)
	}
	return t.readOperator(line, col)
}

func (t *Tokenizer) emit(tok Token) (Token, error) {
	t.lastKind = tok.Kind
	t.lastText = tok.Text
	t.hasLast = true
	return tok, nil
}

// regexAllowed implements spec §4.7's context disambiguation: a '/' starts
// a regex unless the previous token was a value-producing token (number,
// string, identifier, closing paren/bracket, or `this`) in which case it is
// division.
func (t *Tokenizer) regexAllowed() bool {
	if !t.hasLast {
		return true
	}
	switch t.lastKind {
	case Number, String, TemplateTail, NoSubTemplate, RegExp:
		return false
	case Identifier:
		return false
	case Punct:
		return t.lastText != ")" && t.lastText != "]"
	case Keyword:
		return t.lastText != "this"
	}
	return true
}

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c > 127
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (t *Tokenizer) readNumber(line, col int) (Token, error) {
	var sb strings.Builder
	for {
		c, ok := t.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		sb.WriteRune(c)
		t.advance()
	}
	if c, ok := t.peek(); ok && c == '.' {
		sb.WriteRune('.')
		t.advance()
		for {
			c, ok := t.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			sb.WriteRune(c)
			t.advance()
		}
	}
	if c, ok := t.peek(); ok && (c == 'e' || c == 'E') {
		sb.WriteRune('e')
		t.advance()
		if c, ok := t.peek(); ok && (c == '+' || c == '-') {
			sb.WriteRune(c)
			t.advance()
		}
		for {
			c, ok := t.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			sb.WriteRune(c)
			t.advance()
		}
	}
	n, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return Token{}, browsererr.NewSyntaxError("invalid number: "+sb.String())
	}
	return t.emit(Token{Kind: Number, Num: n, Text: sb.String(), Line: line, Column: col})
}

func (t *Tokenizer) readString(line, col int, quote rune) (Token, error) {
	t.advance()
	var sb strings.Builder
	for {
		c, ok := t.peek()
		if !ok {
			return Token{}, browsererr.NewUnterminatedString()
		}
		if c == quote {
			t.advance()
			break
		}
		if c == '\\' {
			t.advance()
			s, err := t.readEscapeSequence()
			if err != nil {
				return Token{}, err
			}
			sb.WriteString(s)
			continue
		}
		if c == '\n' {
			return Token{}, browsererr.NewUnterminatedString()
		}
		sb.WriteRune(c)
		t.advance()
	}
	return t.emit(Token{Kind: String, Str: sb.String(), Line: line, Column: col})
}

func (t *Tokenizer) readEscapeSequence() (string, error) {
	c, ok := t.advance()
	if !ok {
		return "", browsererr.NewUnterminatedString()
	}
	switch c {
	case 'n':
		return "\n", nil
	case 't':
		return "\t", nil
	case 'r':
		return "\r", nil
	case '\\':
		return "\\", nil
	case '"':
		return "\"", nil
	case '\'':
		return "'", nil
	case '`':
		return "`", nil
	case '$':
		return "$", nil
	case '0':
		return "\x00", nil
	case 'b':
		return "\b", nil
	case 'f':
		return "\f", nil
	case 'v':
		return "\v", nil
	case 'x':
		return t.readHexEscape(2)
	case 'u':
		if c, ok := t.peek(); ok && c == '{' {
			t.advance()
			var hex strings.Builder
			for {
				c, ok := t.peek()
				if !ok {
					return "", browsererr.NewSyntaxError("invalid escape sequence")
				}
				if c == '}' {
					t.advance()
					break
				}
				if !isHexDigit(c) {
					return "", browsererr.NewSyntaxError("invalid escape sequence")
				}
				hex.WriteRune(c)
				t.advance()
			}
			return decodeHex(hex.String())
		}
		return t.readHexEscape(4)
	case '\n':
		t.line++
		t.column = 1
		return "", nil
	default:
		return string(c), nil
	}
}

func (t *Tokenizer) readHexEscape(n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		c, ok := t.advance()
		if !ok || !isHexDigit(c) {
			return "", browsererr.NewSyntaxError("invalid escape sequence")
		}
		sb.WriteRune(c)
	}
	return decodeHex(sb.String())
}

func decodeHex(hex string) (string, error) {
	code, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return "", browsererr.NewSyntaxError("invalid escape sequence")
	}
	return string(rune(code)), nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (t *Tokenizer) readTemplate(line, col int) (Token, error) {
	t.advance()
	return t.readTemplatePart(line, col, NoSubTemplate, TemplateHead)
}

// ReadTemplateContinuation resumes a template literal after the parser has
// consumed a `${...}` substitution expression (spec §4.7: template parts
// are produced incrementally, in lockstep with the parser).
func (t *Tokenizer) ReadTemplateContinuation() (Token, error) {
	line, col := t.line, t.column
	return t.readTemplatePart(line, col, TemplateTail, TemplateMiddle)
}

func (t *Tokenizer) readTemplatePart(line, col int, endKind, subKind Kind) (Token, error) {
	var sb strings.Builder
	for {
		c, ok := t.peek()
		if !ok {
			return Token{}, browsererr.NewUnterminatedString()
		}
		if c == '`' {
			t.advance()
			return t.emit(Token{Kind: endKind, Str: sb.String(), Line: line, Column: col})
		}
		if c == '$' {
			if n, _ := t.peekAt(1); n == '{' {
				t.advance()
				t.advance()
				return t.emit(Token{Kind: subKind, Str: sb.String(), Line: line, Column: col})
			}
		}
		if c == '\\' {
			t.advance()
			s, err := t.readEscapeSequence()
			if err != nil {
				return Token{}, err
			}
			sb.WriteString(s)
			continue
		}
		if c == '\n' {
			sb.WriteRune('\n')
			t.advance()
			t.line++
			t.column = 1
			continue
		}
		sb.WriteRune(c)
		t.advance()
	}
}

func (t *Tokenizer) readRegExp(line, col int) (Token, error) {
	t.advance() // consume leading '/'
	var pattern strings.Builder
	inClass := false
	for {
		c, ok := t.peek()
		if !ok {
			return Token{}, browsererr.NewUnterminatedString()
		}
		if c == '\\' {
			pattern.WriteRune(c)
			t.advance()
			if c2, ok := t.peek(); ok {
				pattern.WriteRune(c2)
				t.advance()
			}
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			t.advance()
			break
		} else if c == '\n' {
			return Token{}, browsererr.NewUnterminatedString()
		}
		pattern.WriteRune(c)
		t.advance()
	}
	var flags strings.Builder
	for {
		c, ok := t.peek()
		if !ok || !isIdentPart(c) {
			break
		}
		flags.WriteRune(c)
		t.advance()
	}
	return t.emit(Token{Kind: RegExp, Text: pattern.String(), Flags: flags.String(), Line: line, Column: col})
}

func (t *Tokenizer) readIdentifier(line, col int) (Token, error) {
	var sb strings.Builder
	for {
		c, ok := t.peek()
		if !ok || !isIdentPart(c) {
			break
		}
		sb.WriteRune(c)
		t.advance()
	}
	name := sb.String()
	kind := Identifier
	if keywords[name] {
		kind = Keyword
	}
	if name == "true" || name == "false" {
		kind = Keyword
	}
	return t.emit(Token{Kind: kind, Text: name, Line: line, Column: col})
}

func (t *Tokenizer) readOperator(line, col int) (Token, error) {
	c, _ := t.advance()

	two := func(next rune) bool {
		if c2, ok := t.peek(); ok && c2 == next {
			t.advance()
			return true
		}
		return false
	}

	var text string
	punct := false
	switch c {
	case '+':
		switch {
		case two('+'):
			text = "++"
		case two('='):
			text = "+="
		default:
			text = "+"
		}
	case '-':
		switch {
		case two('-'):
			text = "--"
		case two('='):
			text = "-="
		default:
			text = "-"
		}
	case '*':
		if two('*') {
			if two('=') {
				text = "**="
			} else {
				text = "**"
			}
		} else if two('=') {
			text = "*="
		} else {
			text = "*"
		}
	case '/':
		if two('=') {
			text = "/="
		} else {
			text = "/"
		}
	case '%':
		if two('=') {
			text = "%="
		} else {
			text = "%"
		}
	case '=':
		if two('=') {
			if two('=') {
				text = "==="
			} else {
				text = "=="
			}
		} else if two('>') {
			text = "=>"
		} else {
			text = "="
		}
	case '!':
		if two('=') {
			if two('=') {
				text = "!=="
			} else {
				text = "!="
			}
		} else {
			text = "!"
		}
	case '<':
		if two('=') {
			text = "<="
		} else if two('<') {
			if two('=') {
				text = "<<="
			} else {
				text = "<<"
			}
		} else {
			text = "<"
		}
	case '>':
		if two('=') {
			text = ">="
		} else if two('>') {
			if two('>') {
				text = ">>>"
			} else if two('=') {
				text = ">>="
			} else {
				text = ">>"
			}
		} else {
			text = ">"
		}
	case '&':
		if two('&') {
			if two('=') {
				text = "&&="
			} else {
				text = "&&"
			}
		} else if two('=') {
			text = "&="
		} else {
			text = "&"
		}
	case '|':
		if two('|') {
			if two('=') {
				text = "||="
			} else {
				text = "||"
			}
		} else if two('=') {
			text = "|="
		} else {
			text = "|"
		}
	case '^':
		if two('=') {
			text = "^="
		} else {
			text = "^"
		}
	case '~':
		text = "~"
	case '(', ')', '{', '}', '[', ']', ',', ';', ':':
		text = string(c)
		punct = true
	case '.':
		if c2, ok := t.peek(); ok && c2 == '.' {
			if c3, ok := t.peekAt(1); ok && c3 == '.' {
				t.advance()
				t.advance()
				text = "..."
			} else {
				text = "."
				punct = true
			}
		} else {
			text = "."
			punct = true
		}
	case '?':
		if two('?') {
			if two('=') {
				text = "??="
			} else {
				text = "??"
			}
		} else if two('.') {
			text = "?."
		} else {
			text = "?"
		}
	default:
		return t.emit(Token{Kind: Identifier, Text: string(c), Line: line, Column: col})
	}

	kind := Operator
	if punct {
		kind = Punct
	}
	return t.emit(Token{Kind: kind, Text: text, Line: line, Column: col})
}
