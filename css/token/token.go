// Package token implements the CSS tokenizer of spec §4.3, grounded on
// original_source/crates/css_parser/src/tokenizer.rs: whitespace and
// comments are consumed silently, and every other lexeme becomes one of the
// token kinds below.
package token

import (
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("corebrowser.csstoken")
}

type Kind uint8

const (
	Ident Kind = iota
	Hash
	StringTok
	Number
	Percentage
	Dimension
	Function
	AtKeyword
	URL
	Colon
	Semicolon
	Comma
	LeftBrace
	RightBrace
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	Dot
	Greater
	Plus
	Tilde
	Star
	Equals
	Delim
	EOF
)

// Token is a single CSS lexeme.
type Token struct {
	Kind  Kind
	Text  string  // Ident/Hash/StringTok/Function/AtKeyword/URL/Dimension unit
	Num   float64 // Number/Percentage/Dimension value
	Delim rune    // Delim
}

type Tokenizer struct {
	src []rune
	pos int
}

func New(src string) *Tokenizer {
	return &Tokenizer{src: []rune(src)}
}

// Tokenize runs the tokenizer to completion, skipping whitespace and
// comments, and returns every remaining token ending with an EOF token.
func Tokenize(src string) []Token {
	tk := New(src)
	var out []Token
	for {
		tok := tk.Next()
		out = append(out, tok)
		if tok.Kind == EOF {
			tracer().Debugf("tokenized %d css tokens", len(out))
			return out
		}
	}
}

func (t *Tokenizer) peek() (rune, bool) {
	if t.pos >= len(t.src) {
		return 0, false
	}
	return t.src[t.pos], true
}

func (t *Tokenizer) peekAt(off int) (rune, bool) {
	p := t.pos + off
	if p >= len(t.src) {
		return 0, false
	}
	return t.src[p], true
}

func (t *Tokenizer) advance() (rune, bool) {
	c, ok := t.peek()
	if ok {
		t.pos++
	}
	return c, ok
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '-'
}

func isIdentChar(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

// Next returns the next non-trivial token, consuming whitespace/comments
// first.
func (t *Tokenizer) Next() Token {
	for {
		c, ok := t.peek()
		if !ok {
			return Token{Kind: EOF}
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' {
			t.advance()
			continue
		}
		if c == '/' {
			if n, ok := t.peekAt(1); ok && n == '*' {
				t.skipComment()
				continue
			}
		}
		return t.consume()
	}
}

func (t *Tokenizer) skipComment() {
	t.advance()
	t.advance()
	for {
		c, ok := t.advance()
		if !ok {
			return
		}
		if c == '*' {
			if n, ok := t.peek(); ok && n == '/' {
				t.advance()
				return
			}
		}
	}
}

func (t *Tokenizer) consume() Token {
	c, _ := t.peek()
	switch c {
	case ':':
		t.advance()
		return Token{Kind: Colon}
	case ';':
		t.advance()
		return Token{Kind: Semicolon}
	case ',':
		t.advance()
		return Token{Kind: Comma}
	case '{':
		t.advance()
		return Token{Kind: LeftBrace}
	case '}':
		t.advance()
		return Token{Kind: RightBrace}
	case '(':
		t.advance()
		return Token{Kind: LeftParen}
	case ')':
		t.advance()
		return Token{Kind: RightParen}
	case '[':
		t.advance()
		return Token{Kind: LeftBracket}
	case ']':
		t.advance()
		return Token{Kind: RightBracket}
	case '>':
		t.advance()
		return Token{Kind: Greater}
	case '+':
		if n, ok := t.peekAt(1); ok && (isDigit(n) || n == '.') {
			return t.consumeNumberOrIdent()
		}
		t.advance()
		return Token{Kind: Plus}
	case '~':
		t.advance()
		return Token{Kind: Tilde}
	case '*':
		t.advance()
		return Token{Kind: Star}
	case '=':
		t.advance()
		return Token{Kind: Equals}
	case '.':
		if n, ok := t.peekAt(1); ok && isDigit(n) {
			return t.consumeNumberOrIdent()
		}
		t.advance()
		return Token{Kind: Dot}
	case '#':
		t.advance()
		if n, ok := t.peek(); ok && isIdentChar(n) {
			return Token{Kind: Hash, Text: t.consumeIdentLike()}
		}
		return Token{Kind: Delim, Delim: '#'}
	case '@':
		t.advance()
		return Token{Kind: AtKeyword, Text: t.consumeIdentLike()}
	case '"', '\'':
		return t.consumeString(c)
	}
	if isDigit(c) || c == '-' {
		return t.consumeNumberOrIdent()
	}
	if isIdentStart(c) {
		return t.consumeIdentOrFunction()
	}
	t.advance()
	return Token{Kind: Delim, Delim: c}
}

func (t *Tokenizer) consumeString(quote rune) Token {
	t.advance()
	var b strings.Builder
	for {
		c, ok := t.advance()
		if !ok || c == quote {
			break
		}
		if c == '\\' {
			if esc, ok := t.advance(); ok {
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(c)
	}
	return Token{Kind: StringTok, Text: b.String()}
}

func (t *Tokenizer) consumeNumberOrIdent() Token {
	first, _ := t.peek()
	if first == '-' {
		if n, ok := t.peekAt(1); !ok || !(isDigit(n) || n == '.') {
			return t.consumeIdentOrFunction()
		}
	}
	var b strings.Builder
	if c, ok := t.peek(); ok && (c == '-' || c == '+') {
		t.advance()
		b.WriteRune(c)
	}
	for {
		c, ok := t.peek()
		if !ok || !isDigit(c) {
			break
		}
		t.advance()
		b.WriteRune(c)
	}
	if c, ok := t.peek(); ok && c == '.' {
		t.advance()
		b.WriteRune('.')
		for {
			c, ok := t.peek()
			if !ok || !isDigit(c) {
				break
			}
			t.advance()
			b.WriteRune(c)
		}
	}
	value, _ := strconv.ParseFloat(b.String(), 64)

	if c, ok := t.peek(); ok && c == '%' {
		t.advance()
		return Token{Kind: Percentage, Num: value}
	}
	if c, ok := t.peek(); ok && isIdentStart(c) {
		unit := t.consumeIdentLike()
		return Token{Kind: Dimension, Num: value, Text: unit}
	}
	return Token{Kind: Number, Num: value}
}

func (t *Tokenizer) consumeIdentOrFunction() Token {
	name := t.consumeIdentLike()
	if c, ok := t.peek(); ok && c == '(' {
		t.advance()
		if strings.EqualFold(name, "url") {
			return t.consumeURL()
		}
		return Token{Kind: Function, Text: name}
	}
	return Token{Kind: Ident, Text: name}
}

func (t *Tokenizer) consumeIdentLike() string {
	var b strings.Builder
	for {
		c, ok := t.peek()
		if !ok || !isIdentChar(c) {
			break
		}
		t.advance()
		b.WriteRune(c)
	}
	return b.String()
}

func (t *Tokenizer) consumeURL() Token {
	for {
		c, ok := t.peek()
		if !ok || !(c == ' ' || c == '\t' || c == '\n') {
			break
		}
		t.advance()
	}
	if c, ok := t.peek(); ok && (c == '"' || c == '\'') {
		s := t.consumeString(c)
		for {
			c, ok := t.peek()
			if !ok || !(c == ' ' || c == '\t' || c == '\n') {
				break
			}
			t.advance()
		}
		if c, ok := t.peek(); ok && c == ')' {
			t.advance()
		}
		return Token{Kind: URL, Text: s.Text}
	}
	var b strings.Builder
	for {
		c, ok := t.peek()
		if !ok || c == ')' || c == ' ' || c == '\t' || c == '\n' {
			break
		}
		t.advance()
		b.WriteRune(c)
	}
	for {
		c, ok := t.advance()
		if !ok || c == ')' {
			break
		}
	}
	return Token{Kind: URL, Text: b.String()}
}
