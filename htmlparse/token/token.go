// Package token implements the HTML5 tokenizer of spec §4.1: a
// deterministic state machine over a UTF-8 character stream. The state
// list and per-state transitions are grounded on
// original_source/crates/html_parser/src/tokenizer.rs, adapted to emit
// ordered attribute lists (first-write-wins, per spec §3) instead of a
// map, and to route errors through result.Result rather than Rust's
// Result<Token, ParseError>.
package token

import (
	"strings"

	"github.com/kestrelweb/corebrowser/browsererr"
	"github.com/kestrelweb/corebrowser/result"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("corebrowser.htmltoken")
}

// Kind discriminates the token variants of spec §4.1.
type Kind uint8

const (
	DoctypeToken Kind = iota
	StartTagToken
	EndTagToken
	TextToken
	CommentToken
	EOFToken
)

// Attr is one ordered (name, value) pair from a start tag.
type Attr struct {
	Name  string
	Value string
}

// Token is the tagged union the tokenizer emits.
type Token struct {
	Kind        Kind
	Name        string // tag name, or doctype name
	Attrs       []Attr // StartTagToken
	SelfClosing bool   // StartTagToken
	Text        string // TextToken / CommentToken content
	PublicID    string // DoctypeToken, optional (empty if absent)
	SystemID    string // DoctypeToken, optional (empty if absent)
}

type state uint8

const (
	stData state = iota
	stTagOpen
	stEndTagOpen
	stTagName
	stBeforeAttributeName
	stAttributeName
	stAfterAttributeName
	stBeforeAttributeValue
	stAttributeValueDoubleQuoted
	stAttributeValueSingleQuoted
	stAttributeValueUnquoted
	stAfterAttributeValue
	stSelfClosingStartTag
	stBogusComment
	stMarkupDeclarationOpen
	stComment
	stCommentEnd
	stDoctype
	stBeforeDoctypeName
	stDoctypeName
	stAfterDoctypeName
)

// Tokenizer drives the HTML5 state machine described in spec §4.1.
type Tokenizer struct {
	src   []rune
	pos   int
	state state

	buf         strings.Builder // pending Data/comment/bogus-comment/doctype-name text
	tagName     strings.Builder
	attrName    strings.Builder
	attrValue   strings.Builder
	attrs       []Attr
	selfClosing bool
	isEndTag    bool
}

// New creates a tokenizer positioned at the start of src.
func New(src string) *Tokenizer {
	return &Tokenizer{src: []rune(src), state: stData}
}

func (t *Tokenizer) peek() (rune, bool) {
	if t.pos >= len(t.src) {
		return 0, false
	}
	return t.src[t.pos], true
}

func (t *Tokenizer) next() (rune, bool) {
	c, ok := t.peek()
	if ok {
		t.pos++
	}
	return c, ok
}

// Tokenize runs the tokenizer to completion and returns every token,
// ending with an EOFToken, or the first error encountered.
func Tokenize(src string) result.Result[[]Token] {
	tk := New(src)
	var out []Token
	for {
		tok, err := tk.Next()
		if err != nil {
			return result.Err[[]Token](err)
		}
		out = append(out, tok)
		if tok.Kind == EOFToken {
			return result.Ok(out)
		}
	}
}

func isAsciiAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func lower(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// Next advances the state machine and returns the next token, or the first
// error it hits (spec §4.1's contract: unterminated quoted attribute values
// fail with UnterminatedString, unexpected EOF inside a tag fails with
// UnexpectedEof, everything else degrades to bogus comment).
func (t *Tokenizer) Next() (Token, error) {
	for {
		switch t.state {
		case stData:
			c, ok := t.next()
			if !ok {
				if t.buf.Len() > 0 {
					return t.flushText(), nil
				}
				return Token{Kind: EOFToken}, nil
			}
			if c == '<' {
				if t.buf.Len() > 0 {
					t.state = stTagOpen
					return t.flushText(), nil
				}
				t.state = stTagOpen
				continue
			}
			t.buf.WriteRune(c)

		case stTagOpen:
			c, ok := t.peek()
			switch {
			case ok && c == '/':
				t.next()
				t.state = stEndTagOpen
			case ok && c == '!':
				t.next()
				t.state = stMarkupDeclarationOpen
			case ok && c == '?':
				t.next()
				t.state = stBogusComment
			case ok && isAsciiAlpha(c):
				t.tagName.Reset()
				t.attrs = nil
				t.selfClosing = false
				t.isEndTag = false
				t.state = stTagName
			default:
				t.buf.WriteRune('<')
				t.state = stData
			}

		case stEndTagOpen:
			c, ok := t.peek()
			switch {
			case ok && isAsciiAlpha(c):
				t.tagName.Reset()
				t.isEndTag = true
				t.state = stTagName
			case ok && c == '>':
				t.next()
				t.state = stData
			default:
				t.state = stBogusComment
			}

		case stTagName:
			c, ok := t.next()
			switch {
			case !ok:
				return Token{}, browsererr.NewUnexpectedEof()
			case isSpace(c):
				t.state = stBeforeAttributeName
			case c == '/':
				t.state = stSelfClosingStartTag
			case c == '>':
				t.state = stData
				return t.emitTag(), nil
			default:
				t.tagName.WriteRune(lower(c))
			}

		case stBeforeAttributeName:
			c, ok := t.peek()
			switch {
			case ok && isSpace(c):
				t.next()
			case ok && c == '/':
				t.next()
				t.state = stSelfClosingStartTag
			case ok && c == '>':
				t.next()
				t.state = stData
				return t.emitTag(), nil
			case ok:
				t.attrName.Reset()
				t.attrValue.Reset()
				t.state = stAttributeName
			default:
				return Token{}, browsererr.NewUnexpectedEof()
			}

		case stAttributeName:
			c, ok := t.peek()
			switch {
			case ok && isSpace(c):
				t.next()
				t.state = stAfterAttributeName
			case ok && c == '/':
				t.saveAttribute()
				t.next()
				t.state = stSelfClosingStartTag
			case ok && c == '=':
				t.next()
				t.state = stBeforeAttributeValue
			case ok && c == '>':
				t.saveAttribute()
				t.next()
				t.state = stData
				return t.emitTag(), nil
			case ok:
				t.next()
				t.attrName.WriteRune(lower(c))
			default:
				return Token{}, browsererr.NewUnexpectedEof()
			}

		case stAfterAttributeName:
			c, ok := t.peek()
			switch {
			case ok && isSpace(c):
				t.next()
			case ok && c == '/':
				t.saveAttribute()
				t.next()
				t.state = stSelfClosingStartTag
			case ok && c == '=':
				t.next()
				t.state = stBeforeAttributeValue
			case ok && c == '>':
				t.saveAttribute()
				t.next()
				t.state = stData
				return t.emitTag(), nil
			case ok:
				t.saveAttribute()
				t.attrName.Reset()
				t.attrValue.Reset()
				t.state = stAttributeName
			default:
				return Token{}, browsererr.NewUnexpectedEof()
			}

		case stBeforeAttributeValue:
			c, ok := t.peek()
			switch {
			case ok && isSpace(c):
				t.next()
			case ok && c == '"':
				t.next()
				t.state = stAttributeValueDoubleQuoted
			case ok && c == '\'':
				t.next()
				t.state = stAttributeValueSingleQuoted
			case ok && c == '>':
				t.saveAttribute()
				t.next()
				t.state = stData
				return t.emitTag(), nil
			case ok:
				t.state = stAttributeValueUnquoted
			default:
				return Token{}, browsererr.NewUnexpectedEof()
			}

		case stAttributeValueDoubleQuoted:
			c, ok := t.next()
			switch {
			case ok && c == '"':
				t.saveAttribute()
				t.state = stAfterAttributeValue
			case ok:
				t.attrValue.WriteRune(c)
			default:
				return Token{}, browsererr.NewUnterminatedString()
			}

		case stAttributeValueSingleQuoted:
			c, ok := t.next()
			switch {
			case ok && c == '\'':
				t.saveAttribute()
				t.state = stAfterAttributeValue
			case ok:
				t.attrValue.WriteRune(c)
			default:
				return Token{}, browsererr.NewUnterminatedString()
			}

		case stAttributeValueUnquoted:
			c, ok := t.peek()
			switch {
			case ok && isSpace(c):
				t.saveAttribute()
				t.next()
				t.state = stBeforeAttributeName
			case ok && c == '>':
				t.saveAttribute()
				t.next()
				t.state = stData
				return t.emitTag(), nil
			case ok:
				t.next()
				t.attrValue.WriteRune(c)
			default:
				return Token{}, browsererr.NewUnexpectedEof()
			}

		case stAfterAttributeValue:
			c, ok := t.peek()
			switch {
			case ok && isSpace(c):
				t.next()
				t.state = stBeforeAttributeName
			case ok && c == '/':
				t.next()
				t.state = stSelfClosingStartTag
			case ok && c == '>':
				t.next()
				t.state = stData
				return t.emitTag(), nil
			default:
				t.state = stBeforeAttributeName
			}

		case stSelfClosingStartTag:
			c, ok := t.peek()
			if ok && c == '>' {
				t.next()
				t.selfClosing = true
				t.state = stData
				return t.emitTag(), nil
			}
			t.state = stBeforeAttributeName

		case stMarkupDeclarationOpen:
			if t.lookingAt("--") {
				t.advance(2)
				t.buf.Reset()
				t.state = stComment
				continue
			}
			if t.lookingAtFold("DOCTYPE") {
				t.advance(7)
				t.state = stBeforeDoctypeName
				continue
			}
			t.buf.Reset()
			t.state = stBogusComment

		case stComment:
			c, ok := t.next()
			switch {
			case ok && c == '-':
				if c2, ok2 := t.peek(); ok2 && c2 == '-' {
					t.next()
					t.state = stCommentEnd
				} else {
					t.buf.WriteRune('-')
				}
			case ok:
				t.buf.WriteRune(c)
			default:
				t.state = stData
				return Token{Kind: CommentToken, Text: t.takeBuf()}, nil
			}

		case stCommentEnd:
			c, ok := t.peek()
			if ok && c == '>' {
				t.next()
				t.state = stData
				return Token{Kind: CommentToken, Text: t.takeBuf()}, nil
			}
			t.buf.WriteString("--")
			t.state = stComment

		case stBogusComment:
			for {
				c, ok := t.next()
				if !ok || c == '>' {
					t.state = stData
					return Token{Kind: CommentToken, Text: t.takeBuf()}, nil
				}
				t.buf.WriteRune(c)
			}

		case stBeforeDoctypeName:
			c, ok := t.peek()
			switch {
			case ok && isSpace(c):
				t.next()
			case ok:
				t.buf.Reset()
				t.state = stDoctypeName
			default:
				return Token{}, browsererr.NewInvalidDoctype()
			}

		case stDoctype, stDoctypeName:
			c, ok := t.next()
			switch {
			case ok && isSpace(c):
				t.state = stAfterDoctypeName
			case ok && c == '>':
				name := strings.ToLower(t.takeBuf())
				t.state = stData
				return Token{Kind: DoctypeToken, Name: name}, nil
			case ok:
				t.buf.WriteRune(c)
			default:
				return Token{}, browsererr.NewInvalidDoctype()
			}

		case stAfterDoctypeName:
			// Simplified per spec §4.2: consume the remainder of the
			// declaration (including any PUBLIC/SYSTEM identifiers) without
			// modelling their sub-grammar; only the doctype name is kept.
			for {
				c, ok := t.next()
				if !ok {
					return Token{}, browsererr.NewInvalidDoctype()
				}
				if c == '>' {
					name := strings.ToLower(t.takeBuf())
					t.state = stData
					return Token{Kind: DoctypeToken, Name: name}, nil
				}
			}
		}
	}
}

func (t *Tokenizer) lookingAt(s string) bool {
	r := []rune(s)
	if t.pos+len(r) > len(t.src) {
		return false
	}
	for i, c := range r {
		if t.src[t.pos+i] != c {
			return false
		}
	}
	return true
}

func (t *Tokenizer) lookingAtFold(s string) bool {
	r := []rune(s)
	if t.pos+len(r) > len(t.src) {
		return false
	}
	for i, c := range r {
		if lower(t.src[t.pos+i]) != lower(c) {
			return false
		}
	}
	return true
}

func (t *Tokenizer) advance(n int) {
	t.pos += n
	if t.pos > len(t.src) {
		t.pos = len(t.src)
	}
}

func (t *Tokenizer) flushText() Token {
	return Token{Kind: TextToken, Text: t.takeBuf()}
}

func (t *Tokenizer) takeBuf() string {
	s := t.buf.String()
	t.buf.Reset()
	return s
}

// saveAttribute commits the pending attribute name/value pair. Duplicate
// attribute names within one start tag keep the first occurrence (spec §3).
func (t *Tokenizer) saveAttribute() {
	name := t.attrName.String()
	if name == "" {
		return
	}
	value := t.attrValue.String()
	for _, a := range t.attrs {
		if a.Name == name {
			return // first write wins
		}
	}
	t.attrs = append(t.attrs, Attr{Name: name, Value: value})
	t.attrName.Reset()
	t.attrValue.Reset()
}

func (t *Tokenizer) emitTag() Token {
	name := t.tagName.String()
	if t.isEndTag {
		return Token{Kind: EndTagToken, Name: name}
	}
	attrs := t.attrs
	t.attrs = nil
	return Token{Kind: StartTagToken, Name: name, Attrs: attrs, SelfClosing: t.selfClosing}
}
