package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumbers(t *testing.T) {
	toks, err := Tokenize("123 45.67 1e10")
	require.NoError(t, err)
	assert.Equal(t, 123.0, toks[0].Num)
	assert.InDelta(t, 45.67, toks[1].Num, 0.001)
	assert.InDelta(t, 1e10, toks[2].Num, 1)
}

func TestStrings(t *testing.T) {
	toks, err := Tokenize(`'hello' "world"`)
	require.NoError(t, err)
	assert.Equal(t, "hello", toks[0].Str)
	assert.Equal(t, "world", toks[1].Str)
}

func TestKeywords(t *testing.T) {
	toks, err := Tokenize("var let const function if else")
	require.NoError(t, err)
	for i, want := range []string{"var", "let", "const", "function", "if", "else"} {
		assert.Equal(t, Keyword, toks[i].Kind)
		assert.Equal(t, want, toks[i].Text)
	}
}

func TestOperators(t *testing.T) {
	// The '/' follows an identifier so it lexes as division, not a regex.
	toks, err := Tokenize("+ - * x / === !==")
	require.NoError(t, err)
	want := []string{"+", "-", "*", "x", "/", "===", "!=="}
	for i, w := range want {
		assert.Equal(t, w, toks[i].Text)
	}
}

func TestUnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize(`"no close`)
	assert.Error(t, err)
}

func TestTemplateNoSubstitution(t *testing.T) {
	toks, err := Tokenize("`hello world`")
	require.NoError(t, err)
	assert.Equal(t, NoSubTemplate, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Str)
}

func TestTemplateHeadAndContinuation(t *testing.T) {
	tz := New("`a${b}c`")
	tok, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, TemplateHead, tok.Kind)
	assert.Equal(t, "a", tok.Str)
	tok, err = tz.Next()
	require.NoError(t, err)
	assert.Equal(t, Identifier, tok.Kind)
	tok, err = tz.Next()
	require.NoError(t, err)
	assert.Equal(t, "}", tok.Text)
	tok, err = tz.ReadTemplateContinuation()
	require.NoError(t, err)
	assert.Equal(t, TemplateTail, tok.Kind)
	assert.Equal(t, "c", tok.Str)
}

func TestUnicodeEscape(t *testing.T) {
	toks, err := Tokenize("\"\\u0041\"")
	require.NoError(t, err)
	assert.Equal(t, "A", toks[0].Str)
}

func TestBraceUnicodeEscape(t *testing.T) {
	toks, err := Tokenize(`"\u{1F600}"`)
	require.NoError(t, err)
	assert.Equal(t, string(rune(0x1F600)), toks[0].Str)
}

func TestRegexAfterOperatorIsRegex(t *testing.T) {
	toks, err := Tokenize("x = /abc/g")
	require.NoError(t, err)
	assert.Equal(t, RegExp, toks[2].Kind)
	assert.Equal(t, "abc", toks[2].Text)
	assert.Equal(t, "g", toks[2].Flags)
}

func TestSlashAfterIdentifierIsDivision(t *testing.T) {
	toks, err := Tokenize("a / b")
	require.NoError(t, err)
	assert.Equal(t, Operator, toks[1].Kind)
	assert.Equal(t, "/", toks[1].Text)
}

func TestUnknownCharDegradesToIdentifier(t *testing.T) {
	toks, err := Tokenize("@")
	require.NoError(t, err)
	assert.Equal(t, Identifier, toks[0].Kind)
	assert.Equal(t, "@", toks[0].Text)
}
