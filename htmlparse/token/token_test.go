package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Tokenize(src).Unwrap()
	require.NoError(t, err)
	return toks
}

func TestSimpleStartAndEndTag(t *testing.T) {
	toks := tokenize(t, "<p>hi</p>")
	require.Len(t, toks, 4)
	assert.Equal(t, StartTagToken, toks[0].Kind)
	assert.Equal(t, "p", toks[0].Name)
	assert.Equal(t, TextToken, toks[1].Kind)
	assert.Equal(t, "hi", toks[1].Text)
	assert.Equal(t, EndTagToken, toks[2].Kind)
	assert.Equal(t, "p", toks[2].Name)
	assert.Equal(t, EOFToken, toks[3].Kind)
}

func TestTagAndAttributeNamesAreLowercased(t *testing.T) {
	toks := tokenize(t, `<DIV CLASS="x"></DIV>`)
	assert.Equal(t, "div", toks[0].Name)
	require.Len(t, toks[0].Attrs, 1)
	assert.Equal(t, "class", toks[0].Attrs[0].Name)
}

func TestDuplicateAttributeKeepsFirst(t *testing.T) {
	toks := tokenize(t, `<a href="one" href="two">`)
	require.Len(t, toks[0].Attrs, 1)
	assert.Equal(t, "one", toks[0].Attrs[0].Value)
}

func TestUnquotedAndSingleQuotedAttributeValues(t *testing.T) {
	toks := tokenize(t, `<input type=text value='hi there'>`)
	attrs := toks[0].Attrs
	require.Len(t, attrs, 2)
	assert.Equal(t, Attr{"type", "text"}, attrs[0])
	assert.Equal(t, Attr{"value", "hi there"}, attrs[1])
}

func TestSelfClosingTag(t *testing.T) {
	toks := tokenize(t, `<br/>`)
	assert.True(t, toks[0].SelfClosing)
	assert.Equal(t, "br", toks[0].Name)
}

func TestComment(t *testing.T) {
	toks := tokenize(t, `<!-- hello -->`)
	require.Len(t, toks, 2)
	assert.Equal(t, CommentToken, toks[0].Kind)
	assert.Equal(t, " hello ", toks[0].Text)
}

func TestDoctype(t *testing.T) {
	toks := tokenize(t, `<!DOCTYPE html>`)
	require.Len(t, toks, 2)
	assert.Equal(t, DoctypeToken, toks[0].Kind)
	assert.Equal(t, "html", toks[0].Name)
}

func TestDoctypeCaseInsensitiveKeyword(t *testing.T) {
	toks := tokenize(t, `<!doctype HTML>`)
	assert.Equal(t, DoctypeToken, toks[0].Kind)
	assert.Equal(t, "html", toks[0].Name)
}

func TestBogusCommentOnMalformedMarkupDeclaration(t *testing.T) {
	toks := tokenize(t, `<![CDATA[x]]>`)
	assert.Equal(t, CommentToken, toks[0].Kind)
}

func TestUnterminatedAttributeValueErrors(t *testing.T) {
	_, err := Tokenize(`<a href="unterminated`).Unwrap()
	require.Error(t, err)
}

func TestMultipleSiblingTags(t *testing.T) {
	toks := tokenize(t, `<ul><li>a</li><li>b</li></ul>`)
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{
		StartTagToken, StartTagToken, TextToken, EndTagToken,
		StartTagToken, TextToken, EndTagToken, EndTagToken, EOFToken,
	}, kinds)
}
