package tree

import (
	"testing"

	"github.com/kestrelweb/corebrowser/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *dom.Document {
	t.Helper()
	doc, err := Parse(src).Unwrap()
	require.NoError(t, err)
	return doc
}

func TestBuildsSimpleTree(t *testing.T) {
	doc := parse(t, `<html><head><title>Hi</title></head><body><p>text</p></body></html>`)
	html := doc.RootElement()
	require.NotNil(t, html)
	assert.Equal(t, "html", html.Tag)
	kids := html.ElementChildren()
	require.Len(t, kids, 2)
	assert.Equal(t, "head", kids[0].Tag)
	assert.Equal(t, "body", kids[1].Tag)
}

func TestVoidElementNeverReceivesChildren(t *testing.T) {
	doc := parse(t, `<div><img src="x.png">text after</div>`)
	div := doc.ElementsByTagName("div")[0]
	kids := div.TreeNode().Children(true)
	require.Len(t, kids, 2)
	assert.Equal(t, dom.ElementKind, dom.NodeOf(kids[0]).Kind)
	assert.Equal(t, dom.TextKind, dom.NodeOf(kids[1]).Kind)
}

func TestUnmatchedEndTagIsDropped(t *testing.T) {
	doc := parse(t, `<div></span><p>still here</p></div>`)
	div := doc.ElementsByTagName("div")[0]
	assert.Len(t, div.ElementChildren(), 1)
	assert.Equal(t, "p", div.ElementChildren()[0].Tag)
}

func TestEndTagClosesAncestorsUpToMatch(t *testing.T) {
	doc := parse(t, `<div><p><b>bold</div>`)
	div := doc.ElementsByTagName("div")[0]
	p := div.ElementChildren()[0]
	b := p.ElementChildren()[0]
	assert.Equal(t, "bold", b.TextContent())
}

func TestDuplicateAttributeKeepsFirstThroughTree(t *testing.T) {
	doc := parse(t, `<a href="one" href="two">link</a>`)
	a := doc.ElementsByTagName("a")[0]
	v, ok := a.Attrs.Get("href")
	require.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestDoctypeRecorded(t *testing.T) {
	doc := parse(t, `<!DOCTYPE html><html></html>`)
	dt, ok := doc.Doctype.Get()
	require.True(t, ok)
	assert.Equal(t, "html", dt.Name)
}
