package style

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kestrelweb/corebrowser/css/parser"
	htmltree "github.com/kestrelweb/corebrowser/htmlparse/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeSpecificityOrdering(t *testing.T) {
	doc, err := htmltree.Parse(`<div id="x" class="c">hi</div>`).Unwrap()
	require.NoError(t, err)
	sheet := parser.Parse(`div{color:blue} .c{color:green} #x{color:red}`)

	div := doc.ElementsByTagName("div")[0]
	cs := Resolve(div, Default(), sheet.Rules)
	assert.Equal(t, parser.Color{R: 255, A: 255}, cs.Color)
}

func TestImportantElevatesOverSpecificity(t *testing.T) {
	doc, err := htmltree.Parse(`<p id="x">hi</p>`).Unwrap()
	require.NoError(t, err)
	sheet := parser.Parse(`#x{color:red} p{color:blue !important}`)

	p := doc.ElementsByTagName("p")[0]
	cs := Resolve(p, Default(), sheet.Rules)
	assert.Equal(t, parser.Color{B: 255, A: 255}, cs.Color)
}

func TestInlineStyleWins(t *testing.T) {
	doc, err := htmltree.Parse(`<p id="x" style="color: green">hi</p>`).Unwrap()
	require.NoError(t, err)
	sheet := parser.Parse(`#x{color:red}`)

	p := doc.ElementsByTagName("p")[0]
	cs := Resolve(p, Default(), sheet.Rules)
	assert.Equal(t, parser.Color{G: 128, A: 255}, cs.Color)
}

func TestTagDefaultAppliesBeforeRules(t *testing.T) {
	doc, err := htmltree.Parse(`<h1>Title</h1>`).Unwrap()
	require.NoError(t, err)
	h1 := doc.ElementsByTagName("h1")[0]
	cs := Resolve(h1, Default(), nil)
	assert.Equal(t, 32.0, cs.FontSize)
	assert.Equal(t, 700, cs.FontWeight)
}

func TestInheritedColorPropagates(t *testing.T) {
	doc, err := htmltree.Parse(`<div><span>hi</span></div>`).Unwrap()
	require.NoError(t, err)
	sheet := parser.Parse(`div{color:red}`)
	tn := BuildTree(doc, sheet)
	span := StyledNodeOf(tn).TreeNode().Children(true)[0]
	assert.Equal(t, parser.Color{R: 255, A: 255}, StyledNodeOf(span).Style().Color)
}

func TestDisplayNoneForHeadElements(t *testing.T) {
	doc, err := htmltree.Parse(`<head><title>t</title></head>`).Unwrap()
	require.NoError(t, err)
	head := doc.ElementsByTagName("head")[0]
	cs := Resolve(head, Default(), nil)
	assert.Equal(t, DisplayNone, cs.Display)
}

func TestIdenticalRulesProduceIdenticalComputedStyle(t *testing.T) {
	doc, err := htmltree.Parse(`<div class="c">a</div><div class="c">b</div>`).Unwrap()
	require.NoError(t, err)
	sheet := parser.Parse(`.c{color:red;font-size:20px;display:flex;justify-content:center}`)

	divs := doc.ElementsByTagName("div")
	a := Resolve(divs[0], Default(), sheet.Rules)
	b := Resolve(divs[1], Default(), sheet.Rules)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same rules on same tag produced diverging ComputedStyle (-a +b):\n%s", diff)
	}
}

func TestWidthPercentDeferredToLayout(t *testing.T) {
	doc, err := htmltree.Parse(`<div class="w">x</div>`).Unwrap()
	require.NoError(t, err)
	sheet := parser.Parse(`.w{width:50%}`)
	div := doc.ElementsByTagName("div")[0]
	cs := Resolve(div, Default(), sheet.Rules)
	assert.False(t, cs.Width.Present)
	assert.True(t, cs.WidthPercent.Present)
	assert.Equal(t, 50.0, cs.WidthPercent.Value)
}
