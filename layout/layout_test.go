package layout

import (
	"testing"

	"github.com/kestrelweb/corebrowser/css/parser"
	htmltree "github.com/kestrelweb/corebrowser/htmlparse/tree"
	"github.com/kestrelweb/corebrowser/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBoxes(t *testing.T, html, css string, vw, vh float64) *Box {
	t.Helper()
	doc, err := htmltree.Parse(html).Unwrap()
	require.NoError(t, err)
	sheet := parser.Parse(css)
	styled := style.BuildTree(doc, sheet)
	root := Layout(styled, vw, vh)
	return BoxOf(root)
}

func TestBlockFillsContainingBlockWidth(t *testing.T) {
	root := buildBoxes(t, `<div>hi</div>`, ``, 800, 600)
	require.NotNil(t, root)
	assert.Equal(t, 800.0, root.Content.W)
}

func TestExplicitWidthOverridesFill(t *testing.T) {
	root := buildBoxes(t, `<div class="w">hi</div>`, `.w{width:200px}`, 800, 600)
	assert.Equal(t, 200.0, root.Content.W)
}

func TestChildrenStackVerticallyByMarginBoxHeight(t *testing.T) {
	root := buildBoxes(t, `<div><p class="a">x</p><p class="b">y</p></div>`,
		`.a{height:30px;margin:0} .b{height:40px;margin:0}`, 800, 600)
	kids := root.TreeNode().Children(true)
	require.Len(t, kids, 2)
	first := BoxOf(kids[0])
	second := BoxOf(kids[1])
	assert.Equal(t, 0.0, first.Content.Y)
	assert.Equal(t, 30.0, second.Content.Y)
}

func TestMinMaxWidthClamp(t *testing.T) {
	root := buildBoxes(t, `<div class="w">hi</div>`, `.w{width:10px;min-width:50px}`, 800, 600)
	assert.Equal(t, 50.0, root.Content.W)
}

func TestDisplayNoneDropsSubtree(t *testing.T) {
	root := buildBoxes(t, `<div><p class="hidden">x</p><p>y</p></div>`,
		`.hidden{display:none}`, 800, 600)
	kids := root.TreeNode().Children(true)
	assert.Len(t, kids, 1)
}

func TestImageDefaultSize(t *testing.T) {
	root := buildBoxes(t, `<img>`, ``, 800, 600)
	require.NotNil(t, root)
	assert.Equal(t, 100.0, root.Content.W)
	assert.Equal(t, 100.0, root.Content.H)
}

func TestImageExplicitSize(t *testing.T) {
	root := buildBoxes(t, `<img class="i">`, `.i{width:40px;height:20px}`, 800, 600)
	assert.Equal(t, 40.0, root.Content.W)
	assert.Equal(t, 20.0, root.Content.H)
}

func TestFlexRowBaseSizeDefault(t *testing.T) {
	root := buildBoxes(t, `<div class="f"><span>a</span><span>b</span></div>`,
		`.f{display:flex}`, 800, 600)
	kids := root.TreeNode().Children(true)
	require.Len(t, kids, 2)
	first := BoxOf(kids[0])
	assert.Equal(t, 100.0, first.Content.W)
}

func TestFlexGrowDistributesFreeSpace(t *testing.T) {
	root := buildBoxes(t, `<div class="f"><span class="g">a</span></div>`,
		`.f{display:flex;width:500px} .g{width:100px;flex-grow:1}`, 800, 600)
	kids := root.TreeNode().Children(true)
	require.Len(t, kids, 1)
	assert.Equal(t, 500.0, BoxOf(kids[0]).Content.W)
}

func TestFlexJustifyCenter(t *testing.T) {
	root := buildBoxes(t, `<div class="f"><span class="i">a</span></div>`,
		`.f{display:flex;width:500px;justify-content:center} .i{width:100px}`, 800, 600)
	kids := root.TreeNode().Children(true)
	require.Len(t, kids, 1)
	assert.Equal(t, 200.0, BoxOf(kids[0]).Content.X)
}

func TestFlexAlignItemsStretch(t *testing.T) {
	root := buildBoxes(t, `<div class="f"><span class="i">a</span></div>`,
		`.f{display:flex;width:500px;height:80px;align-items:stretch} .i{width:100px}`, 800, 600)
	kids := root.TreeNode().Children(true)
	require.Len(t, kids, 1)
	assert.Equal(t, 80.0, BoxOf(kids[0]).Content.H)
}
