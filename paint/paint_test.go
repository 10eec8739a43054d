package paint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kestrelweb/corebrowser/css/parser"
	htmltree "github.com/kestrelweb/corebrowser/htmlparse/tree"
	"github.com/kestrelweb/corebrowser/layout"
	"github.com/kestrelweb/corebrowser/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDisplayList(t *testing.T, html, css string) *DisplayList {
	t.Helper()
	doc, err := htmltree.Parse(html).Unwrap()
	require.NoError(t, err)
	sheet := parser.Parse(css)
	styled := style.BuildTree(doc, sheet)
	root := layout.Layout(styled, 800, 600)
	return BuildDisplayList(root, nil)
}

func TestBackgroundColorEmitsSolidColor(t *testing.T) {
	dl := buildDisplayList(t, `<div class="b">x</div>`, `.b{background-color:red}`)
	require.NotEmpty(t, dl.Commands)
	assert.Equal(t, CmdSolidColor, dl.Commands[0].Kind)
	assert.Equal(t, Color{255, 0, 0, 255}, dl.Commands[0].Color)
}

func TestBorderRadiusEmitsRoundedRect(t *testing.T) {
	dl := buildDisplayList(t, `<div class="b">x</div>`, `.b{background-color:blue;border-radius:5px}`)
	require.NotEmpty(t, dl.Commands)
	assert.Equal(t, CmdRoundedRect, dl.Commands[0].Kind)
}

func TestTransparentBackgroundSkipped(t *testing.T) {
	dl := buildDisplayList(t, `<div>x</div>`, ``)
	for _, cmd := range dl.Commands {
		assert.NotEqual(t, CmdSolidColor, cmd.Kind)
	}
}

func TestTextCommandEmitted(t *testing.T) {
	dl := buildDisplayList(t, `<p>hi</p>`, ``)
	var found bool
	for _, cmd := range dl.Commands {
		if cmd.Kind == CmdText {
			found = true
			assert.Equal(t, "hi", cmd.Text)
		}
	}
	assert.True(t, found)
}

func TestBuildDisplayListIsDeterministic(t *testing.T) {
	html := `<div class="b"><p>hi</p></div>`
	css := `.b{background-color:red;border-radius:5px}`
	first := buildDisplayList(t, html, css)
	second := buildDisplayList(t, html, css)
	if diff := cmp.Diff(first.Commands, second.Commands); diff != "" {
		t.Errorf("BuildDisplayList produced different commands for identical input (-first +second):\n%s", diff)
	}
}

func TestBlendOverOpaqueForeground(t *testing.T) {
	fg := Color{R: 10, G: 20, B: 30, A: 255}
	bg := Color{R: 0, G: 0, B: 0, A: 255}
	assert.Equal(t, fg, fg.BlendOver(bg))
}

func TestBlendOverTransparentForeground(t *testing.T) {
	fg := Color{A: 0}
	bg := Color{R: 1, G: 2, B: 3, A: 255}
	assert.Equal(t, bg, fg.BlendOver(bg))
}

func TestRendererFillRectSolidColor(t *testing.T) {
	r := NewRenderer(10, 10)
	r.fillRect(Rect{X: 2, Y: 2, W: 3, H: 3}, Color{R: 1, G: 2, B: 3, A: 255})
	idx := 3*10 + 3
	assert.Equal(t, Color{1, 2, 3, 255}.ToU32(), r.Buffer[idx])
}

func TestRendererDrawLineBresenham(t *testing.T) {
	r := NewRenderer(10, 10)
	r.drawLine(0, 0, 5, 0, Color{R: 9, A: 255})
	for x := 0; x <= 5; x++ {
		assert.Equal(t, Color{9, 0, 0, 255}.ToU32(), r.Buffer[x])
	}
}
