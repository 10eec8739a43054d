package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicRule(t *testing.T) {
	sheet := Parse("div { color: red; }")
	require.Len(t, sheet.Rules, 1)
	require.Len(t, sheet.Rules[0].Declarations, 1)
	assert.Equal(t, "color", sheet.Rules[0].Declarations[0].Property)
	assert.Equal(t, ValColor, sheet.Rules[0].Declarations[0].Value.Kind)
}

func TestMultipleSelectors(t *testing.T) {
	sheet := Parse(".foo, #bar, p { margin: 10px; }")
	require.Len(t, sheet.Rules, 1)
	assert.Len(t, sheet.Rules[0].Selectors, 3)
}

func TestHexColors(t *testing.T) {
	sheet := Parse("div { color: #ff0000; background: #0f0; }")
	c := sheet.Rules[0].Declarations[0].Value.Color
	assert.Equal(t, Color{255, 0, 0, 255}, c)
	c2 := sheet.Rules[0].Declarations[1].Value.Color
	assert.Equal(t, Color{0, 255, 0, 255}, c2)
}

func TestDimensions(t *testing.T) {
	sheet := Parse("div { width: 100px; height: 50%; margin: 1em; }")
	require.Len(t, sheet.Rules[0].Declarations, 3)
	assert.Equal(t, ValLength, sheet.Rules[0].Declarations[0].Value.Kind)
	assert.Equal(t, "px", sheet.Rules[0].Declarations[0].Value.Unit)
	assert.Equal(t, ValPercentage, sheet.Rules[0].Declarations[1].Value.Kind)
}

func TestSpecificity(t *testing.T) {
	sheet := Parse("#id .class div { color: red; }")
	spec := sheet.Rules[0].Selectors[0].Specificity
	assert.Equal(t, Specificity{A: 1, B: 1, C: 1}, spec)
}

func TestImportantFlag(t *testing.T) {
	sheet := Parse("p { color: red !important; }")
	assert.True(t, sheet.Rules[0].Declarations[0].Important)
}

func TestRgbaFunction(t *testing.T) {
	sheet := Parse("p { color: rgba(0, 128, 255, 0.5); }")
	c := sheet.Rules[0].Declarations[0].Value.Color
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(255), c.B)
	assert.InDelta(t, 127, int(c.A), 2)
}

func TestAttributeSelector(t *testing.T) {
	sheet := Parse(`a[href="x"] { color: blue; }`)
	parts := sheet.Rules[0].Selectors[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, PartAttribute, parts[1].Kind)
	assert.Equal(t, AttrEquals, parts[1].AttrOp)
	assert.Equal(t, "x", parts[1].AttrValue)
}

func TestAtRuleIsSkipped(t *testing.T) {
	sheet := Parse("@media screen { p { color: red; } } div { color: blue; }")
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, PartType, sheet.Rules[0].Selectors[0].Parts[0].Kind)
	assert.Equal(t, "div", sheet.Rules[0].Selectors[0].Parts[0].Name)
}

func TestDescendantCombinatorInferred(t *testing.T) {
	sheet := Parse("div p { color: red; }")
	parts := sheet.Rules[0].Selectors[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, PartCombinator, parts[1].Kind)
	assert.Equal(t, Descendant, parts[1].Combinator)
}
