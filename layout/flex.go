package layout

import (
	"github.com/kestrelweb/corebrowser/style"
	"github.com/kestrelweb/corebrowser/tree"
)

// layoutFlex implements spec §4.5's flex container algorithm: base sizes,
// free-space distribution by flex-grow, justify-content/align-items
// positioning. flex-direction's reverse variants are accepted but the
// visual order is not reversed (documented deviation, spec §9).
func layoutFlex(styled *tree.Node[*style.StyledNode], cb *containingBlock, viewportW, viewportH float64) *tree.Node[*Box] {
	sn := style.StyledNodeOf(styled)
	cs := sn.Style()
	margin, border, padding := resolvedEdges(cs)

	horizontalEdges := margin.Left + margin.Right + border.Left + border.Right + padding.Left + padding.Right
	contentW := resolveWidth(cs, cb, horizontalEdges)

	x := cb.X + margin.Left + border.Left + padding.Left
	y := cb.Y + cb.Cursor + margin.Top + border.Top + padding.Top

	containerTn := NewBox(BoxFlex, sn)
	container := BoxOf(containerTn)
	container.Margin, container.Border, container.Padding = margin, border, padding
	container.Content = Rect{X: x, Y: y, W: contentW}
	if cs.Height.Present {
		container.Content.H = cs.Height.Value
	}

	isRow := cs.FlexDirection == style.FlexRow || cs.FlexDirection == style.FlexRowReverse
	gap := cs.Gap

	type item struct {
		tn     *tree.Node[*Box]
		box    *Box
		cs     style.ComputedStyle
		styled *tree.Node[*style.StyledNode]
		grow   float64
	}
	var items []item

	for _, child := range styled.Children(true) {
		childSn := style.StyledNodeOf(child)
		if childSn == nil {
			continue
		}
		childCs := childSn.Style()
		if childCs.Display == style.DisplayNone {
			continue
		}
		childMargin, childBorder, childPadding := resolvedEdges(childCs)

		var baseSize float64
		if isRow {
			if childCs.Width.Present {
				baseSize = childCs.Width.Value
			} else {
				baseSize = 100.0
			}
		} else {
			if childCs.Height.Present {
				baseSize = childCs.Height.Value
			} else {
				baseSize = 50.0
			}
		}

		itemTn := NewBox(BoxBlock, childSn)
		itemBox := BoxOf(itemTn)
		itemBox.Margin, itemBox.Border, itemBox.Padding = childMargin, childBorder, childPadding
		if isRow {
			itemBox.Content = Rect{W: baseSize, H: 50.0}
		} else {
			itemBox.Content = Rect{W: contentW, H: baseSize}
		}
		items = append(items, item{tn: itemTn, box: itemBox, cs: childCs, styled: child, grow: childCs.FlexGrow})
	}

	var totalBase, totalGrow float64
	for _, it := range items {
		if isRow {
			totalBase += it.box.Content.W + it.box.Margin.Left + it.box.Margin.Right +
				it.box.Border.Left + it.box.Border.Right + it.box.Padding.Left + it.box.Padding.Right
		} else {
			totalBase += it.box.Content.H + it.box.Margin.Top + it.box.Margin.Bottom +
				it.box.Border.Top + it.box.Border.Bottom + it.box.Padding.Top + it.box.Padding.Bottom
		}
		totalGrow += it.grow
	}
	if len(items) > 0 {
		totalBase += gap * float64(len(items)-1)
	}

	availableSpace := contentW
	if !isRow {
		if cs.Height.Present {
			availableSpace = cs.Height.Value
		} else {
			availableSpace = 0 // resolved below once children are placed
		}
	}
	freeSpace := availableSpace - totalBase
	if freeSpace < 0 {
		freeSpace = 0
	}

	n := float64(len(items))
	var startOffset, spacing float64
	switch cs.Justify {
	case style.JustifyStart:
		startOffset, spacing = 0, 0
	case style.JustifyEnd:
		startOffset, spacing = freeSpace, 0
	case style.JustifyCenter:
		startOffset, spacing = freeSpace/2, 0
	case style.JustifySpaceBetween:
		if n > 1 {
			spacing = freeSpace / (n - 1)
		}
	case style.JustifySpaceAround:
		if n > 0 {
			spacing = freeSpace / n
			startOffset = spacing / 2
		}
	}

	pos := startOffset
	for _, it := range items {
		if totalGrow > 0 && it.grow > 0 {
			extra := freeSpace * (it.grow / totalGrow)
			if isRow {
				it.box.Content.W += extra
			} else {
				it.box.Content.H += extra
			}
		}

		if isRow {
			it.box.Content.X = container.Content.X + pos + it.box.Margin.Left + it.box.Border.Left + it.box.Padding.Left
			crossSize := it.box.Margin.Top + it.box.Margin.Bottom + it.box.Border.Top + it.box.Border.Bottom +
				it.box.Padding.Top + it.box.Padding.Bottom + it.box.Content.H
			crossSpace := container.Content.H - crossSize
			switch cs.AlignItems {
			case style.AlignStart:
				it.box.Content.Y = container.Content.Y + it.box.Margin.Top + it.box.Border.Top + it.box.Padding.Top
			case style.AlignEnd:
				it.box.Content.Y = container.Content.Y + crossSpace + it.box.Margin.Top + it.box.Border.Top + it.box.Padding.Top
			case style.AlignCenter:
				it.box.Content.Y = container.Content.Y + crossSpace/2 + it.box.Margin.Top + it.box.Border.Top + it.box.Padding.Top
			case style.AlignStretch:
				it.box.Content.H = container.Content.H - it.box.Margin.Top - it.box.Margin.Bottom -
					it.box.Border.Top - it.box.Border.Bottom - it.box.Padding.Top - it.box.Padding.Bottom
				it.box.Content.Y = container.Content.Y + it.box.Margin.Top + it.box.Border.Top + it.box.Padding.Top
			}
			pos += it.box.MarginBoxWidth() + gap + spacing
		} else {
			it.box.Content.Y = container.Content.Y + pos + it.box.Margin.Top + it.box.Border.Top + it.box.Padding.Top
			crossSize := it.box.Margin.Left + it.box.Margin.Right + it.box.Border.Left + it.box.Border.Right +
				it.box.Padding.Left + it.box.Padding.Right + it.box.Content.W
			crossSpace := container.Content.W - crossSize
			switch cs.AlignItems {
			case style.AlignStart:
				it.box.Content.X = container.Content.X + it.box.Margin.Left + it.box.Border.Left + it.box.Padding.Left
			case style.AlignEnd:
				it.box.Content.X = container.Content.X + crossSpace + it.box.Margin.Left + it.box.Border.Left + it.box.Padding.Left
			case style.AlignCenter:
				it.box.Content.X = container.Content.X + crossSpace/2 + it.box.Margin.Left + it.box.Border.Left + it.box.Padding.Left
			case style.AlignStretch:
				it.box.Content.W = container.Content.W - it.box.Margin.Left - it.box.Margin.Right -
					it.box.Border.Left - it.box.Border.Right - it.box.Padding.Left - it.box.Padding.Right
				it.box.Content.X = container.Content.X + it.box.Margin.Left + it.box.Border.Left + it.box.Padding.Left
			}
			pos += it.box.MarginBoxHeight() + gap + spacing
		}

		itemCB := &containingBlock{X: it.box.Content.X, Y: it.box.Content.Y, W: it.box.Content.W}
		layoutFlexItemChildren(it.tn, it.styled, itemCB, viewportW, viewportH)
		containerTn.AddChild(it.tn)
	}

	switch {
	case cs.Height.Present:
		container.Content.H = cs.Height.Value
	case isRow:
		var maxH float64
		for _, it := range items {
			if h := it.box.MarginBoxHeight(); h > maxH {
				maxH = h
			}
		}
		container.Content.H = maxH
	default:
		container.Content.H = pos
	}

	return containerTn
}

// layoutFlexItemChildren recurses into a flex item's own children against
// its now-finalized content box, mirroring the original's "recursively
// layout children" step once a flex item's own box is positioned.
func layoutFlexItemChildren(itemTn *tree.Node[*Box], itemStyled *tree.Node[*style.StyledNode], cb *containingBlock, viewportW, viewportH float64) {
	sn := style.StyledNodeOf(itemStyled)
	if sn == nil {
		return
	}
	el := sn.DOMNode()
	for _, child := range itemStyled.Children(true) {
		childSn := style.StyledNodeOf(child)
		if childSn == nil {
			continue
		}
		childBox := layoutNode(child, cb, viewportW, viewportH)
		if childBox == nil {
			continue
		}
		itemTn.AddChild(childBox)
		cb.Cursor += BoxOf(childBox).MarginBoxHeight()
	}
	cursor := cb.Cursor
	appendTextChildren(el, itemTn, sn.Style(), &cursor, cb.X, cb.Y)
}

// MarginBoxWidth mirrors MarginBoxHeight for the inline axis.
func (b *Box) MarginBoxWidth() float64 {
	return b.Margin.Left + b.Margin.Right + b.Border.Left + b.Border.Right +
		b.Padding.Left + b.Padding.Right + b.Content.W
}
