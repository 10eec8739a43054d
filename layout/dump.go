package layout

import (
	"fmt"

	"github.com/kestrelweb/corebrowser/tree"
	"github.com/xlab/treeprint"
)

// DumpLayout renders a box tree as indented text, the layout-stage
// counterpart of dom.Dump/style.DumpStyled, for cmd/browserdebug's
// inspection mode.
func DumpLayout(root *tree.Node[*Box]) string {
	t := treeprint.New()
	if root == nil {
		t.SetValue("(empty)")
		return t.String()
	}
	t.SetValue(describeBox(BoxOf(root)))
	dumpBoxChildren(t, root)
	return t.String()
}

func dumpBoxChildren(branch treeprint.Tree, tn *tree.Node[*Box]) {
	for _, ch := range tn.Children(true) {
		b := BoxOf(ch)
		if b == nil {
			continue
		}
		branch2 := branch.AddBranch(describeBox(b))
		dumpBoxChildren(branch2, ch)
	}
}

func describeBox(b *Box) string {
	if b == nil {
		return "(nil)"
	}
	r := b.BorderBoxRect()
	return fmt.Sprintf("%s [%.0f,%.0f %.0fx%.0f]", boxKindName(b.Kind), r.X, r.Y, r.W, r.H)
}

func boxKindName(k BoxKind) string {
	switch k {
	case BoxBlock:
		return "block"
	case BoxInlineBlock:
		return "inline-block"
	case BoxInline:
		return "inline"
	case BoxText:
		return "text"
	case BoxFlex:
		return "flex"
	case BoxImage:
		return "image"
	}
	return "?"
}
