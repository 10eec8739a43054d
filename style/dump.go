package style

import (
	"fmt"

	"github.com/kestrelweb/corebrowser/tree"
	"github.com/xlab/treeprint"
)

// DumpStyled renders a styled tree as indented text, the cascade-stage
// counterpart of dom.Dump, for cmd/browserdebug's inspection mode.
func DumpStyled(root *tree.Node[*StyledNode]) string {
	t := treeprint.New()
	if root == nil {
		t.SetValue("(empty)")
		return t.String()
	}
	sn := StyledNodeOf(root)
	t.SetValue(describeStyled(sn))
	dumpStyledChildren(t, root)
	return t.String()
}

func dumpStyledChildren(branch treeprint.Tree, tn *tree.Node[*StyledNode]) {
	for _, ch := range tn.Children(true) {
		sn := StyledNodeOf(ch)
		if sn == nil {
			continue
		}
		b := branch.AddBranch(describeStyled(sn))
		dumpStyledChildren(b, ch)
	}
}

func describeStyled(sn *StyledNode) string {
	if sn == nil || sn.domNode == nil {
		return "(nil)"
	}
	cs := sn.style
	return fmt.Sprintf("<%s> display=%s color=#%02x%02x%02x bg=#%02x%02x%02x",
		sn.domNode.Tag, displayName(cs.Display),
		cs.Color.R, cs.Color.G, cs.Color.B,
		cs.BackgroundColor.R, cs.BackgroundColor.G, cs.BackgroundColor.B)
}

func displayName(d Display) string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayInline:
		return "inline"
	case DisplayInlineBlock:
		return "inline-block"
	case DisplayFlex:
		return "flex"
	case DisplayNone:
		return "none"
	}
	return "?"
}
