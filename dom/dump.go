package dom

import (
	"fmt"
	"strings"

	"github.com/kestrelweb/corebrowser/tree"
	"github.com/xlab/treeprint"
)

// Dump renders a document's tree as indented text, for debugging. The
// teacher repo imports treeprint but never calls it; here it backs the
// "print the DOM" half of cmd/browserdebug.
func Dump(d *Document) string {
	root := treeprint.New()
	root.SetValue(fmt.Sprintf("#document id=%d", NodeOf(d.root).id))
	dumpChildren(root, d.root)
	return root.String()
}

func dumpChildren(branch treeprint.Tree, tn *tree.Node[*Node]) {
	for _, ch := range tn.Children(true) {
		n := NodeOf(ch)
		if n == nil {
			continue
		}
		b := branch.AddBranch(describe(n))
		dumpChildren(b, ch)
	}
}

func describe(n *Node) string {
	switch n.Kind {
	case ElementKind:
		var attrs strings.Builder
		n.Attrs.Each(func(name, value string) {
			fmt.Fprintf(&attrs, " %s=%q", name, value)
		})
		return fmt.Sprintf("<%s%s> #%d", n.Tag, attrs.String(), n.id)
	case TextKind:
		t := strings.TrimSpace(n.Data)
		if len(t) > 40 {
			t = t[:40] + "…"
		}
		return fmt.Sprintf("#text %q", t)
	case CommentKind:
		return fmt.Sprintf("#comment %q", n.Data)
	case DocumentTypeKind:
		return fmt.Sprintf("#doctype %s", n.Doctype.Name)
	}
	return n.Kind.String()
}
