package host

import (
	"strings"

	"github.com/kestrelweb/corebrowser/css/parser"
	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/js/interp"
	"github.com/kestrelweb/corebrowser/style"
	"github.com/kestrelweb/corebrowser/tree"
)

// installDocumentAndWindow ports dom_bridge.rs's create_document_object/
// create_window_object/create_location_object/create_navigator_object.
// Unlike the original, whose document/window methods return freshly
// fabricated mock objects on every call, this port backs getElementById/
// querySelector/createElement/appendChild/setAttribute against the real
// *dom.Document the page was parsed into, since that document already
// exists by the time a <script> runs (spec §5's load order).
//
// doc may be nil (a script evaluated with no page, e.g. a REPL); document
// lookups then behave as if the document were always empty.
func installDocumentAndWindow(in *interp.Interp, doc *dom.Document) {
	in.DefineGlobal("document", documentObject(in, doc))
	in.DefineGlobal("window", windowObject(in, doc))
	in.DefineGlobal("navigator", navigatorObject())
}

func documentObject(in *interp.Interp, doc *dom.Document) interp.Value {
	obj := interp.NewObject()

	obj.Set("getElementById", nativeFn("getElementById", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		id := arg(args, 0).ToJsString()
		if doc == nil {
			return interp.Null, nil
		}
		n := doc.GetElementByID(id)
		if n == nil {
			return interp.Null, nil
		}
		return elementValue(n.TreeNode()), nil
	}))

	obj.Set("querySelector", nativeFn("querySelector", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		if doc == nil {
			return interp.Null, nil
		}
		sels, ok := parser.ParseSelectors(arg(args, 0).ToJsString())
		if !ok {
			return interp.Null, nil
		}
		n := doc.Find(func(el *dom.Node) bool { return matchesAny(sels, el) })
		if n == nil {
			return interp.Null, nil
		}
		return elementValue(n.TreeNode()), nil
	}))

	obj.Set("querySelectorAll", nativeFn("querySelectorAll", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		elems := &interp.Array{}
		if doc == nil {
			return interp.ArrayValue(elems), nil
		}
		sels, ok := parser.ParseSelectors(arg(args, 0).ToJsString())
		if !ok {
			return interp.ArrayValue(elems), nil
		}
		for _, n := range doc.FindAll(func(el *dom.Node) bool { return matchesAny(sels, el) }) {
			elems.Elems = append(elems.Elems, elementValue(n.TreeNode()))
		}
		return interp.ArrayValue(elems), nil
	}))

	obj.Set("createElement", nativeFn("createElement", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		tag := arg(args, 0).ToJsString()
		return elementValue(dom.NewElement(tag)), nil
	}))

	obj.Set("createTextNode", nativeFn("createTextNode", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return textNodeValue(dom.NewText(arg(args, 0).ToJsString())), nil
	}))

	obj.Set("write", nativeFn("write", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		tracer().Debugf("document.write: %s", arg(args, 0).ToJsString())
		return interp.Undefined, nil
	}))

	body := interp.Value{Kind: interp.KindNull}
	if doc != nil {
		if b := doc.Find(func(n *dom.Node) bool { return n.Tag == "body" }); b != nil {
			body = elementValue(b.TreeNode())
		}
	}
	obj.Set("body", body)

	return interp.ObjectValue(obj)
}

func windowObject(in *interp.Interp, doc *dom.Document) interp.Value {
	obj := interp.NewObject()
	obj.Set("location", locationObject(doc))
	obj.Set("navigator", navigatorObject())
	obj.Set("alert", nativeFn("alert", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		in.AppendConsole("[ALERT] " + arg(args, 0).ToJsString())
		return interp.Undefined, nil
	}))
	obj.Set("confirm", nativeFn("confirm", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		in.AppendConsole("[CONFIRM] " + arg(args, 0).ToJsString())
		return interp.Bool(true), nil
	}))
	return interp.ObjectValue(obj)
}

func locationObject(doc *dom.Document) interp.Value {
	href := ""
	if doc != nil {
		href = doc.BaseURL
	}
	obj := interp.NewObject()
	obj.Set("href", interp.String(href))
	obj.Set("hostname", interp.String(""))
	obj.Set("host", interp.String(""))
	obj.Set("pathname", interp.String(""))
	obj.Set("protocol", interp.String(""))
	obj.Set("origin", interp.String(""))
	obj.Set("search", interp.String(""))
	obj.Set("hash", interp.String(""))
	obj.Set("reload", nativeFn("reload", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		tracer().Debugf("location.reload()")
		return interp.Undefined, nil
	}))
	return interp.ObjectValue(obj)
}

func navigatorObject() interp.Value {
	obj := interp.NewObject()
	obj.Set("userAgent", interp.String("Mozilla/5.0 (X11; Linux x86_64) corebrowser/1.0"))
	obj.Set("language", interp.String("en-US"))
	obj.Set("platform", interp.String("Linux"))
	obj.Set("cookieEnabled", interp.Bool(true))
	obj.Set("onLine", interp.Bool(true))
	return interp.ObjectValue(obj)
}

func matchesAny(sels []parser.Selector, el *dom.Node) bool {
	for _, s := range sels {
		if style.MatchesSelector(s, el) {
			return true
		}
	}
	return false
}

// elementValue wraps a live DOM element node as a JS element object, its
// Native field anchoring it back to tn so setAttribute/appendChild/etc
// mutate the real tree instead of a disposable snapshot.
func elementValue(tn *tree.Node[*dom.Node]) interp.Value {
	n := dom.NodeOf(tn)
	obj := interp.NewObject()
	obj.Native = tn

	obj.Set("tagName", interp.String(strings.ToUpper(n.Tag)))
	id, _ := n.Attrs.Get("id")
	obj.Set("id", interp.String(id))
	class, _ := n.Attrs.Get("class")
	obj.Set("className", interp.String(class))
	obj.Set("textContent", interp.String(n.TextContent()))
	obj.Set("innerText", interp.String(n.TextContent()))
	obj.Set("style", styleObject())

	obj.Set("getAttribute", nativeFn("getAttribute", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		v, ok := n.Attrs.Get(arg(args, 0).ToJsString())
		if !ok {
			return interp.Null, nil
		}
		return interp.String(v), nil
	}))
	obj.Set("setAttribute", nativeFn("setAttribute", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		n.Attrs.Set(arg(args, 0).ToJsString(), arg(args, 1).ToJsString())
		return interp.Undefined, nil
	}))
	obj.Set("removeAttribute", nativeFn("removeAttribute", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		n.Attrs.Remove(arg(args, 0).ToJsString())
		return interp.Undefined, nil
	}))
	obj.Set("appendChild", nativeFn("appendChild", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		child := arg(args, 0)
		if child.Kind == interp.KindObject {
			if childTn, ok := child.Obj.Native.(*tree.Node[*dom.Node]); ok {
				tn.AddChild(childTn)
			}
		}
		return child, nil
	}))
	obj.Set("removeChild", nativeFn("removeChild", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		child := arg(args, 0)
		if child.Kind == interp.KindObject {
			if childTn, ok := child.Obj.Native.(*tree.Node[*dom.Node]); ok {
				childTn.Isolate()
			}
		}
		return child, nil
	}))
	obj.Set("addEventListener", nativeFn("addEventListener", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		tracer().Debugf("addEventListener(%q, callback) recorded, not dispatched", arg(args, 0).ToJsString())
		return interp.Undefined, nil
	}))
	obj.Set("querySelector", nativeFn("querySelector", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		sels, ok := parser.ParseSelectors(arg(args, 0).ToJsString())
		if !ok {
			return interp.Null, nil
		}
		match := findInSubtree(tn, func(el *dom.Node) bool { return matchesAny(sels, el) })
		if match == nil {
			return interp.Null, nil
		}
		return elementValue(match), nil
	}))

	return interp.ObjectValue(obj)
}

// textNodeValue wraps a text node; it carries no element methods, matching
// the original's own minimal createTextNode stand-in.
func textNodeValue(tn *tree.Node[*dom.Node]) interp.Value {
	n := dom.NodeOf(tn)
	obj := interp.NewObject()
	obj.Native = tn
	obj.Set("nodeValue", interp.String(n.Data))
	obj.Set("textContent", interp.String(n.Data))
	return interp.ObjectValue(obj)
}

func styleObject() interp.Value {
	obj := interp.NewObject()
	for _, prop := range []string{
		"display", "color", "backgroundColor", "width", "height", "margin",
		"padding", "border", "fontSize", "fontFamily", "position", "top",
		"left", "right", "bottom",
	} {
		obj.Set(prop, interp.String(""))
	}
	return interp.ObjectValue(obj)
}

// findInSubtree walks tn's descendants (not tn itself) for the first
// element satisfying pred, in document order.
func findInSubtree(tn *tree.Node[*dom.Node], pred func(*dom.Node) bool) *tree.Node[*dom.Node] {
	for _, ch := range tn.Children(true) {
		if n := dom.NodeOf(ch); n != nil && n.Kind == dom.ElementKind && pred(n) {
			return ch
		}
		if found := findInSubtree(ch, pred); found != nil {
			return found
		}
	}
	return nil
}
