// Package host installs the browser's global JavaScript bindings into a
// js/interp.Interp: console, Math, JSON, Object/Array/String/Number
// statics, localStorage/sessionStorage, Date, Promise, document/window,
// and the assorted free functions (parseInt, setTimeout, alert, ...),
// grounded on original_source/crates/js_engine/src/{builtins.rs,
// dom_bridge.rs}. js/interp itself stays host-agnostic (spec §4.9 only
// describes the evaluator); this package is where spec §4.10's host
// environment lives.
package host

import (
	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/js/interp"
	"github.com/kestrelweb/corebrowser/netfetch"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace { return tracing.Select("corebrowser.js.host") }

// nativeFn wraps a Go function that ignores `this` into an interp.Value,
// the common case for free functions and static methods.
func nativeFn(name string, fn func(in *interp.Interp, args []interp.Value) (interp.Value, error)) interp.Value {
	return interp.NativeValue(&interp.NativeFunc{
		Name: name,
		Fn: func(in *interp.Interp, _ interp.Value, args []interp.Value) (interp.Value, error) {
			return fn(in, args)
		},
	})
}

func arg(args []interp.Value, i int) interp.Value {
	if i < len(args) {
		return args[i]
	}
	return interp.Undefined
}

// Install registers every global binding onto in. doc may be nil (a script
// evaluated outside any page, e.g. the cmd/browserdebug REPL), in which
// case document/window DOM-lookup methods return Undefined/empty results
// rather than panicking. client may also be nil, in which case Install
// creates a private one for this interpreter's fetch binding; a caller
// driving multiple loads (browser.Browser) should pass its own shared
// *netfetch.Client so the TTL/ETag cache actually persists across loads.
func Install(in *interp.Interp, doc *dom.Document, client *netfetch.Client) {
	if client == nil {
		client = netfetch.NewClient()
	}
	installConsole(in)
	installMath(in)
	installJSON(in)
	installObjectConstructor(in)
	installArrayConstructor(in)
	installStringConstructor(in)
	installNumberConstructor(in)
	installStorage(in)
	installDate(in)
	installPromise(in)
	installGlobalFunctions(in)
	installDocumentAndWindow(in, doc)
	installFetch(in, client, doc)
	tracer().Debugf("installed host bindings")
}
