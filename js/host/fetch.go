package host

import (
	"strings"

	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/js/interp"
	"github.com/kestrelweb/corebrowser/netfetch"
)

// installFetch ports builtins::create_fetch, but resolves through a real
// netfetch.Client instead of fabricating a "mock data"/"mock response"
// body: the response's text()/json() and __bodyText__/__bodyJson__
// fields reflect what was actually fetched. then/catch remain stubs —
// spec's non-goals exclude a microtask queue, so a caller that depends on
// callback scheduling rather than reading __response__ directly won't see
// it invoked, matching the original.
func installFetch(in *interp.Interp, client *netfetch.Client, doc *dom.Document) {
	in.DefineGlobal("fetch", nativeFn("fetch", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		url := arg(args, 0).ToJsString()
		resp, err := client.Get(url)
		var respObj *interp.Object
		state := "fulfilled"
		if err != nil {
			respObj = errorResponseObject(url, err)
			state = "rejected"
		} else {
			respObj = responseObject(resp, doc)
		}

		promise := promiseLike(state, interp.ObjectValue(respObj)).Obj
		promise.Set("__response__", interp.ObjectValue(respObj))
		promise.Set("catch", nativeFn("catch", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
			return arg(args, 0), nil
		}))
		return interp.ObjectValue(promise), nil
	}))
}

func responseObject(resp *netfetch.Response, doc *dom.Document) *interp.Object {
	bodyText := string(resp.Body)
	bodyJSON, hasJSON := parseJSONValue(bodyText)
	if !hasJSON {
		bodyJSON = interp.Null
	}

	headers := interp.NewObject()
	for k := range resp.Headers {
		headers.Set(strings.ToLower(k), interp.String(resp.Headers.Get(k)))
	}

	credentialed := doc != nil && netfetch.SameOrigin(doc.BaseURL, resp.URL)

	obj := interp.NewObject()
	obj.Set("ok", interp.Bool(resp.Status >= 200 && resp.Status < 300))
	obj.Set("status", interp.Number(float64(resp.Status)))
	obj.Set("statusText", interp.String(resp.StatusText))
	obj.Set("url", interp.String(resp.URL))
	obj.Set("headers", interp.ObjectValue(headers))
	obj.Set("credentialed", interp.Bool(credentialed))
	obj.Set("text", nativeFn("text", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.String(bodyText), nil
	}))
	obj.Set("json", nativeFn("json", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return bodyJSON, nil
	}))
	obj.Set("__bodyText__", interp.String(bodyText))
	obj.Set("__bodyJson__", bodyJSON)
	return obj
}

func errorResponseObject(url string, err error) *interp.Object {
	obj := interp.NewObject()
	obj.Set("ok", interp.Bool(false))
	obj.Set("status", interp.Number(0))
	obj.Set("statusText", interp.String(err.Error()))
	obj.Set("url", interp.String(url))
	obj.Set("headers", interp.ObjectValue(interp.NewObject()))
	obj.Set("credentialed", interp.Bool(false))
	obj.Set("text", nativeFn("text", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.String(""), nil
	}))
	obj.Set("json", nativeFn("json", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Null, nil
	}))
	obj.Set("__bodyText__", interp.String(""))
	obj.Set("__bodyJson__", interp.Null)
	return obj
}
